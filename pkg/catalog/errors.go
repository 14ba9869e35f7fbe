package catalog

import (
	"errors"
	"fmt"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
	"github.com/vulntor/fingerbank/pkg/grammar"
)

const (
	errorCodeGrammar        = "CATALOG_GRAMMAR"
	errorCodeRecord         = "CATALOG_RECORD"
	errorCodeRangeOverlap   = "CATALOG_RANGE_OVERLAP"
	errorCodeSourceRequired = "CATALOG_SOURCE_REQUIRED"
	errorCodeSourceConflict = "CATALOG_SOURCE_CONFLICT"
	errorCodeSyncFailed     = "CATALOG_SYNC_FAILED"
	errorCodeLoadFailed     = "CATALOG_LOAD_FAILED"
)

var (
	// ErrMissingKey indicates a required key is absent from an os/class section.
	ErrMissingKey = errors.New("missing required key")
	// ErrInvalidValue indicates a value that cannot be interpreted (bad integer, range or code).
	ErrInvalidValue = errors.New("invalid value")
	// ErrRangeOverlap indicates two class ranges share at least one entry id.
	ErrRangeOverlap = errors.New("class ranges overlap")
	// ErrSourceRequired indicates neither --file nor --url was provided.
	ErrSourceRequired = errors.New("source required")
	// ErrSourceConflict indicates both --file and --url were provided.
	ErrSourceConflict = errors.New("multiple sources provided")
)

// RecordError describes an os or class section that could not be turned into a record.
type RecordError struct {
	Section string
	Line    int
	Key     string
	Err     error
}

func (e *RecordError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("section [%s] (line %d): key %q: %v", e.Section, e.Line, e.Key, e.Err)
	}
	return fmt.Sprintf("section [%s] (line %d): %v", e.Section, e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Span is a single class range as stored in the range index.
type Span struct {
	ClassID int
	fingerprint.Range
}

func (s Span) String() string {
	return fmt.Sprintf("class %d [%d-%d]", s.ClassID, s.Lo, s.Hi)
}

// RangeOverlapError names the first pair of intersecting ranges found while
// building the range index.
type RangeOverlapError struct {
	First  Span
	Second Span
}

func (e *RangeOverlapError) Error() string {
	return fmt.Sprintf("%v: %s and %s", ErrRangeOverlap, e.First, e.Second)
}

func (e *RangeOverlapError) Unwrap() error {
	return ErrRangeOverlap
}

type errorCoder interface {
	error
	Code() string
}

type withCodeError struct {
	error
	code string
}

func (e *withCodeError) Code() string {
	return e.code
}

func (e *withCodeError) Unwrap() error {
	return e.error
}

// WithErrorCode annotates err with a catalog error code.
func WithErrorCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &withCodeError{error: err, code: code}
}

// NewSourceRequiredError formats a missing source error.
func NewSourceRequiredError() error {
	return WithErrorCode(fmt.Errorf("%w: either --file or --url must be provided", ErrSourceRequired), errorCodeSourceRequired)
}

// NewSourceConflictError formats a conflicting source error.
func NewSourceConflictError() error {
	return WithErrorCode(fmt.Errorf("%w: only one of --file or --url may be provided at a time", ErrSourceConflict), errorCodeSourceConflict)
}

// WrapSyncError annotates a sync failure.
func WrapSyncError(err error) error {
	if err == nil {
		return nil
	}
	return WithErrorCode(err, errorCodeSyncFailed)
}

// ErrorCode resolves an error to its catalog error code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var coded errorCoder
	if errors.As(err, &coded) {
		if code := coded.Code(); code != "" {
			return code
		}
	}

	var (
		grammarErr *grammar.Error
		recordErr  *RecordError
	)
	switch {
	case errors.As(err, &grammarErr):
		return errorCodeGrammar
	case errors.Is(err, ErrRangeOverlap):
		return errorCodeRangeOverlap
	case errors.As(err, &recordErr):
		return errorCodeRecord
	case errors.Is(err, ErrSourceRequired):
		return errorCodeSourceRequired
	case errors.Is(err, ErrSourceConflict):
		return errorCodeSourceConflict
	default:
		return errorCodeLoadFailed
	}
}

// ExitCode maps catalog errors to CLI exit codes.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch ErrorCode(err) {
	case errorCodeSourceRequired, errorCodeSourceConflict:
		return 2
	case errorCodeGrammar, errorCodeRecord, errorCodeRangeOverlap:
		return 3
	default:
		return 1
	}
}

// Suggestions provides CLI hints for catalog errors.
func Suggestions(err error) []string {
	if err == nil {
		return nil
	}

	switch ErrorCode(err) {
	case errorCodeGrammar:
		return []string{
			"Check the reported line: only [section], key = value and key = <<EOF lines are allowed",
			"Make sure every heredoc is closed by its terminator on a line of its own",
		}
	case errorCodeRecord:
		return []string{
			"Class sections need both 'description' and 'members' (e.g. members = 1-50,60-70)",
		}
	case errorCodeRangeOverlap:
		return []string{
			"Class ranges must not share entry ids; adjust one of the reported ranges",
		}
	case errorCodeSourceRequired:
		return []string{
			"Provide a source:          --file <path> or --url <address>",
			"Example:                   fingerbank catalog sync --url https://example/dhcp_fingerprints.conf",
		}
	case errorCodeSourceConflict:
		return []string{
			"Use only one source flag",
			"Remove either --file or --url",
		}
	case errorCodeSyncFailed:
		return []string{
			"Retry with --url pointing to a reachable catalog",
			"Use --force to replace a newer cached catalog",
		}
	default:
		return nil
	}
}
