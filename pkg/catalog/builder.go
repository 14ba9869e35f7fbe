package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
	"github.com/vulntor/fingerbank/pkg/grammar"
)

const (
	keyDescription  = "description"
	keyFingerprints = "fingerprints"
	keyVendor       = "vendor_id"
	keyMembers      = "members"
	keyVersion      = "version"
)

var (
	entrySectionRe = regexp.MustCompile(`^os\s+(\d+)$`)
	classSectionRe = regexp.MustCompile(`^class\s+(\d+)$`)
)

// Records holds the entries and classes built from a parsed document, in
// document order, plus the entry sections that were skipped.
type Records struct {
	Entries []*fingerprint.Entry
	Classes []*fingerprint.Class
	Skipped []*RecordError
}

// BuildRecords interprets the os/class sections of doc. Malformed os sections are
// logged and skipped; a malformed class section aborts the build because a partial
// class set would silently break range membership.
func BuildRecords(doc *grammar.Document, logger zerolog.Logger) (*Records, error) {
	recs := &Records{}

	for _, sec := range doc.Sections() {
		if m := entrySectionRe.FindStringSubmatch(sec.Name); m != nil {
			entry, err := buildEntry(doc, sec, m[1])
			if err != nil {
				logger.Warn().
					Str("section", sec.Name).
					Int("line", sec.Line).
					Err(err).
					Msg("skipping catalog entry")
				recs.Skipped = append(recs.Skipped, err)
				continue
			}
			recs.Entries = append(recs.Entries, entry)
			continue
		}

		if m := classSectionRe.FindStringSubmatch(sec.Name); m != nil {
			class, err := buildClass(doc, sec, m[1])
			if err != nil {
				return nil, err
			}
			recs.Classes = append(recs.Classes, class)
			continue
		}

		logger.Debug().Str("section", sec.Name).Msg("ignoring unrecognized section")
	}

	return recs, nil
}

func buildEntry(doc *grammar.Document, sec *grammar.Section, idText string) (*fingerprint.Entry, *RecordError) {
	fail := func(key string, err error) *RecordError {
		return &RecordError{Section: sec.Name, Line: sec.Line, Key: key, Err: err}
	}

	id, err := parseID(idText)
	if err != nil {
		return nil, fail("", err)
	}

	desc, ok := doc.Lookup(sec, keyDescription)
	if !ok {
		return nil, fail(keyDescription, ErrMissingKey)
	}
	raw, ok := doc.Lookup(sec, keyFingerprints)
	if !ok {
		return nil, fail(keyFingerprints, ErrMissingKey)
	}

	fps, err := parseFingerprintLines(raw)
	if err != nil {
		return nil, fail(keyFingerprints, err)
	}

	vendor, _ := doc.Lookup(sec, keyVendor)

	return &fingerprint.Entry{
		ID:           id,
		Description:  desc,
		Fingerprints: fps,
		VendorID:     vendor,
	}, nil
}

// parseFingerprintLines splits a fingerprints value into one fingerprint per
// non-blank line.
func parseFingerprintLines(raw string) ([]fingerprint.Fingerprint, error) {
	var fps []fingerprint.Fingerprint
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fp, err := fingerprint.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		fps = append(fps, fp)
	}
	if len(fps) == 0 {
		return nil, fmt.Errorf("%w: no fingerprints listed", ErrInvalidValue)
	}
	return fps, nil
}

func buildClass(doc *grammar.Document, sec *grammar.Section, idText string) (*fingerprint.Class, error) {
	fail := func(key string, err error) error {
		return &RecordError{Section: sec.Name, Line: sec.Line, Key: key, Err: err}
	}

	id, err := parseID(idText)
	if err != nil {
		return nil, fail("", err)
	}

	desc, ok := doc.Lookup(sec, keyDescription)
	if !ok {
		return nil, fail(keyDescription, ErrMissingKey)
	}
	members, ok := doc.Lookup(sec, keyMembers)
	if !ok {
		return nil, fail(keyMembers, ErrMissingKey)
	}

	ranges, err := parseMembers(members)
	if err != nil {
		return nil, fail(keyMembers, err)
	}

	return &fingerprint.Class{ID: id, Description: desc, Ranges: ranges}, nil
}

// parseMembers reads "lo-hi,lo-hi,..." where a bare "n" stands for "n-n".
func parseMembers(raw string) ([]fingerprint.Range, error) {
	var ranges []fingerprint.Range
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		loText, hiText, isRange := strings.Cut(tok, "-")
		if !isRange {
			hiText = loText
		}
		lo, err := parseID(loText)
		if err != nil {
			return nil, err
		}
		hi, err := parseID(hiText)
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fmt.Errorf("%w: range %q has lower bound above upper bound", ErrInvalidValue, tok)
		}
		ranges = append(ranges, fingerprint.Range{Lo: lo, Hi: hi})
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: no member ranges listed", ErrInvalidValue)
	}
	return ranges, nil
}

func parseID(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", ErrInvalidValue, s)
	}
	return n, nil
}
