// Package fingerprint defines the data model shared by the catalog and the matcher:
// DHCP option fingerprints, the entries that own them and the classes that bucket
// entries by id range.
package fingerprint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidCode indicates a fingerprint token that is not a non-negative integer.
	ErrInvalidCode = errors.New("invalid fingerprint code")
	// ErrEmptyCode indicates an empty token between two commas.
	ErrEmptyCode = errors.New("empty fingerprint code")
)

// Fingerprint is an ordered sequence of option codes, e.g. 1,15,3,6,44,46,47.
// Order matters for exact matching; some comparisons treat it as a set.
type Fingerprint []int

// Parse reads a comma-separated list of decimal codes. Whitespace around tokens is
// ignored and an empty (or blank) string yields an empty fingerprint.
func Parse(s string) (Fingerprint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Fingerprint{}, nil
	}

	parts := strings.Split(s, ",")
	fp := make(Fingerprint, 0, len(parts))
	for i, part := range parts {
		tok := strings.TrimSpace(part)
		if tok == "" {
			return nil, fmt.Errorf("%w at position %d in %q", ErrEmptyCode, i, s)
		}
		code, err := strconv.Atoi(tok)
		if err != nil || code < 0 {
			return nil, fmt.Errorf("%w %q in %q", ErrInvalidCode, tok, s)
		}
		fp = append(fp, code)
	}
	return fp, nil
}

// MustParse is like Parse but panics on error. Intended for tests and literals.
func MustParse(s string) Fingerprint {
	fp, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return fp
}

// String returns the canonical comma-joined form.
func (f Fingerprint) String() string {
	if len(f) == 0 {
		return ""
	}
	var b strings.Builder
	for i, code := range f {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(code))
	}
	return b.String()
}

// Key returns the canonical form used to index the fingerprint exactly.
func (f Fingerprint) Key() string {
	return f.String()
}

// Equal reports whether both fingerprints carry the same codes in the same order.
func (f Fingerprint) Equal(other Fingerprint) bool {
	if len(f) != len(other) {
		return false
	}
	for i := range f {
		if f[i] != other[i] {
			return false
		}
	}
	return true
}

// Set returns the distinct codes of the fingerprint.
func (f Fingerprint) Set() map[int]struct{} {
	set := make(map[int]struct{}, len(f))
	for _, code := range f {
		set[code] = struct{}{}
	}
	return set
}

// Counts returns the multiplicity of every code.
func (f Fingerprint) Counts() map[int]int {
	counts := make(map[int]int, len(f))
	for _, code := range f {
		counts[code]++
	}
	return counts
}
