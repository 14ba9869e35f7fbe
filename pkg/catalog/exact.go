package catalog

import "github.com/vulntor/fingerbank/pkg/fingerprint"

// ExactIndex maps a fingerprint, code for code and in order, to the entry that
// declares it. A fingerprint that is only a prefix of a stored one is not found.
type ExactIndex struct {
	byKey map[string]*fingerprint.Entry
}

// NewExactIndex indexes every fingerprint of every entry. When two entries
// declare the same fingerprint the later one wins.
func NewExactIndex(entries []*fingerprint.Entry) *ExactIndex {
	idx := &ExactIndex{byKey: make(map[string]*fingerprint.Entry)}
	for _, e := range entries {
		for _, fp := range e.Fingerprints {
			idx.Put(fp, e)
		}
	}
	return idx
}

// Put associates fp with entry, replacing any previous owner.
func (x *ExactIndex) Put(fp fingerprint.Fingerprint, entry *fingerprint.Entry) {
	x.byKey[fp.Key()] = entry
}

// Get returns the entry stored at exactly fp.
func (x *ExactIndex) Get(fp fingerprint.Fingerprint) (*fingerprint.Entry, bool) {
	e, ok := x.byKey[fp.Key()]
	return e, ok
}

// Len returns the number of distinct fingerprints indexed.
func (x *ExactIndex) Len() int {
	return len(x.byKey)
}
