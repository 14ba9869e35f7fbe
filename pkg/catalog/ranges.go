package catalog

import (
	"sort"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
)

type indexedSpan struct {
	Span
	class *fingerprint.Class
}

// RangeIndex resolves an entry id to the class whose range contains it. Ranges
// across all classes are kept sorted and pairwise disjoint, so a lookup is a
// binary search over the upper bounds followed by one containment check.
type RangeIndex struct {
	spans []indexedSpan
}

// NewRangeIndex flattens the ranges of every class and verifies that no two of
// them intersect. The first overlapping pair is reported as a *RangeOverlapError.
func NewRangeIndex(classes []*fingerprint.Class) (*RangeIndex, error) {
	var spans []indexedSpan
	for _, c := range classes {
		for _, r := range c.Ranges {
			spans = append(spans, indexedSpan{Span: Span{ClassID: c.ID, Range: r}, class: c})
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Lo != spans[j].Lo {
			return spans[i].Lo < spans[j].Lo
		}
		return spans[i].Hi < spans[j].Hi
	})

	if err := checkDisjoint(spans); err != nil {
		return nil, err
	}
	return &RangeIndex{spans: spans}, nil
}

// checkDisjoint expects spans sorted by lower bound. Until the first overlap every
// span ends before the next begins, so comparing neighbours is sufficient.
func checkDisjoint(spans []indexedSpan) error {
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.Lo <= prev.Hi {
			return &RangeOverlapError{First: prev.Span, Second: cur.Span}
		}
	}
	return nil
}

// Lookup returns the class owning entryID. It never fails; ids outside every
// range are simply not found.
func (x *RangeIndex) Lookup(entryID int) (*fingerprint.Class, bool) {
	i := sort.Search(len(x.spans), func(i int) bool {
		return x.spans[i].Hi >= entryID
	})
	if i < len(x.spans) && x.spans[i].Contains(entryID) {
		return x.spans[i].class, true
	}
	return nil, false
}

// Spans returns the indexed ranges in ascending order.
func (x *RangeIndex) Spans() []Span {
	out := make([]Span, len(x.spans))
	for i, s := range x.spans {
		out[i] = s.Span
	}
	return out
}

// Len returns the number of ranges indexed.
func (x *RangeIndex) Len() int {
	return len(x.spans)
}
