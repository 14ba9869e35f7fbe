package match

import (
	"sort"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
)

// DefaultTopK is the number of results TopK keeps when given a non-positive k.
const DefaultTopK = 5

// TopK keeps the k highest scoring results. Equal scores keep their catalog order.
func TopK(k int) ReduceFunc {
	if k <= 0 {
		k = DefaultTopK
	}
	return func(results []Scored) []Scored {
		sorted := append([]Scored(nil), results...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return Numeric(sorted[i].Value) > Numeric(sorted[j].Value)
		})
		if len(sorted) > k {
			sorted = sorted[:k]
		}
		return sorted
	}
}

// AllTrue keeps the results whose value is the boolean true, in order.
func AllTrue(results []Scored) []Scored {
	return Filter(func(s Scored) bool {
		v, ok := s.Value.(bool)
		return ok && v
	}, nil)(results)
}

// Identity keeps every result unchanged.
func Identity(results []Scored) []Scored {
	return append([]Scored(nil), results...)
}

// Filter keeps the results accepted by keep and hands them to next.
func Filter(keep func(Scored) bool, next ReduceFunc) ReduceFunc {
	if next == nil {
		next = Identity
	}
	return func(results []Scored) []Scored {
		kept := make([]Scored, 0, len(results))
		for _, r := range results {
			if keep(r) {
				kept = append(kept, r)
			}
		}
		return next(kept)
	}
}

// ClassLookup resolves an entry id to its class.
type ClassLookup interface {
	LookupClass(entryID int) (*fingerprint.Class, bool)
}

// InClass keeps the results whose entry belongs to classID, then applies next.
func InClass(lookup ClassLookup, classID int, next ReduceFunc) ReduceFunc {
	return Filter(func(s Scored) bool {
		if s.Entry == nil {
			return false
		}
		c, ok := lookup.LookupClass(s.Entry.ID)
		return ok && c.ID == classID
	}, next)
}
