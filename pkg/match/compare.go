package match

import "github.com/vulntor/fingerbank/pkg/fingerprint"

// DefaultThreshold is the quick-bound level above which BoundedSimilarity pays
// for the exact ratio.
const DefaultThreshold = 0.5

// ExactEqual reports whether both fingerprints list the same codes in the same order.
func ExactEqual(unknown, known fingerprint.Fingerprint) Value {
	return unknown.Equal(known)
}

// SharedOptions counts the distinct codes present in both fingerprints.
func SharedOptions(unknown, known fingerprint.Fingerprint) Value {
	a, b := unknown.Set(), known.Set()
	if len(b) < len(a) {
		a, b = b, a
	}
	shared := 0
	for code := range a {
		if _, ok := b[code]; ok {
			shared++
		}
	}
	return shared
}

// BoundedSimilarity returns a CompareFunc scoring sequence similarity in [0, 1].
// The exact Ratio is computed only when the QuickRatio bound reaches threshold;
// below it the bound itself is returned, which never understates the true ratio.
func BoundedSimilarity(threshold float64) CompareFunc {
	return func(unknown, known fingerprint.Fingerprint) Value {
		bound := QuickRatio(unknown, known)
		if bound < threshold {
			return bound
		}
		return Ratio(unknown, known)
	}
}
