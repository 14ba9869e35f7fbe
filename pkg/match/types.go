// Package match scores an unknown fingerprint against catalog fingerprints with
// pluggable comparison functions and narrows the results with pluggable
// selection policies.
//
// A Test pairs a CompareFunc, evaluated once per (entry, fingerprint) pair, with a
// ReduceFunc that selects and orders the scored pairs once all of them are known.
// For every built-in test a higher value means a closer match; custom tests that
// order the other way must say so in their Description.
package match

import (
	"time"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
)

// Value is the outcome of a comparison: a bool, an int or a float64.
type Value = any

// CompareFunc compares the unknown fingerprint with a known catalog fingerprint.
type CompareFunc func(unknown, known fingerprint.Fingerprint) Value

// ReduceFunc selects and orders scored pairs. It must not modify its input.
type ReduceFunc func(results []Scored) []Scored

// Test is a named comparison plus the policy that picks its reportable results.
type Test struct {
	Name        string
	Description string
	Compare     CompareFunc
	Reduce      ReduceFunc // nil keeps every result
}

// Result holds every test's score for one catalog fingerprint.
type Result struct {
	Entry       *fingerprint.Entry
	Fingerprint fingerprint.Fingerprint
	Scores      map[string]Value
}

// Scored is a Result projected onto a single test.
type Scored struct {
	Entry       *fingerprint.Entry
	Fingerprint fingerprint.Fingerprint
	Value       Value
}

// TestResult is the reduced outcome of one test.
type TestResult struct {
	Name        string
	Description string
	Results     []Scored
}

// Report is the outcome of one Engine.Run.
type Report struct {
	ID        string
	Query     fingerprint.Fingerprint
	Evaluated int // number of (entry, fingerprint) pairs compared
	Started   time.Time
	Duration  time.Duration
	Tests     []TestResult
}

// Test returns the reduced results of the named test.
func (r *Report) Test(name string) (TestResult, bool) {
	for _, t := range r.Tests {
		if t.Name == name {
			return t, true
		}
	}
	return TestResult{}, false
}

// Numeric orders comparison values: true counts as 1, false and nil as 0.
func Numeric(v Value) float64 {
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	case float32:
		return float64(x)
	default:
		return 0
	}
}
