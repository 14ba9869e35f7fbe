package match

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownTest indicates a test name with no registered factory.
var ErrUnknownTest = errors.New("unknown match test")

// Built-in test names.
const (
	TestExact      = "exact"
	TestShared     = "shared"
	TestSimilarity = "lcs"
)

// Params tunes the built-in tests.
type Params struct {
	TopK      int
	Threshold float64
}

// DefaultParams returns the built-in defaults.
func DefaultParams() Params {
	return Params{TopK: DefaultTopK, Threshold: DefaultThreshold}
}

// Factory builds a test from params.
type Factory func(Params) Test

var (
	registryMu sync.RWMutex
	registry   map[string]Factory
)

func init() {
	registry = make(map[string]Factory)
	Register(TestExact, ExactTest)
	Register(TestShared, SharedTest)
	Register(TestSimilarity, SimilarityTest)
}

// Register makes a test available by name, replacing any previous factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Names returns the registered test names in lexical order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the named tests in the given order.
func Build(names []string, p Params) ([]Test, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	tests := make([]Test, 0, len(names))
	for _, name := range names {
		f, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTest, name)
		}
		tests = append(tests, f(p))
	}
	return tests, nil
}

// ExactTest reports every catalog fingerprint identical to the query.
func ExactTest(Params) Test {
	return Test{
		Name:        TestExact,
		Description: "catalog fingerprints identical to the query, code for code",
		Compare:     ExactEqual,
		Reduce:      AllTrue,
	}
}

// SharedTest ranks catalog fingerprints by the number of option codes shared with the query.
func SharedTest(p Params) Test {
	return Test{
		Name:        TestShared,
		Description: fmt.Sprintf("top %d by number of option codes in common", topK(p)),
		Compare:     SharedOptions,
		Reduce:      TopK(p.TopK),
	}
}

// SimilarityTest ranks catalog fingerprints by ordered sequence similarity.
func SimilarityTest(p Params) Test {
	return Test{
		Name:        TestSimilarity,
		Description: fmt.Sprintf("top %d by sequence similarity ratio (exact above %.2f)", topK(p), p.Threshold),
		Compare:     BoundedSimilarity(p.Threshold),
		Reduce:      TopK(p.TopK),
	}
}

func topK(p Params) int {
	if p.TopK <= 0 {
		return DefaultTopK
	}
	return p.TopK
}
