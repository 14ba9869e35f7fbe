package match

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
)

var (
	// ErrNoTests indicates a match was requested without any test.
	ErrNoTests = errors.New("no match tests given")
	// ErrInvalidTest indicates a test without a name or compare function, or a duplicate name.
	ErrInvalidTest = errors.New("invalid match test")
)

// batchesPerWorker splits the pair list finely enough to balance uneven compare
// costs without spawning a goroutine per pair.
const batchesPerWorker = 4

type pair struct {
	entry *fingerprint.Entry
	fp    fingerprint.Fingerprint
}

// Engine evaluates tests over a fixed set of entries. It holds no mutable state
// and may be shared between goroutines.
type Engine struct {
	pairs   []pair
	workers int
	logger  zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWorkers bounds the goroutines used by Match. Zero or less means one per CPU.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) { e.workers = n }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine prepares an engine over entries. Pairs are evaluated and reported in
// entry order, then fingerprint order within each entry.
func NewEngine(entries []*fingerprint.Entry, opts ...EngineOption) *Engine {
	e := &Engine{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	for _, entry := range entries {
		for _, fp := range entry.Fingerprints {
			e.pairs = append(e.pairs, pair{entry: entry, fp: fp})
		}
	}
	return e
}

// Size returns the number of (entry, fingerprint) pairs the engine compares.
func (e *Engine) Size() int {
	return len(e.pairs)
}

// Match runs every test's compare function against every catalog fingerprint.
func (e *Engine) Match(ctx context.Context, unknown fingerprint.Fingerprint, tests []Test) ([]Result, error) {
	if err := validateTests(tests); err != nil {
		return nil, err
	}

	results := make([]Result, len(e.pairs))
	if len(results) == 0 {
		return results, nil
	}

	batch := len(e.pairs) / (e.workers * batchesPerWorker)
	if batch < 1 {
		batch = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for start := 0; start < len(e.pairs); start += batch {
		end := min(start+batch, len(e.pairs))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				p := e.pairs[i]
				scores := make(map[string]Value, len(tests))
				for _, t := range tests {
					scores[t.Name] = t.Compare(unknown, p.fp)
				}
				results[i] = Result{Entry: p.entry, Fingerprint: p.fp, Scores: scores}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// errgroup only sees cancellation observed by a batch; a context cancelled
	// after the last batch started still aborts the match.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Reduce applies each test's reduce function to the results projected onto that
// test's score.
func (e *Engine) Reduce(results []Result, tests []Test) []TestResult {
	out := make([]TestResult, 0, len(tests))
	for _, t := range tests {
		scored := make([]Scored, len(results))
		for i, r := range results {
			scored[i] = Scored{Entry: r.Entry, Fingerprint: r.Fingerprint, Value: r.Scores[t.Name]}
		}
		reduce := t.Reduce
		if reduce == nil {
			reduce = Identity
		}
		out = append(out, TestResult{
			Name:        t.Name,
			Description: t.Description,
			Results:     reduce(scored),
		})
	}
	return out
}

// Run matches unknown against the catalog and reduces the outcome per test.
func (e *Engine) Run(ctx context.Context, unknown fingerprint.Fingerprint, tests ...Test) (*Report, error) {
	started := time.Now()

	results, err := e.Match(ctx, unknown, tests)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:        uuid.NewString(),
		Query:     unknown,
		Evaluated: len(results),
		Started:   started,
		Tests:     e.Reduce(results, tests),
	}
	report.Duration = time.Since(started)

	e.logger.Debug().
		Str("run_id", report.ID).
		Str("query", unknown.String()).
		Int("pairs", report.Evaluated).
		Int("tests", len(tests)).
		Dur("duration", report.Duration).
		Msg("match completed")
	return report, nil
}

func validateTests(tests []Test) error {
	if len(tests) == 0 {
		return ErrNoTests
	}
	seen := make(map[string]struct{}, len(tests))
	for i, t := range tests {
		if t.Name == "" {
			return fmt.Errorf("%w: test[%d] has no name", ErrInvalidTest, i)
		}
		if t.Compare == nil {
			return fmt.Errorf("%w: test %q has no compare function", ErrInvalidTest, t.Name)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: duplicate test name %q", ErrInvalidTest, t.Name)
		}
		seen[t.Name] = struct{}{}
	}
	return nil
}
