// Package catalog builds the read-only fingerprint catalog from its text form and
// answers exact, class and similarity queries against it.
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/vulntor/fingerbank/pkg/fingerprint"
	"github.com/vulntor/fingerbank/pkg/grammar"
	"github.com/vulntor/fingerbank/pkg/match"
)

// Catalog is the immutable aggregate of entries, classes and their indexes. It is
// safe for concurrent use once returned by Load.
type Catalog struct {
	entries []*fingerprint.Entry // ascending id
	byID    map[int]*fingerprint.Entry
	classes []*fingerprint.Class // ascending id
	exact   *ExactIndex
	ranges  *RangeIndex
	vendors map[string][]*fingerprint.Entry
	version *semver.Version
	skipped []*RecordError
	engine  *match.Engine
	logger  zerolog.Logger
}

type options struct {
	logger  zerolog.Logger
	workers int
}

// Option configures catalog loading.
type Option func(*options)

// WithLogger sets the logger used while building and matching.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWorkers bounds the number of goroutines used by Match. Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// Load parses text and builds a catalog from it.
func Load(text string, opts ...Option) (*Catalog, error) {
	return LoadReader(strings.NewReader(text), opts...)
}

// LoadReader parses the catalog text read from r.
func LoadReader(r io.Reader, opts ...Option) (*Catalog, error) {
	o := resolveOptions(opts)

	doc, err := grammar.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	recs, err := BuildRecords(doc, o.logger)
	if err != nil {
		return nil, fmt.Errorf("build catalog records: %w", err)
	}

	version, err := parseVersion(doc)
	if err != nil {
		return nil, err
	}

	c, err := newCatalog(recs, o)
	if err != nil {
		return nil, err
	}
	c.version = version

	o.logger.Debug().
		Int("entries", len(c.entries)).
		Int("classes", len(c.classes)).
		Int("fingerprints", c.exact.Len()).
		Int("skipped", len(c.skipped)).
		Msg("catalog loaded")
	return c, nil
}

// LoadFile reads and builds the catalog stored at path.
func LoadFile(path string, opts ...Option) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadReader(f, opts...)
}

func resolveOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New assembles a catalog from already built records. Entries and classes that
// share an id are resolved last-write-wins.
func New(recs *Records, opts ...Option) (*Catalog, error) {
	return newCatalog(recs, resolveOptions(opts))
}

func newCatalog(recs *Records, o options) (*Catalog, error) {
	byID := make(map[int]*fingerprint.Entry, len(recs.Entries))
	for _, e := range recs.Entries {
		byID[e.ID] = e
	}
	// Surviving entries in document order; the exact index resolves shared
	// fingerprints in favour of the entry declared last.
	docOrder := make([]*fingerprint.Entry, 0, len(byID))
	for _, e := range recs.Entries {
		if byID[e.ID] == e {
			docOrder = append(docOrder, e)
		}
	}
	entries := append([]*fingerprint.Entry(nil), docOrder...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	classByID := make(map[int]*fingerprint.Class, len(recs.Classes))
	for _, c := range recs.Classes {
		classByID[c.ID] = c
	}
	classes := make([]*fingerprint.Class, 0, len(classByID))
	for _, c := range classByID {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })

	ranges, err := NewRangeIndex(classes)
	if err != nil {
		return nil, fmt.Errorf("build range index: %w", err)
	}

	return &Catalog{
		entries: entries,
		byID:    byID,
		classes: classes,
		exact:   NewExactIndex(docOrder),
		ranges:  ranges,
		vendors: groupByVendor(entries),
		skipped: recs.Skipped,
		engine:  match.NewEngine(entries, match.WithWorkers(o.workers), match.WithLogger(o.logger)),
		logger:  o.logger,
	}, nil
}

func parseVersion(doc *grammar.Document) (*semver.Version, error) {
	raw, ok := doc.Defaults().Get(keyVersion)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, &RecordError{
			Section: grammar.DefaultSection,
			Key:     keyVersion,
			Err:     fmt.Errorf("%w: %v", ErrInvalidValue, err),
		}
	}
	return v, nil
}

// groupByVendor derives the vendor view from the final entry set.
func groupByVendor(entries []*fingerprint.Entry) map[string][]*fingerprint.Entry {
	vendors := make(map[string][]*fingerprint.Entry)
	for _, e := range entries {
		if e.VendorID == "" {
			continue
		}
		vendors[e.VendorID] = append(vendors[e.VendorID], e)
	}
	return vendors
}

// LookupExact returns the entry that declares exactly fp.
func (c *Catalog) LookupExact(fp fingerprint.Fingerprint) (*fingerprint.Entry, bool) {
	return c.exact.Get(fp)
}

// LookupClass returns the class whose ranges contain entryID.
func (c *Catalog) LookupClass(entryID int) (*fingerprint.Class, bool) {
	return c.ranges.Lookup(entryID)
}

// ClassOf returns the class of the entry.
func (c *Catalog) ClassOf(e *fingerprint.Entry) (*fingerprint.Class, bool) {
	if e == nil {
		return nil, false
	}
	return c.ranges.Lookup(e.ID)
}

// Match scores fp against every catalog fingerprint with the given tests and
// returns each test's selected results.
func (c *Catalog) Match(ctx context.Context, fp fingerprint.Fingerprint, tests ...match.Test) (*match.Report, error) {
	return c.engine.Run(ctx, fp, tests...)
}

// Entry returns the entry with the given id.
func (c *Catalog) Entry(id int) (*fingerprint.Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Entries returns all entries ordered by id.
func (c *Catalog) Entries() []*fingerprint.Entry {
	return append([]*fingerprint.Entry(nil), c.entries...)
}

// Classes returns all classes ordered by id.
func (c *Catalog) Classes() []*fingerprint.Class {
	return append([]*fingerprint.Class(nil), c.classes...)
}

// Class returns the class with the given id.
func (c *Catalog) Class(id int) (*fingerprint.Class, bool) {
	i := sort.Search(len(c.classes), func(i int) bool { return c.classes[i].ID >= id })
	if i < len(c.classes) && c.classes[i].ID == id {
		return c.classes[i], true
	}
	return nil, false
}

// Vendors returns the known vendor identifiers in lexical order.
func (c *Catalog) Vendors() []string {
	out := make([]string, 0, len(c.vendors))
	for v := range c.vendors {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// EntriesByVendor returns the entries that declare vendorID, ordered by id.
func (c *Catalog) EntriesByVendor(vendorID string) []*fingerprint.Entry {
	return append([]*fingerprint.Entry(nil), c.vendors[vendorID]...)
}

// Version returns the catalog version declared in the DEFAULT section, if any.
func (c *Catalog) Version() *semver.Version {
	return c.version
}

// Skipped returns the os sections that were dropped while loading.
func (c *Catalog) Skipped() []*RecordError {
	return append([]*RecordError(nil), c.skipped...)
}

// Stats summarises the catalog size.
type Stats struct {
	Entries      int    `json:"entries" yaml:"entries"`
	Fingerprints int    `json:"fingerprints" yaml:"fingerprints"`
	Classes      int    `json:"classes" yaml:"classes"`
	Ranges       int    `json:"ranges" yaml:"ranges"`
	Vendors      int    `json:"vendors" yaml:"vendors"`
	Skipped      int    `json:"skipped" yaml:"skipped"`
	Version      string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Stats reports counts for the catalog.
func (c *Catalog) Stats() Stats {
	s := Stats{
		Entries:      len(c.entries),
		Fingerprints: c.exact.Len(),
		Classes:      len(c.classes),
		Ranges:       c.ranges.Len(),
		Vendors:      len(c.vendors),
		Skipped:      len(c.skipped),
	}
	if c.version != nil {
		s.Version = c.version.String()
	}
	return s
}
