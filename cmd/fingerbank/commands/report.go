package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vulntor/fingerbank/cmd/fingerbank/internal/format"
	"github.com/vulntor/fingerbank/pkg/catalog"
	"github.com/vulntor/fingerbank/pkg/fingerprint"
	"github.com/vulntor/fingerbank/pkg/match"
	"github.com/vulntor/fingerbank/pkg/stringutil"
)

// Table cell limits for match results. Structured output is never shortened.
const (
	descriptionWidth = 40
	fingerprintWidth = 48
)

type resultView struct {
	EntryID     int    `json:"entry_id" yaml:"entry_id"`
	Description string `json:"description" yaml:"description"`
	VendorID    string `json:"vendor_id,omitempty" yaml:"vendor_id,omitempty"`
	ClassID     int    `json:"class_id,omitempty" yaml:"class_id,omitempty"`
	Class       string `json:"class,omitempty" yaml:"class,omitempty"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Value       any    `json:"value" yaml:"value"`
}

type testView struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Results     []resultView `json:"results" yaml:"results"`
}

type reportView struct {
	ID        string     `json:"id" yaml:"id"`
	Query     string     `json:"query" yaml:"query"`
	Evaluated int        `json:"evaluated" yaml:"evaluated"`
	Started   time.Time  `json:"started" yaml:"started"`
	Duration  string     `json:"duration" yaml:"duration"`
	Tests     []testView `json:"tests" yaml:"tests"`
}

type entryView struct {
	ID           int      `json:"id" yaml:"id"`
	Description  string   `json:"description" yaml:"description"`
	VendorID     string   `json:"vendor_id,omitempty" yaml:"vendor_id,omitempty"`
	ClassID      int      `json:"class_id,omitempty" yaml:"class_id,omitempty"`
	Class        string   `json:"class,omitempty" yaml:"class,omitempty"`
	Fingerprints []string `json:"fingerprints" yaml:"fingerprints"`
}

type classView struct {
	ID          int      `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Members     []string `json:"members" yaml:"members"`
}

func newReportView(c *catalog.Catalog, r *match.Report) reportView {
	v := reportView{
		ID:        r.ID,
		Query:     r.Query.String(),
		Evaluated: r.Evaluated,
		Started:   r.Started,
		Duration:  r.Duration.String(),
		Tests:     make([]testView, 0, len(r.Tests)),
	}
	for _, t := range r.Tests {
		tv := testView{Name: t.Name, Description: t.Description, Results: make([]resultView, 0, len(t.Results))}
		for _, s := range t.Results {
			rv := resultView{
				Fingerprint: s.Fingerprint.String(),
				Value:       s.Value,
			}
			if s.Entry != nil {
				rv.EntryID = s.Entry.ID
				rv.Description = s.Entry.Description
				rv.VendorID = s.Entry.VendorID
				if cls, ok := c.ClassOf(s.Entry); ok {
					rv.ClassID = cls.ID
					rv.Class = cls.Description
				}
			}
			tv.Results = append(tv.Results, rv)
		}
		v.Tests = append(v.Tests, tv)
	}
	return v
}

func newEntryView(c *catalog.Catalog, e *fingerprint.Entry) entryView {
	v := entryView{
		ID:           e.ID,
		Description:  e.Description,
		VendorID:     e.VendorID,
		Fingerprints: make([]string, len(e.Fingerprints)),
	}
	for i, fp := range e.Fingerprints {
		v.Fingerprints[i] = fp.String()
	}
	if cls, ok := c.ClassOf(e); ok {
		v.ClassID = cls.ID
		v.Class = cls.Description
	}
	return v
}

func newClassView(cls *fingerprint.Class) classView {
	v := classView{ID: cls.ID, Description: cls.Description, Members: make([]string, len(cls.Ranges))}
	for i, r := range cls.Ranges {
		v.Members[i] = r.String()
	}
	return v
}

// printReport renders a match report: one titled table per test in table mode,
// the whole report otherwise.
func printReport(f format.Formatter, c *catalog.Catalog, r *match.Report) error {
	view := newReportView(c, r)
	if f.Mode() != format.ModeTable {
		return f.PrintData(view, nil, nil)
	}

	for i, t := range view.Tests {
		if i > 0 {
			if err := f.PrintSummary(""); err != nil {
				return err
			}
		}
		if err := f.PrintTitle(t.Name, t.Description); err != nil {
			return err
		}
		if len(t.Results) == 0 {
			if err := f.PrintSummary("  (no results)"); err != nil {
				return err
			}
			continue
		}
		rows := make([][]string, 0, len(t.Results))
		for _, res := range t.Results {
			rows = append(rows, []string{
				strconv.Itoa(res.EntryID),
				stringutil.Ellipsis(res.Description, descriptionWidth),
				classLabel(res.ClassID, res.Class),
				format.Value(res.Value),
				stringutil.CodeList(res.Fingerprint, fingerprintWidth),
			})
		}
		if err := f.PrintTable([]string{"os", "description", "class", "score", "fingerprint"}, rows); err != nil {
			return err
		}
	}
	return f.PrintSummary(fmt.Sprintf("%d fingerprints compared in %s", view.Evaluated, view.Duration))
}

func classLabel(id int, description string) string {
	if description == "" {
		return "-"
	}
	return fmt.Sprintf("%d %s", id, description)
}

// saveReport writes the report as JSON into dir, named after its run id.
func saveReport(dir string, c *catalog.Catalog, r *match.Report) (string, error) {
	data, err := json.MarshalIndent(newReportView(c, r), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}
	path := filepath.Join(dir, r.ID+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o640); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
