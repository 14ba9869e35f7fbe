// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// OutputMode defines the output format for CLI commands
type OutputMode string

const (
	// ModeJSON outputs data as JSON
	ModeJSON OutputMode = "json"
	// ModeYAML outputs data as YAML
	ModeYAML OutputMode = "yaml"
	// ModeTable outputs data as ASCII table
	ModeTable OutputMode = "table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Formatter provides consistent output formatting across CLI commands
type Formatter interface {
	// Mode reports the output mode in use.
	Mode() OutputMode

	// PrintData outputs data as JSON or YAML in structured modes and as the
	// given table otherwise.
	PrintData(data any, headers []string, rows [][]string) error

	// PrintJSON outputs data as JSON to stdout
	PrintJSON(data any) error

	// PrintYAML outputs data as YAML to stdout
	PrintYAML(data any) error

	// PrintTable outputs data as ASCII table to stdout
	PrintTable(headers []string, rows [][]string) error

	// PrintTitle outputs a heading (table mode only)
	PrintTitle(title, detail string) error

	// PrintSummary outputs a summary message to stdout (unless quiet mode)
	PrintSummary(message string) error

	// PrintError outputs an error to stderr (or a structured object to stdout)
	PrintError(err error) error

	// PrintSuccessSummary prints a standardized success message
	PrintSuccessSummary(operation, subject string) error

	// PrintTotalFailureSummary prints an error with its code and suggestions
	PrintTotalFailureSummary(operation string, err error, errorCode string, suggestions []string) error
}

// formatter implements the Formatter interface
type formatter struct {
	stdout io.Writer
	stderr io.Writer
	mode   OutputMode
	quiet  bool
	color  bool
}

// New creates a new Formatter
func New(stdout, stderr io.Writer, mode OutputMode, quiet, color bool) Formatter {
	return &formatter{
		stdout: stdout,
		stderr: stderr,
		mode:   mode,
		quiet:  quiet,
		color:  color,
	}
}

func (f *formatter) Mode() OutputMode {
	return f.mode
}

func (f *formatter) PrintData(data any, headers []string, rows [][]string) error {
	switch f.mode {
	case ModeJSON:
		return f.PrintJSON(data)
	case ModeYAML:
		return f.PrintYAML(data)
	default:
		return f.PrintTable(headers, rows)
	}
}

// PrintJSON outputs data as JSON to stdout
func (f *formatter) PrintJSON(data any) error {
	enc := json.NewEncoder(f.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintYAML outputs data as YAML to stdout
func (f *formatter) PrintYAML(data any) error {
	enc := yaml.NewEncoder(f.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// PrintTable outputs data as ASCII table to stdout
func (f *formatter) PrintTable(headers []string, rows [][]string) error {
	if f.mode == ModeJSON || f.mode == ModeYAML {
		// structured modes get one object per row
		items := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			item := make(map[string]string)
			for i, header := range headers {
				if i < len(row) {
					item[header] = row[i]
				}
			}
			items = append(items, item)
		}
		if f.mode == ModeYAML {
			return f.PrintYAML(items)
		}
		return f.PrintJSON(items)
	}

	w := tabwriter.NewWriter(f.stdout, 0, 0, 2, ' ', 0)

	if f.color {
		headerLine := make([]string, len(headers))
		for i, h := range headers {
			headerLine[i] = color.New(color.Bold).Sprint(strings.ToUpper(h))
		}
		if _, err := fmt.Fprintln(w, strings.Join(headerLine, "\t")); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(w, strings.Join(headers, "\t")); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return w.Flush()
}

// PrintTitle outputs a heading with an optional dimmed detail line.
func (f *formatter) PrintTitle(title, detail string) error {
	if f.mode != ModeTable || f.quiet {
		return nil
	}
	if f.color {
		title = titleStyle.Render(title)
		if detail != "" {
			detail = subtleStyle.Render(detail)
		}
	}
	if _, err := fmt.Fprintln(f.stdout, title); err != nil {
		return err
	}
	if detail != "" {
		if _, err := fmt.Fprintln(f.stdout, detail); err != nil {
			return err
		}
	}
	return nil
}

// PrintSummary outputs a summary message to stdout (unless quiet mode)
func (f *formatter) PrintSummary(message string) error {
	if f.quiet {
		return nil
	}

	if f.mode != ModeTable {
		// keep stdout machine readable
		_, err := fmt.Fprintln(f.stderr, message)
		return err
	}

	if f.color {
		_, err := color.New(color.FgGreen).Fprintln(f.stdout, message)
		return err
	}

	_, err := fmt.Fprintln(f.stdout, message)
	return err
}

// PrintError outputs an error to stderr (or a structured object to stdout)
func (f *formatter) PrintError(err error) error {
	if err == nil {
		return nil
	}

	switch f.mode {
	case ModeJSON:
		return f.PrintJSON(map[string]any{"success": false, "error": err.Error()})
	case ModeYAML:
		return f.PrintYAML(map[string]any{"success": false, "error": err.Error()})
	}

	var writeErr error
	if f.color {
		_, writeErr = color.New(color.FgRed).Fprintf(f.stderr, "Error: %v\n", err)
	} else {
		_, writeErr = fmt.Fprintf(f.stderr, "Error: %v\n", err)
	}

	return writeErr
}

// Value renders a test score for table output. Fractions are shown with three
// decimals; everything else goes through its natural string form.
func Value(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', 3, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', 3, 32)
	case bool:
		if n {
			return "yes"
		}
		return "no"
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// ValidateMode checks if the output mode is valid
func ValidateMode(mode string) error {
	switch OutputMode(strings.ToLower(mode)) {
	case ModeJSON, ModeYAML, ModeTable:
		return nil
	default:
		return fmt.Errorf("invalid output mode: %s (must be 'table', 'json' or 'yaml')", mode)
	}
}

// ParseMode converts a string to OutputMode
func ParseMode(mode string) OutputMode {
	switch strings.ToLower(mode) {
	case "json":
		return ModeJSON
	case "yaml", "yml":
		return ModeYAML
	default:
		return ModeTable
	}
}
