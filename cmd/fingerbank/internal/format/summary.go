// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// PrintSuccessSummary prints a standardized success message
// Examples:
//   - "✓ Synced /home/me/.local/share/fingerbank/cache/dhcp_fingerprints.conf"
//   - "✓ Validate completed successfully"
func (f *formatter) PrintSuccessSummary(operation, subject string) error {
	if f.quiet {
		if subject != "" {
			_, err := fmt.Fprintln(f.stdout, subject)
			return err
		}
		return nil
	}

	switch f.mode {
	case ModeJSON:
		return f.PrintJSON(map[string]any{"success": true, "operation": operation, "subject": subject})
	case ModeYAML:
		return f.PrintYAML(map[string]any{"success": true, "operation": operation, "subject": subject})
	}

	var message string
	if subject != "" {
		message = fmt.Sprintf("✓ %s %s", capitalize(pastTense(operation)), subject)
	} else {
		message = fmt.Sprintf("✓ %s completed successfully", capitalize(operation))
	}

	if f.color {
		_, err := color.New(color.FgGreen).Fprintln(f.stdout, message)
		return err
	}

	_, err := fmt.Fprintln(f.stdout, message)
	return err
}

// PrintTotalFailureSummary prints total failure with error and suggestions
// Example output:
//
//	✗ Failed to sync: validate catalog: parse catalog: line 12: unexpected line: "oops"
//
//	💡 Suggestions:
//	  → Check the reported line: only [section], key = value and key = <<EOF lines are allowed
func (f *formatter) PrintTotalFailureSummary(operation string, err error, errorCode string, suggestions []string) error {
	if f.quiet {
		return nil
	}

	switch f.mode {
	case ModeJSON, ModeYAML:
		obj := map[string]any{
			"success":    false,
			"operation":  operation,
			"error":      err.Error(),
			"error_code": errorCode,
		}
		if len(suggestions) > 0 {
			obj["suggestions"] = suggestions
		}
		if f.mode == ModeYAML {
			return f.PrintYAML(obj)
		}
		return f.PrintJSON(obj)
	}

	var sb strings.Builder

	errorMsg := fmt.Sprintf("✗ Failed to %s: %v", operation, err)
	if f.color {
		sb.WriteString(color.RedString("%s\n", errorMsg))
	} else {
		sb.WriteString(errorMsg + "\n")
	}

	if len(suggestions) > 0 {
		sb.WriteString("\n💡 Suggestions:\n")
		for _, s := range suggestions {
			sb.WriteString(fmt.Sprintf("  → %s\n", s))
		}
	}

	_, werr := f.stderr.Write([]byte(sb.String()))
	return werr
}

// capitalize capitalizes the first letter of a string
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pastTense(verb string) string {
	switch {
	case verb == "":
		return verb
	case strings.HasSuffix(verb, "e"):
		return verb + "d"
	default:
		return verb + "ed"
	}
}
