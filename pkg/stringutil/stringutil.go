// Package stringutil shortens strings for table cells.
package stringutil

import "strings"

const ellipsis = "..."

// Ellipsis flattens s onto one line and shortens it to at most maxLength runes,
// ending in "..." when something was cut. With maxLength <= 3 there is no room
// for the marker and s is simply cut.
func Ellipsis(s string, maxLength int) string {
	s = singleLine(s)
	if maxLength <= 0 {
		return ""
	}

	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	if maxLength <= len(ellipsis) {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-len(ellipsis)]) + ellipsis
}

// CodeList shortens a comma separated list to at most maxLength bytes without
// splitting an item. The result keeps the leading items and ends in ",...".
// A first item longer than the budget falls back to Ellipsis.
func CodeList(s string, maxLength int) string {
	s = singleLine(s)
	if len(s) <= maxLength {
		return s
	}

	budget := maxLength - len(ellipsis) - 1
	cut := -1
	for i := 0; i < len(s) && i <= budget; i++ {
		if s[i] == ',' {
			cut = i
		}
	}
	if cut <= 0 {
		return Ellipsis(s, maxLength)
	}
	return s[:cut] + "," + ellipsis
}

func singleLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}
