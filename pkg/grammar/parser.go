package grammar

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const maxLineSize = 1 << 20

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineSection
	lineHeredoc
	lineAssign
)

// lineRule classifies a physical line. Rules are tried in order and the first match
// wins, so a heredoc start is never mistaken for a plain assignment.
type lineRule struct {
	kind    lineKind
	pattern *regexp.Regexp
}

var lineRules = []lineRule{
	{lineBlank, regexp.MustCompile(`^\s*$`)},
	{lineComment, regexp.MustCompile(`^\s*#`)},
	{lineSection, regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)},
	{lineHeredoc, regexp.MustCompile(`^\s*(\w+)\s*=\s*<<(\w+)\s*$`)},
	{lineAssign, regexp.MustCompile(`^\s*(\w+)\s*=(.*)$`)},
}

func classify(line string) (lineKind, []string, bool) {
	for _, rule := range lineRules {
		if m := rule.pattern.FindStringSubmatch(line); m != nil {
			return rule.kind, m, true
		}
	}
	return 0, nil, false
}

type stateKind int

const (
	scanning stateKind = iota
	inHeredoc
)

// state is the parser's tagged state. The heredoc fields are only meaningful while
// kind == inHeredoc.
type state struct {
	kind       stateKind
	section    *Section
	key        string
	terminator string
	startLine  int
	buffer     []string
}

// Parse reads a configuration document from r.
func Parse(r io.Reader) (*Document, error) {
	doc := newDocument()
	st := state{kind: scanning, section: doc.defaults}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if st.kind == inHeredoc {
			if line == st.terminator {
				st.section.Set(st.key, strings.Join(st.buffer, "\n"))
				st = state{kind: scanning, section: st.section}
				continue
			}
			st.buffer = append(st.buffer, line)
			continue
		}

		kind, m, ok := classify(line)
		if !ok {
			return nil, &Error{Line: lineNo, Text: line, Err: ErrUnexpectedLine}
		}

		switch kind {
		case lineBlank, lineComment:
		case lineSection:
			st.section = doc.open(strings.TrimSpace(m[1]), lineNo)
		case lineHeredoc:
			st = state{
				kind:       inHeredoc,
				section:    st.section,
				key:        m[1],
				terminator: m[2],
				startLine:  lineNo,
			}
		case lineAssign:
			st.section.Set(m[1], assignmentValue(m[2]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}

	if st.kind == inHeredoc {
		return nil, &Error{
			Line: st.startLine,
			Text: fmt.Sprintf("%s = <<%s", st.key, st.terminator),
			Err:  ErrUnterminatedHeredoc,
		}
	}
	return doc, nil
}

// ParseString parses a configuration held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// assignmentValue cuts raw at the first unescaped '#', unescapes "\#" and trims the
// surrounding whitespace.
func assignmentValue(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) && raw[i+1] == '#' {
			b.WriteByte('#')
			i++
			continue
		}
		if c == '#' {
			break
		}
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}
