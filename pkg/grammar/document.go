// Package grammar parses the fingerbank configuration format: INI-like sections of
// key/value assignments where a value may span several lines through a heredoc
// (key = <<EOF ... EOF).
package grammar

// DefaultSection is the section that receives assignments made before the first
// header. Its keys are inherited by every other section through Document.Lookup.
const DefaultSection = "DEFAULT"

// Section is a named group of assignments. Keys keep their first insertion order;
// reassigning a key overwrites the value in place.
type Section struct {
	Name   string
	Line   int // line of the header, 0 for the implicit DEFAULT section
	keys   []string
	values map[string]string
}

func newSection(name string, line int) *Section {
	return &Section{Name: name, Line: line, values: make(map[string]string)}
}

// Set assigns value to key.
func (s *Section) Set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value assigned to key in this section only.
func (s *Section) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (s *Section) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Section) Len() int {
	return len(s.keys)
}

// Document is the parsed form of a configuration text: its sections in document
// order. A header that repeats an earlier name opens a new section rather than
// reopening the old one.
type Document struct {
	defaults *Section
	sections []*Section
}

func newDocument() *Document {
	return &Document{defaults: newSection(DefaultSection, 0)}
}

// Defaults returns the DEFAULT section.
func (d *Document) Defaults() *Section {
	return d.defaults
}

// Sections returns the named sections in document order, excluding DEFAULT.
func (d *Document) Sections() []*Section {
	return append([]*Section(nil), d.sections...)
}

// Section returns the last section called name.
func (d *Document) Section(name string) (*Section, bool) {
	if name == DefaultSection {
		return d.defaults, true
	}
	for i := len(d.sections) - 1; i >= 0; i-- {
		if d.sections[i].Name == name {
			return d.sections[i], true
		}
	}
	return nil, false
}

// Lookup resolves key in sec, falling back to the DEFAULT section.
func (d *Document) Lookup(sec *Section, key string) (string, bool) {
	if sec != nil {
		if v, ok := sec.Get(key); ok {
			return v, true
		}
	}
	return d.defaults.Get(key)
}

func (d *Document) open(name string, line int) *Section {
	if name == DefaultSection {
		return d.defaults
	}
	sec := newSection(name, line)
	d.sections = append(d.sections, sec)
	return sec
}
