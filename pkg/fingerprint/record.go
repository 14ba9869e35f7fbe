package fingerprint

import "fmt"

// Entry is a cataloged identity (usually an operating system or device family)
// with one or more known fingerprints.
type Entry struct {
	ID           int
	Description  string
	Fingerprints []Fingerprint
	VendorID     string // optional DHCP vendor class identifier
}

func (e *Entry) String() string {
	return fmt.Sprintf("os %d (%s)", e.ID, e.Description)
}

// Range is an inclusive span of entry ids.
type Range struct {
	Lo int
	Hi int
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool {
	return r.Lo <= n && n <= r.Hi
}

// Overlaps reports whether the two ranges share at least one id.
func (r Range) Overlaps(other Range) bool {
	return r.Lo <= other.Hi && other.Lo <= r.Hi
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Lo, r.Hi)
}

// Class is a named bucket of entries defined by one or more inclusive id ranges.
type Class struct {
	ID          int
	Description string
	Ranges      []Range
}

// Includes reports whether the entry id falls into any of the class ranges.
func (c *Class) Includes(entryID int) bool {
	for _, r := range c.Ranges {
		if r.Contains(entryID) {
			return true
		}
	}
	return false
}

func (c *Class) String() string {
	return fmt.Sprintf("class %d (%s)", c.ID, c.Description)
}
