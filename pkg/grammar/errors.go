package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedLine indicates a line that matches none of the grammar rules.
	ErrUnexpectedLine = errors.New("unexpected line")
	// ErrUnterminatedHeredoc indicates input ended while a heredoc was still open.
	ErrUnterminatedHeredoc = errors.New("unterminated heredoc")
)

// Error reports a fatal grammar violation together with the offending line.
type Error struct {
	Line int    // 1-based line number
	Text string // raw line content
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Err
}
