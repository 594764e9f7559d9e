package surfmath

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is matched by a DomainError.
	ErrDomain = errors.New("value outside arc-cosine domain")
	// ErrDegenerateRange is returned when normalizing an array whose
	// maximum equals its minimum.
	ErrDegenerateRange = errors.New("degenerate range: max equals min")
	// ErrLengthMismatch is returned by element-wise operations on arrays
	// of different lengths.
	ErrLengthMismatch = errors.New("array length mismatch")
)

// DomainError reports the first element that could not be inverted.
type DomainError struct {
	Index int
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("element %d: acos(1/%g): %v", e.Index, e.Value, ErrDomain)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// ParseError reports malformed numeric text.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
