package types

import "fmt"

// Span is a half-open character range [Start, Start+Length) in a source file.
// Offsets count UTF-8 bytes from the beginning of the file.
type Span struct {
	Start  int
	Length int
}

// NewSpan creates a span from a start offset and length.
func NewSpan(start, length int) Span {
	return Span{Start: start, Length: length}
}

// SpanBetween creates a span covering [start, end).
func SpanBetween(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Start: start, Length: end - start}
}

// End returns the offset one past the last character of the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Contains reports whether the offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

// ContainsInclusive reports whether the offset falls inside the span or
// sits exactly at its end. Editor queries land at the end of a span when
// the cursor trails the last typed character, so containment checks on
// declaration bodies use this variant.
func (s Span) ContainsInclusive(offset int) bool {
	return offset >= s.Start && offset <= s.End()
}

// IsZero reports whether the span is the zero value.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.Length == 0
}

// String returns a human-readable representation for debugging.
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End())
}
