package spl

import "strings"

// Source is an SPL text split into lines with a word-level instruction index.
//
// Instructions is the flat list of every word in source order. Starts[n]
// and Ends[n] give the half-open range of instruction indices found on
// line n, so Starts[n] <= Ends[n] always holds.
type Source struct {
	// Text is the source with line terminators normalized to '\n'.
	Text string

	// Lines are the source lines without terminators.
	Lines []string

	// Instructions is every word of the source, in order.
	Instructions []Word

	// Starts holds the first instruction index of each line.
	Starts []int

	// Ends holds the instruction index just past each line.
	Ends []int

	// offsets holds the byte offset of each line within Text.
	offsets []int
}

// NewSource splits text on "\n" or "\r\n" and builds the instruction index.
// A source always has at least one (possibly empty) line.
func NewSource(text string) *Source {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	src := &Source{
		Text:    text,
		Lines:   lines,
		Starts:  make([]int, len(lines)),
		Ends:    make([]int, len(lines)),
		offsets: make([]int, len(lines)),
	}

	offset := 0
	for n, line := range lines {
		src.offsets[n] = offset
		offset += len(line) + 1

		src.Starts[n] = len(src.Instructions)
		src.Instructions = append(src.Instructions, Words(n, line)...)
		src.Ends[n] = len(src.Instructions)
	}
	return src
}

// LineCount returns the number of lines.
func (s *Source) LineCount() int {
	return len(s.Lines)
}

// Line returns line n, or "" when n is out of range.
func (s *Source) Line(n int) string {
	if n < 0 || n >= len(s.Lines) {
		return ""
	}
	return s.Lines[n]
}

// Offset converts a line and column into an offset within Text.
func (s *Source) Offset(line, column int) int {
	if line < 0 || line >= len(s.offsets) {
		return len(s.Text)
	}
	return s.offsets[line] + column
}
