package spl

// Word is a maximal run of ASCII letters found on a source line.
// Words double as instructions for instruction stepping and disassembly.
type Word struct {
	// Name is the letters of the word.
	Name string

	// Line is the zero-based line the word was found on.
	Line int

	// Index is the byte offset of the first letter within the line.
	Index int
}

// IsLetter reports whether c is an ASCII letter.
func IsLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Words scans text left to right and returns every run of letters.
// Everything else separates words and is never part of one.
func Words(line int, text string) []Word {
	var words []Word
	start := -1
	for i := 0; i < len(text); i++ {
		if IsLetter(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, Word{Name: text[start:i], Line: line, Index: start})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, Word{Name: text[start:], Line: line, Index: start})
	}
	return words
}
