package spl

import "strings"

// TerminatorIndex returns the index of the first sentence terminator
// ('.' or '!') in s, or -1 if there is none.
func TerminatorIndex(s string) int {
	return strings.IndexAny(s, ".!")
}

// Consumed returns how many bytes of s a statement ending at the next
// sentence terminator occupies. Without a terminator the statement runs
// to the end of s.
func Consumed(s string) int {
	if i := TerminatorIndex(s); i >= 0 {
		return i + 1
	}
	return len(s)
}

// Declaration is a parsed "act <numeral>:" or "scene <numeral>:" prefix.
type Declaration struct {
	// Offset is where the keyword starts within the scanned fragment.
	Offset int

	// Numeral is the trimmed text between the keyword and the separator.
	Numeral string

	// Colon reports whether the numeral was terminated by ':'.
	Colon bool
}

// ParseDeclaration reports whether fragment, after leading whitespace,
// starts with keyword followed by a space (case-insensitive). The numeral
// runs up to the first ':' or ','; only ':' is a valid separator.
func ParseDeclaration(fragment, keyword string) (Declaration, bool) {
	offset := len(fragment) - len(strings.TrimLeft(fragment, " \t"))
	rest := fragment[offset:]
	prefix := keyword + " "
	if len(rest) < len(prefix) || !strings.EqualFold(rest[:len(prefix)], prefix) {
		return Declaration{}, false
	}

	rest = rest[len(prefix):]
	decl := Declaration{Offset: offset}
	if i := strings.IndexAny(rest, ":,"); i >= 0 {
		decl.Numeral = strings.TrimSpace(rest[:i])
		decl.Colon = rest[i] == ':'
	} else {
		decl.Numeral = strings.TrimSpace(rest)
	}
	return decl, true
}

// CountDeclarations counts the "keyword <numeral> :" patterns in text.
// Keyword and numeral compare case-insensitively and the numeral must
// match exactly, not as a prefix of a longer numeral.
func CountDeclarations(text, keyword, numeral string) int {
	if numeral == "" {
		return 0
	}
	count := 0
	for i := 0; i < len(text); i++ {
		if declarationAt(text, i, keyword, numeral) {
			count++
		}
	}
	return count
}

// FindDeclaration returns the offset of the first "keyword <letters> :"
// pattern at or after from, or -1.
func FindDeclaration(text, keyword string, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(text); i++ {
		if declarationAt(text, i, keyword, "") {
			return i
		}
	}
	return -1
}

// declarationAt matches a declaration starting exactly at i. An empty
// numeral accepts any run of letters.
func declarationAt(text string, i int, keyword, numeral string) bool {
	if i+len(keyword) > len(text) || !strings.EqualFold(text[i:i+len(keyword)], keyword) {
		return false
	}
	if i > 0 && IsLetter(text[i-1]) {
		return false
	}

	j := i + len(keyword)
	k := skipBlanks(text, j)
	if k == j {
		return false
	}

	if numeral != "" {
		if k+len(numeral) > len(text) || !strings.EqualFold(text[k:k+len(numeral)], numeral) {
			return false
		}
		k += len(numeral)
	} else {
		start := k
		for k < len(text) && IsLetter(text[k]) {
			k++
		}
		if k == start {
			return false
		}
	}
	if k < len(text) && IsLetter(text[k]) {
		return false
	}

	k = skipBlanks(text, k)
	return k < len(text) && text[k] == ':'
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// VarMatch is a "$name" reference, optionally assigned a literal.
type VarMatch struct {
	// Name is the variable name without the '$'.
	Name string

	// Literal is the assigned literal text, empty for a plain reference.
	Literal string

	// Index is the offset of the '$'.
	Index int

	// End is the offset just past the match.
	End int
}

// IsAssignment reports whether the reference assigns a literal.
func (m VarMatch) IsAssignment() bool {
	return m.Literal != ""
}

// MatchVariables returns every variable reference in s, left to right.
// A name starts with a letter and continues with letters or digits.
// A literal is true, false, an integer or decimal, a double-quoted string
// or a brace-delimited aggregate. String and aggregate literals extend to
// the last closing quote or brace on the line.
func MatchVariables(s string) []VarMatch {
	var matches []VarMatch
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 >= len(s) || !IsLetter(s[i+1]) {
			continue
		}
		j := i + 1
		for j < len(s) && (IsLetter(s[j]) || isDigit(s[j])) {
			j++
		}
		m := VarMatch{Name: s[i+1 : j], Index: i, End: j}
		if j < len(s) && s[j] == '=' {
			if n := literalLen(s[j+1:]); n > 0 {
				m.Literal = s[j+1 : j+1+n]
				m.End = j + 1 + n
			}
		}
		matches = append(matches, m)
		i = m.End - 1
	}
	return matches
}

func literalLen(s string) int {
	for _, kw := range []string{"false", "true"} {
		if len(s) >= len(kw) && strings.EqualFold(s[:len(kw)], kw) {
			return len(kw)
		}
	}
	if len(s) == 0 {
		return 0
	}
	switch {
	case isDigit(s[0]):
		n := 1
		for n < len(s) && isDigit(s[n]) {
			n++
		}
		if n+1 < len(s) && s[n] == '.' && isDigit(s[n+1]) {
			n += 2
			for n < len(s) && isDigit(s[n]) {
				n++
			}
		}
		return n
	case s[0] == '"':
		if end := strings.LastIndexByte(s, '"'); end > 0 {
			return end + 1
		}
	case s[0] == '{':
		if end := strings.LastIndexByte(s, '}'); end > 0 {
			return end + 1
		}
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Directive is an output directive such as log(text).
type Directive struct {
	// Category is the directive keyword: log, prio, out or err.
	Category string

	// Text is the text between the parentheses.
	Text string

	// Index is the offset of the keyword.
	Index int
}

// DirectiveCategories lists the recognized directive keywords.
var DirectiveCategories = []string{"log", "prio", "out", "err"}

// MatchDirectives returns every directive in s, left to right. The text
// runs to the first closing parenthesis.
func MatchDirectives(s string) []Directive {
	var found []Directive
	for i := 0; i < len(s); i++ {
		for _, kw := range DirectiveCategories {
			open := i + len(kw)
			if open >= len(s) || s[open] != '(' || s[i:open] != kw {
				continue
			}
			end := strings.IndexByte(s[open+1:], ')')
			if end < 0 {
				continue
			}
			found = append(found, Directive{Category: kw, Text: s[open+1 : open+1+end], Index: i})
			i = open + 1 + end
			break
		}
	}
	return found
}

// ExceptionMatch describes an exception found on a line.
type ExceptionMatch struct {
	// Name is the trimmed text inside exception(...).
	Name string

	// Explicit is true for the exception(...) form and false for a bare
	// occurrence of the word.
	Explicit bool
}

// MatchException looks for exception(name) and, failing that, for the
// bare word "exception". The name extends to the last ')' on the line.
func MatchException(s string) (ExceptionMatch, bool) {
	const open = "exception("
	if i := strings.Index(s, open); i >= 0 {
		start := i + len(open)
		if end := strings.LastIndexByte(s, ')'); end >= start {
			return ExceptionMatch{Name: strings.TrimSpace(s[start:end]), Explicit: true}, true
		}
	}
	if strings.Contains(s, "exception") {
		return ExceptionMatch{}, true
	}
	return ExceptionMatch{}, false
}
