// Package spl holds the text-level building blocks of the SPL debugger:
// the word tokenizer, roman numeral decoding, the small scanners that
// recognize declarations, variable references, output directives and
// exceptions, and the indexed Source the engine executes.
//
// Every scanner is a hand-written matcher with a narrow contract so the
// recognition rules can be tested in isolation:
//
//	ParseDeclaration   "act <numeral>:" / "scene <numeral>:" prefixes
//	CountDeclarations  exact-numeral occurrences inside a span of text
//	FindDeclaration    the next declaration of any numeral
//	MatchVariables     "$name" with an optional "=literal"
//	MatchDirectives    log(...), prio(...), out(...), err(...)
//	MatchException     exception(name) or a bare "exception"
//
// Offsets are byte offsets into the line or text they were computed on.
package spl
