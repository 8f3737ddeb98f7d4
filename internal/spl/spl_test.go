package spl

import (
	"reflect"
	"testing"
)

func TestWords(t *testing.T) {
	words := Words(3, "Romeo, a   young-man 42x!")

	want := []Word{
		{Name: "Romeo", Line: 3, Index: 0},
		{Name: "a", Line: 3, Index: 7},
		{Name: "young", Line: 3, Index: 11},
		{Name: "man", Line: 3, Index: 17},
		{Name: "x", Line: 3, Index: 23},
	}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("Words() = %+v, want %+v", words, want)
	}

	if got := Words(0, "  42 !? "); len(got) != 0 {
		t.Errorf("Words() on non-letters = %+v, want none", got)
	}
}

func TestParseRoman(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"I", 1, true},
		{"IV", 4, true},
		{"IX", 9, true},
		{"XIV", 14, true},
		{"XL", 40, true},
		{"XC", 90, true},
		{"CD", 400, true},
		{"MCMXCIV", 1994, true},
		{"MMXXVI", 2026, true},
		{" III ", 3, true},
		{"IIII", 4, true},
		{"IC", 99, true},
		{"", 0, false},
		{"i", 0, false},
		{"XIZ", 0, false},
		{"X1", 0, false},
		{"I V", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseRoman(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseRoman(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseDeclaration(t *testing.T) {
	tests := []struct {
		fragment string
		keyword  string
		want     Declaration
		ok       bool
	}{
		{"Act I: Foo.", "act", Declaration{Numeral: "I", Colon: true}, true},
		{"  ACT XII : The end.", "act", Declaration{Offset: 2, Numeral: "XII", Colon: true}, true},
		{"Scene II, oops.", "scene", Declaration{Numeral: "II"}, true},
		{"Scene III", "scene", Declaration{Numeral: "III"}, true},
		{"Actually not.", "act", Declaration{}, false},
		{"Romeo: act I:", "act", Declaration{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseDeclaration(tt.fragment, tt.keyword)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseDeclaration(%q, %q) = %+v, %v; want %+v, %v", tt.fragment, tt.keyword, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCountDeclarations(t *testing.T) {
	text := "Act I: a.\nScene I: b.\nact  i : again.\nAct II: c.\nReact I: no.\nAct IV: d."

	if got := CountDeclarations(text, "act", "I"); got != 2 {
		t.Errorf("CountDeclarations(act, I) = %d, want 2", got)
	}
	if got := CountDeclarations(text, "act", "II"); got != 1 {
		t.Errorf("CountDeclarations(act, II) = %d, want 1", got)
	}
	if got := CountDeclarations(text, "act", "V"); got != 0 {
		t.Errorf("CountDeclarations(act, V) = %d, want 0", got)
	}
	if got := CountDeclarations(text, "scene", "I"); got != 1 {
		t.Errorf("CountDeclarations(scene, I) = %d, want 1", got)
	}
}

func TestFindDeclaration(t *testing.T) {
	text := "Act I: a.\nScene I: b.\nAct II: c."

	if got := FindDeclaration(text, "act", 0); got != 0 {
		t.Errorf("FindDeclaration(0) = %d, want 0", got)
	}
	if got := FindDeclaration(text, "act", 1); got != 22 {
		t.Errorf("FindDeclaration(1) = %d, want 22", got)
	}
	if got := FindDeclaration(text, "act", 23); got != -1 {
		t.Errorf("FindDeclaration(23) = %d, want -1", got)
	}
}

func TestMatchVariables(t *testing.T) {
	line := `Romeo, $x=5 and $flag=true, $name="Juliet" then $y $obj={a} $z= $r2=3.25.`

	got := MatchVariables(line)
	want := []struct {
		name    string
		literal string
	}{
		{"x", "5"},
		{"flag", "true"},
		{"name", `"Juliet"`},
		{"y", ""},
		{"obj", "{a}"},
		{"z", ""},
		{"r2", "3.25"},
	}
	if len(got) != len(want) {
		t.Fatalf("MatchVariables() returned %d matches, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Name != w.name || got[i].Literal != w.literal {
			t.Errorf("match %d = %q=%q, want %q=%q", i, got[i].Name, got[i].Literal, w.name, w.literal)
		}
	}
	if got[0].Index != 7 || got[0].End != 11 {
		t.Errorf("first match span = [%d,%d), want [7,11)", got[0].Index, got[0].End)
	}
	if !got[0].IsAssignment() || got[3].IsAssignment() {
		t.Error("IsAssignment mismatch")
	}

	if got := MatchVariables("cost is $5"); len(got) != 0 {
		t.Errorf("MatchVariables(digit name) = %+v, want none", got)
	}
}

func TestMatchDirectives(t *testing.T) {
	got := MatchDirectives("log(hello) then prio(high) and out(x) err(bad) blog(y) log(unclosed")

	want := []Directive{
		{Category: "log", Text: "hello", Index: 0},
		{Category: "prio", Text: "high", Index: 16},
		{Category: "out", Text: "x", Index: 31},
		{Category: "err", Text: "bad", Index: 38},
		{Category: "log", Text: "y", Index: 48},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchDirectives() = %+v, want %+v", got, want)
	}
}

func TestMatchException(t *testing.T) {
	tests := []struct {
		line  string
		want  ExceptionMatch
		found bool
	}{
		{"throw exception( oops )!", ExceptionMatch{Name: "oops", Explicit: true}, true},
		{"an exception here", ExceptionMatch{}, true},
		{"exception(unclosed", ExceptionMatch{}, true},
		{"nothing to see", ExceptionMatch{}, false},
	}

	for _, tt := range tests {
		got, found := MatchException(tt.line)
		if found != tt.found || got != tt.want {
			t.Errorf("MatchException(%q) = %+v, %v; want %+v, %v", tt.line, got, found, tt.want, tt.found)
		}
	}
}

func TestNewSource(t *testing.T) {
	src := NewSource("Act I: Foo.\r\n\nScene I: Bar.\n")

	if src.LineCount() != 4 {
		t.Fatalf("LineCount() = %d, want 4", src.LineCount())
	}
	if src.Line(0) != "Act I: Foo." || src.Line(1) != "" || src.Line(9) != "" {
		t.Errorf("unexpected lines: %q", src.Lines)
	}

	wantStarts := []int{0, 3, 3, 6}
	wantEnds := []int{3, 3, 6, 6}
	if !reflect.DeepEqual(src.Starts, wantStarts) || !reflect.DeepEqual(src.Ends, wantEnds) {
		t.Errorf("ranges = %v/%v, want %v/%v", src.Starts, src.Ends, wantStarts, wantEnds)
	}
	for n := range src.Lines {
		if src.Starts[n] > src.Ends[n] {
			t.Errorf("line %d: start %d > end %d", n, src.Starts[n], src.Ends[n])
		}
	}
	if w := src.Instructions[4]; w.Name != "I" || w.Line != 2 || w.Index != 6 {
		t.Errorf("Instructions[4] = %+v", w)
	}
	if got := src.Offset(2, 6); src.Text[got] != 'I' {
		t.Errorf("Offset(2, 6) = %d points at %q", got, src.Text[got])
	}
}
