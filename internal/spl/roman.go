package spl

import "strings"

var romanDigits = map[byte]int{
	'I': 1,
	'V': 5,
	'X': 10,
	'L': 50,
	'C': 100,
	'D': 500,
	'M': 1000,
}

// ParseRoman decodes an uppercase roman numeral with the subtractive rule:
// a digit smaller than its right neighbour is subtracted, every other
// digit is added. Surrounding whitespace is ignored.
//
// Well-formedness is not checked, so "IIII" or "IC" decode as long as
// every character is a roman digit. An empty numeral or any other
// character is rejected.
func ParseRoman(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanDigits[s[i]]
		if !ok {
			return 0, false
		}
		if i+1 < len(s) {
			if next, ok := romanDigits[s[i+1]]; ok && v < next {
				total -= v
				continue
			}
		}
		total += v
	}
	return total, true
}
