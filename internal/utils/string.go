package utils

import (
	"unicode"
)

// CapitalPattern records which runes of s are upper case, so a completion can be shown the way
// the user started typing it.
func CapitalPattern(s string) []bool {
	var pattern []bool
	upperSeen := false
	for _, r := range s {
		upper := unicode.IsUpper(r)
		upperSeen = upperSeen || upper
		pattern = append(pattern, upper)
	}
	if !upperSeen {
		return nil
	}
	return pattern
}

// ApplyCapitals upper-cases the runes of word at the positions marked in pattern. Runes past
// the end of the pattern are left alone.
func ApplyCapitals(word string, pattern []bool) string {
	if len(pattern) == 0 {
		return word
	}
	runes := []rune(word)
	for i := 0; i < len(runes) && i < len(pattern); i++ {
		if pattern[i] {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}
