package phonetic

import "unicode"

var vowels = map[rune]struct{}{
	'a': {}, 'e': {}, 'i': {}, 'o': {}, 'u': {}, 'y': {},
	'ä': {}, 'ö': {}, 'ü': {},
	'æ': {}, 'ɑ': {}, 'ɒ': {}, 'ɐ': {}, 'ɔ': {}, 'ə': {}, 'ɚ': {}, 'ɛ': {}, 'ɜ': {}, 'ɝ': {},
	'ɞ': {}, 'ɘ': {}, 'ɤ': {}, 'ɨ': {}, 'ɪ': {}, 'ɯ': {}, 'ɵ': {}, 'ø': {}, 'œ': {}, 'ɶ': {},
	'ʉ': {}, 'ʊ': {}, 'ʌ': {}, 'ʏ': {}, 'ɷ': {},
}

// IsVowel reports whether r counts as a syllable nucleus.
func IsVowel(r rune) bool {
	_, ok := vowels[unicode.ToLower(r)]
	return ok
}

// combining marks that survive the filter stay attached to their base rune
func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// CountSyllables approximates the syllable count of a transcription as the number of maximal
// vowel runs in its filtered form.
func CountSyllables(text string) int {
	n := 0
	inVowel := false
	for r := range Filter(text, false) {
		if isMark(r) {
			continue
		}
		v := IsVowel(r)
		if v && !inVowel {
			n++
		}
		inVowel = v
	}
	return n
}

// RhymeTail returns the filtered transcription from the nucleus of the n-th syllable counted
// from the end through the end. Words with fewer syllables yield everything from their first
// nucleus. A transcription without vowels, or n < 1, has no tail.
func RhymeTail(text string, n int) string {
	if n < 1 {
		return ""
	}
	var reversed []rune
	seen := 0
	inVowel := false
	c := NewCursor(text, true)
	for {
		r, ok := c.Next()
		if !ok {
			break
		}
		if isMark(r) {
			reversed = append(reversed, r)
			continue
		}
		v := IsVowel(r)
		if !v && inVowel && seen == n {
			break
		}
		if v && !inVowel {
			seen++
		}
		inVowel = v
		reversed = append(reversed, r)
	}
	if seen == 0 {
		return ""
	}
	// trim onset consonants collected after the last nucleus
	end := len(reversed)
	for end > 0 && !IsVowel(reversed[end-1]) {
		end--
	}
	out := make([]rune, end)
	for i := 0; i < end; i++ {
		out[i] = reversed[end-1-i]
	}
	return string(out)
}

// ReversedTail is RhymeTail read back to front, the form the phonetic index is keyed on.
func ReversedTail(text string, n int) []rune {
	tail := []rune(RhymeTail(text, n))
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
	return tail
}
