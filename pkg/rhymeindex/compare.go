package rhymeindex

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/rhymeserve/pkg/phonetic"
)

// foldRune maps r to its invariant case-insensitive form.
func foldRune(r rune) rune {
	return unicode.ToLower(unicode.ToUpper(r))
}

// compareFold orders a and b rune by rune after case folding.
func compareFold(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		fa, fb := foldRune(ra), foldRune(rb)
		if fa != fb {
			if fa < fb {
				return -1
			}
			return 1
		}
		a, b = a[na:], b[nb:]
	}
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return -1
	default:
		return 1
	}
}

// compareFoldReverse is compareFold reading both strings from their last rune.
func compareFoldReverse(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		ra, na := utf8.DecodeLastRuneInString(a)
		rb, nb := utf8.DecodeLastRuneInString(b)
		fa, fb := foldRune(ra), foldRune(rb)
		if fa != fb {
			if fa < fb {
				return -1
			}
			return 1
		}
		a, b = a[:len(a)-na], b[:len(b)-nb]
	}
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return -1
	default:
		return 1
	}
}

// comparePrefixFoldReverse returns 0 when the folded runes of key are a prefix of s read back
// to front, otherwise the order of key relative to s in reversed-spelling order.
func comparePrefixFoldReverse(key []rune, s string) int {
	for _, k := range key {
		if len(s) == 0 {
			return 1
		}
		r, n := utf8.DecodeLastRuneInString(s)
		f := foldRune(r)
		if k != f {
			if k < f {
				return -1
			}
			return 1
		}
		s = s[:len(s)-n]
	}
	return 0
}

// reverseFoldKey turns a spelling suffix into the key compared by comparePrefixFoldReverse.
func reverseFoldKey(suffix string) []rune {
	key := make([]rune, 0, len(suffix))
	for len(suffix) > 0 {
		r, n := utf8.DecodeLastRuneInString(suffix)
		key = append(key, foldRune(r))
		suffix = suffix[:len(suffix)-n]
	}
	return key
}

// HasSuffixFold reports whether s ends with suffix, ignoring case the way the index does.
func HasSuffixFold(s, suffix string) bool {
	return comparePrefixFoldReverse(reverseFoldKey(suffix), s) == 0
}

// EqualFold reports whether a and b are the same spelling under the index's case folding.
func EqualFold(a, b string) bool {
	return compareFold(a, b) == 0
}

// Fold returns s with every rune case folded the way the index compares spellings.
func Fold(s string) string {
	return strings.Map(foldRune, s)
}

// CompareSpelling orders entries case-insensitively by spelling.
func CompareSpelling[P Payload](a, b Entry[P]) int {
	return compareFold(a.spelling, b.spelling)
}

// CompareReverseSpelling orders entries by spelling read from the last character, so words
// sharing a suffix sort next to each other.
func CompareReverseSpelling[P Payload](a, b Entry[P]) int {
	return compareFoldReverse(a.spelling, b.spelling)
}

// ComparePhoneticTail orders entries by their filtered transcription read back to front.
func ComparePhoneticTail[P Payload](a, b Entry[P]) int {
	return phonetic.Compare(phonetic.NewCursor(a.phonetic, true), phonetic.NewCursor(b.phonetic, true))
}
