// Package phonetic strips transcription decoration from IPA strings and approximates syllable
// boundaries. Every phonetic comparison in rhymeserve goes through Filter or a Cursor.
package phonetic

import (
	"iter"
	"unicode/utf8"
)

// Ignored diacritics and markers. Rhyme matching must not see any of these.
const (
	PrimaryStress   = '\u02C8' // ˈ
	SecondaryStress = '\u02CC' // ˌ
	Long            = '\u02D0' // ː
	HalfLong        = '\u02D1' // ˑ
	TieAbove        = '\u0361'
	TieBelow        = '\u035C'
	SyllabicBelow   = '\u0329'
	SyllabicAbove   = '\u030D'
	NonSyllabic     = '\u032F'
	VoicelessBelow  = '\u0325'
	VoicelessAbove  = '\u030A'
	Nasalized       = '\u0303'
	Velarized       = '\u0334'
	ASCIIStress     = '\''
	SyllableBreak   = '.'
	Linking         = '\u203F' // ‿
)

var ignored = map[rune]struct{}{
	PrimaryStress:   {},
	SecondaryStress: {},
	Long:            {},
	HalfLong:        {},
	TieAbove:        {},
	TieBelow:        {},
	SyllabicBelow:   {},
	SyllabicAbove:   {},
	NonSyllabic:     {},
	VoicelessBelow:  {},
	VoicelessAbove:  {},
	Nasalized:       {},
	Velarized:       {},
	ASCIIStress:     {},
	SyllableBreak:   {},
	Linking:         {},
}

// IsIgnored reports whether r is dropped by the filter.
func IsIgnored(r rune) bool {
	_, ok := ignored[r]
	return ok
}

// Filter yields the runes of text with ignored marks removed. With reverse set the runes are
// produced back to front without building a reversed copy.
func Filter(text string, reverse bool) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		c := NewCursor(text, reverse)
		for {
			r, ok := c.Next()
			if !ok || !yield(r) {
				return
			}
		}
	}
}

// Filtered returns text with ignored marks removed, in reading order.
func Filtered(text string) string {
	buf := make([]rune, 0, len(text))
	for r := range Filter(text, false) {
		buf = append(buf, r)
	}
	return string(buf)
}

// Cursor walks a transcription one filtered rune at a time. It is the allocation-free form of
// Filter used by comparers on hot paths.
type Cursor struct {
	text    string
	pos     int
	reverse bool
}

// NewCursor positions a cursor at the start (or, with reverse, the end) of text.
func NewCursor(text string, reverse bool) Cursor {
	c := Cursor{text: text, reverse: reverse}
	if reverse {
		c.pos = len(text)
	}
	return c
}

// Next returns the next rune that survives the filter.
func (c *Cursor) Next() (rune, bool) {
	for {
		var r rune
		var size int
		if c.reverse {
			if c.pos <= 0 {
				return 0, false
			}
			r, size = utf8.DecodeLastRuneInString(c.text[:c.pos])
			c.pos -= size
		} else {
			if c.pos >= len(c.text) {
				return 0, false
			}
			r, size = utf8.DecodeRuneInString(c.text[c.pos:])
			c.pos += size
		}
		if !IsIgnored(r) {
			return r, true
		}
	}
}

// Compare orders two rune cursors lexicographically. A cursor that runs out first sorts first.
func Compare(a, b Cursor) int {
	for {
		ra, okA := a.Next()
		rb, okB := b.Next()
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return -1
		case !okB:
			return 1
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		}
	}
}

// ComparePrefix compares key against the leading runes of c. It returns 0 when key is a
// prefix of what c yields, otherwise the ordering of key relative to c.
func ComparePrefix(key []rune, c Cursor) int {
	for _, k := range key {
		r, ok := c.Next()
		if !ok {
			return 1
		}
		if k < r {
			return -1
		}
		if k > r {
			return 1
		}
	}
	return 0
}

// HasSuffix reports whether the filtered form of text ends with the filtered form of suffix.
func HasSuffix(text, suffix string) bool {
	t := NewCursor(text, true)
	s := NewCursor(suffix, true)
	for {
		rs, ok := s.Next()
		if !ok {
			return true
		}
		rt, ok := t.Next()
		if !ok || rt != rs {
			return false
		}
	}
}
