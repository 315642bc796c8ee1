package rhymeindex

import (
	"cmp"
	"iter"
	"math"
	"slices"

	"github.com/bastiangx/rhymeserve/pkg/phonetic"
)

const maxEntries = math.MaxInt32

// FrozenIndex is the immutable result of Builder.Build or Decode.
type FrozenIndex[P Payload] struct {
	// sorted by CompareSpelling
	entries []Entry[P]
	// positions into entries, sorted by CompareReverseSpelling
	spellingSuffix []uint32
	// positions into entries, sorted by ComparePhoneticTail
	phoneticSuffix []uint32

	ready bool
}

// Result points at one entry of a FrozenIndex. It is a borrow, not a copy: do not keep a
// Result past the lifetime of the index it came from. Two Results are equal (==) when they
// share owner and position.
type Result[P Payload] struct {
	owner *FrozenIndex[P]
	pos   uint32
}

// Valid reports whether r points at an entry.
func (r Result[P]) Valid() bool { return r.owner != nil }

func (r Result[P]) Owner() *FrozenIndex[P] { return r.owner }
func (r Result[P]) Position() int          { return int(r.pos) }
func (r Result[P]) Entry() Entry[P]        { return r.owner.entries[r.pos] }
func (r Result[P]) Spelling() string       { return r.owner.entries[r.pos].spelling }
func (r Result[P]) Phonetic() string       { return r.owner.entries[r.pos].phonetic }
func (r Result[P]) Payload() P             { return r.owner.entries[r.pos].payload }

func (x *FrozenIndex[P]) mustBeReady() {
	if x == nil || !x.ready {
		panic(ErrNotBuilt)
	}
}

// Len returns the number of entries.
func (x *FrozenIndex[P]) Len() int {
	x.mustBeReady()
	return len(x.entries)
}

// At returns the entry at position pos of the spelling order.
func (x *FrozenIndex[P]) At(pos int) Result[P] {
	x.mustBeReady()
	_ = x.entries[pos]
	return Result[P]{owner: x, pos: uint32(pos)}
}

// All yields every entry in spelling order.
func (x *FrozenIndex[P]) All() iter.Seq[Result[P]] {
	x.mustBeReady()
	return func(yield func(Result[P]) bool) {
		for i := range x.entries {
			if !yield(Result[P]{owner: x, pos: uint32(i)}) {
				return
			}
		}
	}
}

func spellingKey[P Payload](spelling string) func(e *Entry[P]) int {
	return func(e *Entry[P]) int { return compareFold(spelling, e.spelling) }
}

// FindExact returns one entry spelled like spelling, ignoring case. Homographs are not
// disambiguated.
func (x *FrozenIndex[P]) FindExact(spelling string) (Result[P], bool) {
	x.mustBeReady()
	pos, ok := x.findFirst(canonical(len(x.entries)), spellingKey[P](spelling))
	if !ok {
		return Result[P]{}, false
	}
	return Result[P]{owner: x, pos: pos}, true
}

// FindAllSpelled returns every entry spelled like spelling, one per pronunciation.
func (x *FrozenIndex[P]) FindAllSpelled(spelling string) []Result[P] {
	x.mustBeReady()
	return slices.Collect(x.findAll(canonical(len(x.entries)), spellingKey[P](spelling)))
}

// SuffixSeq yields, unranked and uncapped, every entry whose spelling ends with suffix.
func (x *FrozenIndex[P]) SuffixSeq(suffix string) iter.Seq[Result[P]] {
	x.mustBeReady()
	if suffix == "" {
		return func(func(Result[P]) bool) {}
	}
	key := reverseFoldKey(suffix)
	return x.findAll(permutation(x.spellingSuffix), func(e *Entry[P]) int {
		return comparePrefixFoldReverse(key, e.spelling)
	})
}

// FindBySuffix returns the entries whose spelling ends with suffix (case-insensitive), highest
// score first, at most MaxResults of them.
func (x *FrozenIndex[P]) FindBySuffix(suffix string) []Result[P] {
	return Rank(slices.Collect(x.SuffixSeq(suffix)), MaxResults)
}

// TailSeq yields every entry whose filtered transcription ends with tail.
func (x *FrozenIndex[P]) TailSeq(tail string) iter.Seq[Result[P]] {
	x.mustBeReady()
	key := make([]rune, 0, len(tail))
	for r := range phonetic.Filter(tail, true) {
		key = append(key, r)
	}
	if len(key) == 0 {
		return func(func(Result[P]) bool) {}
	}
	return x.findAll(permutation(x.phoneticSuffix), func(e *Entry[P]) int {
		return phonetic.ComparePrefix(key, phonetic.NewCursor(e.phonetic, true))
	})
}

// PhoneticGroup yields, unranked and uncapped, the entries sharing entry's rhyme tail of at
// most maxSyllables syllables. entry itself is skipped.
func (x *FrozenIndex[P]) PhoneticGroup(entry Result[P], maxSyllables int) iter.Seq[Result[P]] {
	x.mustBeReady()
	if entry.owner != x {
		panic("rhymeindex: result belongs to another index")
	}
	tail := phonetic.RhymeTail(entry.Phonetic(), maxSyllables)
	return func(yield func(Result[P]) bool) {
		if tail == "" {
			return
		}
		for r := range x.TailSeq(tail) {
			if r == entry {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// EnumeratePhoneticGroup is PhoneticGroup ranked by score and capped at MaxResults.
func (x *FrozenIndex[P]) EnumeratePhoneticGroup(entry Result[P], maxSyllables int) []Result[P] {
	return Rank(slices.Collect(x.PhoneticGroup(entry, maxSyllables)), MaxResults)
}

// Rank sorts results by descending score, breaking ties by spelling order, and keeps at most
// limit of them. A limit <= 0 keeps everything.
func Rank[P Payload](results []Result[P], limit int) []Result[P] {
	slices.SortFunc(results, func(a, b Result[P]) int {
		if c := cmp.Compare(b.Payload().Score(), a.Payload().Score()); c != 0 {
			return c
		}
		return cmp.Compare(a.pos, b.pos)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
