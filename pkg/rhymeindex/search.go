package rhymeindex

import "iter"

// view is one sort order over the canonical entry array.
type view interface {
	Len() int
	At(i int) uint32
}

// canonical views entries in their own (spelling) order.
type canonical int

func (c canonical) Len() int        { return int(c) }
func (c canonical) At(i int) uint32 { return uint32(i) }

// permutation views entries through an array of positions.
type permutation []uint32

func (p permutation) Len() int        { return len(p) }
func (p permutation) At(i int) uint32 { return p[i] }

// findAll binary searches v for any entry where cmp returns 0, then widens to the whole run of
// such entries. cmp reports the order of the search key relative to an entry. Nothing is yielded
// when no entry matches.
func (x *FrozenIndex[P]) findAll(v view, cmp func(e *Entry[P]) int) iter.Seq[Result[P]] {
	return func(yield func(Result[P]) bool) {
		at := func(i int) *Entry[P] { return &x.entries[v.At(i)] }

		lo, hi := 0, v.Len()
		hit := -1
		for lo < hi {
			m := int(uint(lo+hi) >> 1)
			c := cmp(at(m))
			if c == 0 {
				hit = m
				break
			}
			if c < 0 {
				hi = m
			} else {
				lo = m + 1
			}
		}
		if hit < 0 {
			return
		}

		first := hit
		for first > 0 && cmp(at(first-1)) == 0 {
			first--
		}
		if !yield(Result[P]{owner: x, pos: v.At(first)}) {
			return
		}
		for i := first + 1; i < v.Len(); i++ {
			if cmp(at(i)) != 0 {
				return
			}
			if !yield(Result[P]{owner: x, pos: v.At(i)}) {
				return
			}
		}
	}
}

// findFirst is a plain binary search returning one matching position.
func (x *FrozenIndex[P]) findFirst(v view, cmp func(e *Entry[P]) int) (uint32, bool) {
	lo, hi := 0, v.Len()
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		c := cmp(&x.entries[v.At(m)])
		switch {
		case c == 0:
			return v.At(m), true
		case c < 0:
			hi = m
		default:
			lo = m + 1
		}
	}
	return 0, false
}
