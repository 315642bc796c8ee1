package rhymeindex

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Validate checks the structural invariants of a decoded index: both maps are permutations of
// the entry positions and all three orders are sorted. Built indexes always pass.
func (x *FrozenIndex[P]) Validate() error {
	x.mustBeReady()
	n := len(x.entries)

	for i := 1; i < n; i++ {
		if CompareSpelling(x.entries[i-1], x.entries[i]) > 0 {
			return fmt.Errorf("%w: entries unsorted at %d", ErrCorruptIndex, i)
		}
	}

	maps := []struct {
		name string
		perm []uint32
		cmp  func(a, b Entry[P]) int
	}{
		{"spelling suffix", x.spellingSuffix, CompareReverseSpelling[P]},
		{"phonetic suffix", x.phoneticSuffix, ComparePhoneticTail[P]},
	}
	for _, m := range maps {
		if len(m.perm) != n {
			return fmt.Errorf("%w: %s map has %d positions for %d entries", ErrCorruptIndex, m.name, len(m.perm), n)
		}
		seen := roaring.New()
		for i, pos := range m.perm {
			if int(pos) >= n {
				return fmt.Errorf("%w: %s map position %d out of range", ErrCorruptIndex, m.name, pos)
			}
			if !seen.CheckedAdd(pos) {
				return fmt.Errorf("%w: %s map repeats position %d", ErrCorruptIndex, m.name, pos)
			}
			if i > 0 && m.cmp(x.entries[m.perm[i-1]], x.entries[pos]) > 0 {
				return fmt.Errorf("%w: %s map unsorted at %d", ErrCorruptIndex, m.name, i)
			}
		}
	}
	return nil
}
