package rhymeindex

import (
	"errors"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrBuilderConsumed is the panic value for touching a Builder after Build.
	ErrBuilderConsumed = errors.New("rhymeindex: builder already built")
	// ErrNotBuilt is the panic value for querying an index that was neither built nor decoded.
	ErrNotBuilt = errors.New("rhymeindex: index not built")
)

// Builder stages entries for a FrozenIndex. It must be owned by a single goroutine and is
// spent after Build.
type Builder[P Payload] struct {
	staged []Entry[P]

	// one list per target order, each holding insertion indices into staged
	bySpelling []uint32
	byReverse  []uint32
	byPhonetic []uint32

	built bool
}

// NewBuilder creates an empty builder.
func NewBuilder[P Payload]() *Builder[P] {
	return &Builder[P]{}
}

// NewBuilderSize creates a builder with room for n entries.
func NewBuilderSize[P Payload](n int) *Builder[P] {
	return &Builder[P]{
		staged:     make([]Entry[P], 0, n),
		bySpelling: make([]uint32, 0, n),
		byReverse:  make([]uint32, 0, n),
		byPhonetic: make([]uint32, 0, n),
	}
}

// Len returns the number of staged entries.
func (b *Builder[P]) Len() int {
	return len(b.staged)
}

// TryAdd stages one entry. It returns false for a blank spelling or transcription, for one longer
// than the codec's 64 KiB string limit, and for a triple identical to the one staged immediately before it. Duplicates that are not adjacent in
// insertion order are kept.
func (b *Builder[P]) TryAdd(spelling, phon string, payload P) bool {
	if b.built {
		panic(ErrBuilderConsumed)
	}
	spelling = norm.NFC.String(strings.TrimSpace(spelling))
	phon = norm.NFD.String(strings.TrimSpace(phon))
	if spelling == "" || phon == "" || len(spelling) > maxStringLen || len(phon) > maxStringLen {
		return false
	}
	e := Entry[P]{spelling: spelling, phonetic: phon, payload: payload}
	// the staging lists grow in lockstep until Build, so one tail check covers all three
	if b.isTailDuplicate(b.bySpelling, e) {
		return false
	}
	if len(b.staged) == maxEntries {
		return false
	}
	i := uint32(len(b.staged))
	b.staged = append(b.staged, e)
	b.bySpelling = append(b.bySpelling, i)
	b.byReverse = append(b.byReverse, i)
	b.byPhonetic = append(b.byPhonetic, i)
	return true
}

func (b *Builder[P]) isTailDuplicate(list []uint32, e Entry[P]) bool {
	if len(list) == 0 {
		return false
	}
	return b.staged[list[len(list)-1]] == e
}

// Build sorts the staged entries three ways and freezes them. The spelling order becomes the
// canonical entry array; the other two orders are stored as positions into it.
func (b *Builder[P]) Build() *FrozenIndex[P] {
	if b.built {
		panic(ErrBuilderConsumed)
	}
	b.built = true

	b.sortBy(b.bySpelling, CompareSpelling[P])
	b.sortBy(b.byReverse, CompareReverseSpelling[P])
	b.sortBy(b.byPhonetic, ComparePhoneticTail[P])

	n := len(b.staged)
	entries := make([]Entry[P], n)
	translate := make([]uint32, n)
	for pos, ins := range b.bySpelling {
		entries[pos] = b.staged[ins]
		translate[ins] = uint32(pos)
	}
	project(b.byReverse, translate)
	project(b.byPhonetic, translate)

	idx := &FrozenIndex[P]{
		entries:        entries,
		spellingSuffix: b.byReverse,
		phoneticSuffix: b.byPhonetic,
		ready:          true,
	}
	b.staged, b.bySpelling, b.byReverse, b.byPhonetic = nil, nil, nil, nil
	return idx
}

// sortBy stable-sorts insertion indices, so equal keys keep insertion order.
func (b *Builder[P]) sortBy(list []uint32, cmp func(a, b Entry[P]) int) {
	staged := b.staged
	slices.SortStableFunc(list, func(x, y uint32) int {
		return cmp(staged[x], staged[y])
	})
}

// project rewrites insertion indices as positions in the canonical entry array.
func project(list, translate []uint32) {
	for i, ins := range list {
		list[i] = translate[ins]
	}
}
