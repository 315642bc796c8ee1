/*
Package rhymeindex is a build-once, read-many word index answering exact spelling lookups,
homograph enumeration, suffix-of-spelling search and rhyme-tail search over phonetic
transcriptions.

Entries are staged in a Builder and frozen by Build. The frozen index keeps one array of entries
sorted by spelling plus two permutation arrays that view the same entries in reversed-spelling
order and in reversed filtered-phonetic order:

	b := rhymeindex.NewBuilder[rhymeindex.Frequency]()
	b.TryAdd("Haus", "haʊs", 5)
	b.TryAdd("Maus", "maʊs", 3)
	idx := b.Build()
	hits := idx.FindBySuffix("aus")

A FrozenIndex is immutable and safe for concurrent readers. Lookup misses are empty slices or a
false ok, never errors. Misusing the lifecycle (building twice, querying an index that was never
built) panics.
*/
package rhymeindex

import "strconv"

// MaxResults bounds ranked suffix and rhyme-tail result lists.
const MaxResults = 300

// Payload is the per-entry value carried by the index. Score ranks results, highest first.
type Payload interface {
	comparable
	Score() int64
}

// Frequency is the stock payload: a signed corpus frequency score.
type Frequency int32

// Score implements Payload.
func (f Frequency) Score() int64 { return int64(f) }

func (f Frequency) String() string { return strconv.FormatInt(int64(f), 10) }

// Entry is one (spelling, phonetic, payload) record.
type Entry[P Payload] struct {
	spelling string
	phonetic string
	payload  P
}

// NewEntry creates an entry. No validation happens here; Builder.TryAdd rejects blanks.
func NewEntry[P Payload](spelling, phonetic string, payload P) Entry[P] {
	return Entry[P]{spelling: spelling, phonetic: phonetic, payload: payload}
}

// Spelling returns the NFC-normalised written form.
func (e Entry[P]) Spelling() string { return e.spelling }

// Phonetic returns the NFD-normalised transcription.
func (e Entry[P]) Phonetic() string { return e.phonetic }

// Payload returns the value stored with the entry.
func (e Entry[P]) Payload() P { return e.payload }
