// Package suggest answers rhyme, suffix, lookup and completion queries across every active
// dictionary, caching rhyme results.
package suggest

import (
	"github.com/bastiangx/rhymeserve/pkg/dictionary"
	"github.com/bastiangx/rhymeserve/pkg/rhyme"
)

// IRhymer defines the interface for rhyme engines
type IRhymer interface {
	// Rhyme groups the rhymes of word by tail, up to syllables syllables
	Rhyme(word string, syllables, limit int) rhyme.SearchResult

	// Suffix returns the words ending in suffix
	Suffix(suffix string, limit int) rhyme.WordGroup

	// Lookup returns every known pronunciation of word
	Lookup(word string) []rhyme.Word

	// Complete returns spellings starting with prefix
	Complete(prefix string, limit int) []Suggestion

	// Registry exposes the dictionaries the engine reads
	Registry() *dictionary.Registry

	// Stats returns statistics about the loaded dictionaries and the cache
	Stats() map[string]int
}
