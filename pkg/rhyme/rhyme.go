// Package rhyme turns raw rhyme-tail hits from a rhymeindex into syllable-bucketed, ranked
// result sets, and merges result sets drawn from several indexes.
package rhyme

import (
	"cmp"
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bastiangx/rhymeserve/pkg/phonetic"
	"github.com/bastiangx/rhymeserve/pkg/rhymeindex"
	"golang.org/x/text/unicode/norm"
)

// Word is a caller-owned copy of one index entry.
type Word struct {
	Spelling  string
	Phonetic  string
	Frequency int64
}

func (w Word) key() wordKey { return wordKey{w.Spelling, w.Phonetic} }

type wordKey struct{ spelling, phonetic string }

// WordGroup is a ranked list of words sharing a label: a rhyme tail ("/aʊs/"), a spelling
// suffix ("-ung") or a compound base ("-Blume").
type WordGroup struct {
	Label     string
	Tail      string
	Syllables int
	Words     []Word
	Favorite  bool
}

// SearchResult is the full answer to one rhyme query.
type SearchResult struct {
	Query string
	// Words are the index entries the query resolved to, one per pronunciation.
	Words []Word
	// Groups holds one group per rhyme tail, longest tail first.
	Groups []WordGroup
	// Extensions holds compounds ending in the query word, e.g. "Wunderblume" for "Blume".
	Extensions []WordGroup
}

// Empty reports whether the result holds no rhymes at all.
func (r SearchResult) Empty() bool {
	return len(r.Groups) == 0 && len(r.Extensions) == 0
}

// Favorite returns the group flagged as the best match, if any.
func (r SearchResult) Favorite() (WordGroup, bool) {
	for _, g := range r.Groups {
		if g.Favorite {
			return g, true
		}
	}
	return WordGroup{}, false
}

// ToWords copies index results into Words.
func ToWords[P rhymeindex.Payload](results []rhymeindex.Result[P]) []Word {
	words := make([]Word, len(results))
	for i, r := range results {
		words[i] = Word{Spelling: r.Spelling(), Phonetic: r.Phonetic(), Frequency: r.Payload().Score()}
	}
	return words
}

// TailLabel renders a rhyme tail the way groups are labelled.
func TailLabel(tail string) string { return "/" + tail + "/" }

// ExtensionLabel is the label of the compound group for word.
func ExtensionLabel(word string) string { return "-" + word }

// Find looks word up in idx and groups its rhymes by tail, for tails of maxSyllables down to one
// syllable. Each rhyme is reported once, under the longest tail it shares. Entries spelled like
// word never appear. Groups hold at most limit words; limit <= 0 means rhymeindex.MaxResults.
func Find[P rhymeindex.Payload](idx *rhymeindex.FrozenIndex[P], word string, maxSyllables, limit int) SearchResult {
	sources := idx.FindAllSpelled(word)
	g := newGrouper[P](word, limit)
	for _, src := range sources {
		g.add(src.Spelling(), src.Phonetic(), maxSyllables, func(n int) iter.Seq[rhymeindex.Result[P]] {
			return idx.PhoneticGroup(src, n)
		})
	}
	return g.result(ToWords(sources))
}

// FindPhonetic is Find for a word that need not be in idx: the caller supplies its
// transcription. It lets a word known to one index query another.
func FindPhonetic[P rhymeindex.Payload](idx *rhymeindex.FrozenIndex[P], word, phon string, maxSyllables, limit int) SearchResult {
	phon = norm.NFD.String(phon)
	g := newGrouper[P](word, limit)
	g.add(word, phon, maxSyllables, func(n int) iter.Seq[rhymeindex.Result[P]] {
		return idx.TailSeq(phonetic.RhymeTail(phon, n))
	})
	return g.result([]Word{{Spelling: word, Phonetic: phon}})
}

// Suffix returns the words of idx ending in suffix as a group labelled "-suffix".
func Suffix[P rhymeindex.Payload](idx *rhymeindex.FrozenIndex[P], suffix string, limit int) WordGroup {
	hits := idx.FindBySuffix(suffix)
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return WordGroup{Label: ExtensionLabel(suffix), Words: ToWords(hits)}
}

type grouper[P rhymeindex.Payload] struct {
	word  string
	limit int
	seen  *roaring.Bitmap

	order      []string
	groups     map[string]*pending[P]
	extensions []rhymeindex.Result[P]
}

type pending[P rhymeindex.Payload] struct {
	tail      string
	syllables int
	favorite  bool
	hits      []rhymeindex.Result[P]
}

func newGrouper[P rhymeindex.Payload](word string, limit int) *grouper[P] {
	if limit <= 0 || limit > rhymeindex.MaxResults {
		limit = rhymeindex.MaxResults
	}
	return &grouper[P]{
		word:   word,
		limit:  limit,
		seen:   roaring.New(),
		groups: make(map[string]*pending[P]),
	}
}

// add collects the hits of one source pronunciation. tails yields the raw run for an n-syllable
// tail; runs are visited longest first so the seen set gives each hit to its longest tail.
func (g *grouper[P]) add(spelling, phon string, maxSyllables int, tails func(n int) iter.Seq[rhymeindex.Result[P]]) {
	top := min(maxSyllables, phonetic.CountSyllables(phon))
	for n := top; n >= 1; n-- {
		tail := phonetic.RhymeTail(phon, n)
		label := TailLabel(tail)
		p, ok := g.groups[label]
		if !ok {
			p = &pending[P]{tail: tail, syllables: n}
			g.groups[label] = p
			g.order = append(g.order, label)
		}
		if n == top {
			p.favorite = true
		}
		for r := range tails(n) {
			if rhymeindex.EqualFold(r.Spelling(), g.word) {
				continue
			}
			if !g.seen.CheckedAdd(uint32(r.Position())) {
				continue
			}
			if isExtension(r.Spelling(), r.Phonetic(), spelling, phon) {
				g.extensions = append(g.extensions, r)
				continue
			}
			p.hits = append(p.hits, r)
		}
	}
}

// isExtension reports whether a hit is a compound built on the query: both its spelling and its
// transcription end with the query's.
func isExtension(spelling, phon, baseSpelling, basePhon string) bool {
	return len(spelling) > len(baseSpelling) &&
		rhymeindex.HasSuffixFold(spelling, baseSpelling) &&
		phonetic.HasSuffix(phon, basePhon)
}

func (g *grouper[P]) result(words []Word) SearchResult {
	res := SearchResult{Query: g.word, Words: words}
	// longest tails first; stable keeps source order among equal lengths
	slices.SortStableFunc(g.order, func(a, b string) int {
		return cmp.Compare(g.groups[b].syllables, g.groups[a].syllables)
	})
	for _, label := range g.order {
		p := g.groups[label]
		if len(p.hits) == 0 {
			continue
		}
		res.Groups = append(res.Groups, WordGroup{
			Label:     label,
			Tail:      p.tail,
			Syllables: p.syllables,
			Words:     ToWords(rhymeindex.Rank(p.hits, g.limit)),
			Favorite:  p.favorite,
		})
	}
	if len(g.extensions) > 0 {
		res.Extensions = append(res.Extensions, WordGroup{
			Label: ExtensionLabel(g.word),
			Words: ToWords(rhymeindex.Rank(g.extensions, g.limit)),
		})
	}
	return res
}
