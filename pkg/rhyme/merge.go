package rhyme

import (
	"cmp"
	"slices"

	"github.com/bastiangx/rhymeserve/pkg/rhymeindex"
)

// Merge combines results drawn from independently built indexes. Words are identified by
// spelling and transcription; when two inputs carry the same word the higher frequency wins.
// Groups with the same label are unioned, re-ranked and capped at rhymeindex.MaxResults, and
// their Favorite flags are OR-ed. Groups stay longest tail first; equal lengths keep the order
// of first appearance.
func Merge(results ...SearchResult) SearchResult {
	var out SearchResult
	for _, r := range results {
		if out.Query == "" {
			out.Query = r.Query
		}
	}
	words := newWordSet()
	for _, r := range results {
		for _, w := range r.Words {
			words.add(w)
		}
	}
	out.Words = words.list()
	out.Groups = mergeGroups(results, func(r SearchResult) []WordGroup { return r.Groups })
	slices.SortStableFunc(out.Groups, func(a, b WordGroup) int { return cmp.Compare(b.Syllables, a.Syllables) })
	out.Extensions = mergeGroups(results, func(r SearchResult) []WordGroup { return r.Extensions })
	return out
}

func mergeGroups(results []SearchResult, pick func(SearchResult) []WordGroup) []WordGroup {
	var order []string
	merged := make(map[string]*WordGroup)
	sets := make(map[string]*wordSet)
	for _, r := range results {
		for _, g := range pick(r) {
			m, ok := merged[g.Label]
			if !ok {
				m = &WordGroup{Label: g.Label, Tail: g.Tail, Syllables: g.Syllables}
				merged[g.Label] = m
				sets[g.Label] = newWordSet()
				order = append(order, g.Label)
			}
			m.Favorite = m.Favorite || g.Favorite
			for _, w := range g.Words {
				sets[g.Label].add(w)
			}
		}
	}
	if len(order) == 0 {
		return nil
	}
	out := make([]WordGroup, 0, len(order))
	for _, label := range order {
		g := *merged[label]
		g.Words = RankWords(sets[label].list(), rhymeindex.MaxResults)
		out = append(out, g)
	}
	return out
}

// RankWords sorts words by descending frequency, then spelling, and keeps at most limit.
func RankWords(words []Word, limit int) []Word {
	slices.SortStableFunc(words, func(a, b Word) int {
		if c := cmp.Compare(b.Frequency, a.Frequency); c != 0 {
			return c
		}
		return cmp.Compare(a.Spelling, b.Spelling)
	})
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

// wordSet keeps insertion order and the highest frequency seen per word.
type wordSet struct {
	at    map[wordKey]int
	words []Word
}

func newWordSet() *wordSet {
	return &wordSet{at: make(map[wordKey]int)}
}

func (s *wordSet) add(w Word) {
	if i, ok := s.at[w.key()]; ok {
		if w.Frequency > s.words[i].Frequency {
			s.words[i].Frequency = w.Frequency
		}
		return
	}
	s.at[w.key()] = len(s.words)
	s.words = append(s.words, w)
}

func (s *wordSet) list() []Word {
	return s.words
}
