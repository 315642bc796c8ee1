package suggest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bastiangx/rhymeserve/pkg/dictionary"
	"github.com/bastiangx/rhymeserve/pkg/rhyme"
	"github.com/bastiangx/rhymeserve/pkg/rhymeindex"
	"golang.org/x/text/unicode/norm"
)

// Options bounds the queries a Rhymer accepts.
type Options struct {
	DefaultSyllables int
	MaxSyllables     int
	MaxLimit         int
	CacheSize        int
}

// DefaultOptions mirrors the default server configuration.
func DefaultOptions() Options {
	return Options{
		DefaultSyllables: 2,
		MaxSyllables:     4,
		MaxLimit:         rhymeindex.MaxResults,
		CacheSize:        1024,
	}
}

// Rhymer answers queries over the active dictionaries of a registry. A word found in one
// dictionary also finds its rhymes in the dictionaries that lack it, through its transcription.
type Rhymer struct {
	reg   *dictionary.Registry
	opts  Options
	cache *ResultCache

	compMu      sync.Mutex
	completer   *Completer
	compVersion uint64
}

// NewRhymer creates a rhymer over reg. Zero option fields take their defaults.
func NewRhymer(reg *dictionary.Registry, opts Options) (*Rhymer, error) {
	def := DefaultOptions()
	if opts.DefaultSyllables <= 0 {
		opts.DefaultSyllables = def.DefaultSyllables
	}
	if opts.MaxSyllables <= 0 {
		opts.MaxSyllables = def.MaxSyllables
	}
	if opts.MaxLimit <= 0 || opts.MaxLimit > rhymeindex.MaxResults {
		opts.MaxLimit = rhymeindex.MaxResults
	}
	opts.DefaultSyllables = min(opts.DefaultSyllables, opts.MaxSyllables)

	cache, err := NewResultCache(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("rhyme cache: %w", err)
	}
	return &Rhymer{reg: reg, opts: opts, cache: cache}, nil
}

func (r *Rhymer) Registry() *dictionary.Registry { return r.reg }

func (r *Rhymer) clamp(syllables, limit int) (int, int) {
	if syllables <= 0 {
		syllables = r.opts.DefaultSyllables
	}
	syllables = min(syllables, r.opts.MaxSyllables)
	if limit <= 0 || limit > r.opts.MaxLimit {
		limit = r.opts.MaxLimit
	}
	return syllables, limit
}

func cleanWord(word string) string {
	return norm.NFC.String(strings.TrimSpace(word))
}

// Rhyme finds the rhymes of word in every active dictionary and merges them. syllables <= 0
// uses the configured default; limit <= 0 the configured maximum.
func (r *Rhymer) Rhyme(word string, syllables, limit int) rhyme.SearchResult {
	word = cleanWord(word)
	if word == "" {
		return rhyme.SearchResult{}
	}
	syllables, limit = r.clamp(syllables, limit)

	key := fmt.Sprintf("%d\x00%s\x00%d\x00%d", r.reg.Version(), rhymeindex.Fold(word), syllables, limit)
	res := r.cache.Get(key, func() rhyme.SearchResult {
		return r.rhyme(word, syllables, limit)
	})
	res.Query = word
	return res
}

func (r *Rhymer) rhyme(word string, syllables, limit int) rhyme.SearchResult {
	var (
		results []rhyme.SearchResult
		known   []rhyme.Word
		missing []*dictionary.Index
	)
	for _, src := range r.reg.Active() {
		res := rhyme.Find(src.Index, word, syllables, limit)
		if len(res.Words) == 0 {
			missing = append(missing, src.Index)
			continue
		}
		known = append(known, res.Words...)
		results = append(results, res)
	}

	for _, idx := range missing {
		for _, w := range pronunciations(known) {
			results = append(results, rhyme.FindPhonetic(idx, w.Spelling, w.Phonetic, syllables, limit))
		}
	}

	merged := rhyme.Merge(results...)
	merged.Query = word
	for i := range merged.Groups {
		merged.Groups[i].Words = rhyme.RankWords(merged.Groups[i].Words, limit)
	}
	for i := range merged.Extensions {
		merged.Extensions[i].Words = rhyme.RankWords(merged.Extensions[i].Words, limit)
	}
	return merged
}

// pronunciations keeps the first word for every distinct transcription
func pronunciations(words []rhyme.Word) []rhyme.Word {
	seen := make(map[string]bool, len(words))
	var out []rhyme.Word
	for _, w := range words {
		if seen[w.Phonetic] {
			continue
		}
		seen[w.Phonetic] = true
		out = append(out, w)
	}
	return out
}

// Suffix returns the words ending in suffix across the active dictionaries, most frequent first.
func (r *Rhymer) Suffix(suffix string, limit int) rhyme.WordGroup {
	suffix = cleanWord(suffix)
	_, limit = r.clamp(0, limit)

	var parts []rhyme.SearchResult
	for _, src := range r.reg.Active() {
		parts = append(parts, rhyme.SearchResult{Groups: []rhyme.WordGroup{rhyme.Suffix(src.Index, suffix, 0)}})
	}
	merged := rhyme.Merge(parts...)
	if len(merged.Groups) == 0 {
		return rhyme.WordGroup{Label: rhyme.ExtensionLabel(suffix)}
	}
	g := merged.Groups[0]
	g.Words = rhyme.RankWords(g.Words, limit)
	return g
}

// Lookup returns every pronunciation of word known to the active dictionaries.
func (r *Rhymer) Lookup(word string) []rhyme.Word {
	word = cleanWord(word)
	if word == "" {
		return nil
	}
	var parts []rhyme.SearchResult
	for _, src := range r.reg.Active() {
		parts = append(parts, rhyme.SearchResult{Words: rhyme.ToWords(src.Index.FindAllSpelled(word))})
	}
	return rhyme.RankWords(rhyme.Merge(parts...).Words, 0)
}

// Complete returns spellings from the active dictionaries that start with prefix.
func (r *Rhymer) Complete(prefix string, limit int) []Suggestion {
	_, limit = r.clamp(0, limit)
	return r.completions().Complete(cleanWord(prefix), limit)
}

// completions rebuilds the completion trie when the active dictionaries changed
func (r *Rhymer) completions() *Completer {
	r.compMu.Lock()
	defer r.compMu.Unlock()
	version := r.reg.Version()
	if r.completer == nil || r.compVersion != version {
		c := NewCompleter()
		c.AddSources(r.reg.Active())
		r.completer = c
		r.compVersion = version
	}
	return r.completer
}

// Invalidate drops cached results. Results are keyed on the registry version, so this is only
// needed to free memory.
func (r *Rhymer) Invalidate() {
	r.cache.Purge()
}

func (r *Rhymer) Stats() map[string]int {
	stats := map[string]int{
		"sources":       r.reg.Len(),
		"activeSources": 0,
		"totalWords":    0,
	}
	for _, src := range r.reg.Active() {
		stats["activeSources"]++
		stats["totalWords"] += src.Index.Len()
	}
	for k, v := range r.cache.Stats() {
		stats[k] = v
	}
	return stats
}
