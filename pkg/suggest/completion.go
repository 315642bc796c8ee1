package suggest

import (
	"github.com/bastiangx/rhymeserve/internal/utils"
	"github.com/bastiangx/rhymeserve/pkg/dictionary"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/cases"
)

// Suggestion is one spelling completion
type Suggestion struct {
	Word      string
	Frequency int64
}

// Completer completes spellings from a prefix. Keys are case folded, so "strasse" completes to
// "Straßenbahn". Homographs and spellings shared by several dictionaries keep their best
// frequency.
type Completer struct {
	trie  *patricia.Trie
	words int
}

func NewCompleter() *Completer {
	return &Completer{trie: patricia.NewTrie()}
}

// foldKey is not shared between goroutines; a Caser keeps state
func foldKey(s string) string {
	return cases.Fold().String(s)
}

// AddWord adds a spelling, keeping the higher frequency when it is already known
func (c *Completer) AddWord(spelling string, frequency int64) {
	key := patricia.Prefix(foldKey(spelling))
	if item := c.trie.Get(key); item != nil {
		if prev := item.(completion); prev.frequency >= frequency {
			return
		}
		c.trie.Set(key, completion{spelling: spelling, frequency: frequency})
		return
	}
	c.trie.Insert(key, completion{spelling: spelling, frequency: frequency})
	c.words++
}

// AddSources adds every entry of the given dictionaries
func (c *Completer) AddSources(sources []dictionary.Source) {
	for _, src := range sources {
		for r := range src.Index.All() {
			c.AddWord(r.Spelling(), r.Payload().Score())
		}
	}
}

// Complete returns up to limit spellings extending prefix, most frequent first. Upper case
// letters typed in the prefix are carried over to the suggestions.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	key := foldKey(prefix)
	if key == "" {
		return nil
	}
	suggestions := searchTrie(c.trie, key, limit)
	if pattern := utils.CapitalPattern(prefix); pattern != nil {
		for i := range suggestions {
			suggestions[i].Word = utils.ApplyCapitals(suggestions[i].Word, pattern)
		}
	}
	return suggestions
}

// Len returns the number of distinct folded spellings
func (c *Completer) Len() int {
	return c.words
}
