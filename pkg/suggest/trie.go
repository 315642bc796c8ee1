package suggest

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// completion is the item stored under a folded spelling
type completion struct {
	spelling  string
	frequency int64
}

// searchTrie collects the completions below key, skipping key itself, best first.
func searchTrie(trie *patricia.Trie, key string, limit int) []Suggestion {
	if trie == nil {
		return nil
	}

	var suggestions []Suggestion
	err := trie.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
		if string(p) == key {
			return nil
		}
		c, ok := item.(completion)
		if !ok {
			log.Errorf("Unknown item type: %T for key %s", item, p)
			return nil
		}
		suggestions = append(suggestions, Suggestion{Word: c.spelling, Frequency: c.frequency})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	slices.SortFunc(suggestions, func(a, b Suggestion) int {
		if c := cmp.Compare(b.Frequency, a.Frequency); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
