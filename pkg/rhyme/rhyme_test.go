package rhyme

import (
	"testing"

	"github.com/bastiangx/rhymeserve/pkg/rhymeindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type triple struct {
	spelling string
	phonetic string
	freq     rhymeindex.Frequency
}

func build(t testing.TB, triples ...triple) *rhymeindex.FrozenIndex[rhymeindex.Frequency] {
	t.Helper()
	b := rhymeindex.NewBuilder[rhymeindex.Frequency]()
	for _, tr := range triples {
		b.TryAdd(tr.spelling, tr.phonetic, tr.freq)
	}
	return b.Build()
}

func spellings(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Spelling
	}
	return out
}

var german = []triple{
	{"Blume", "ˈbluːmə", 15},
	{"Wunderblume", "ˈvʊndɐˌbluːmə", 1},
	{"Krume", "ˈkʁuːmə", 6},
	{"Muhme", "ˈmuːmə", 2},
	{"Junge", "ˈjʊŋə", 12},
	{"Lunge", "ˈlʊŋə", 4},
	{"Rose", "ˈʁoːzə", 9},
	{"Haus", "haʊs", 5},
}

func TestFindSingleSyllable(t *testing.T) {
	idx := build(t,
		triple{"Haus", "haʊs", 5},
		triple{"Maus", "maʊs", 3},
		triple{"aus", "aʊs", 8},
	)
	res := Find(idx, "Haus", 1, 0)

	require.Len(t, res.Groups, 1)
	g := res.Groups[0]
	assert.Equal(t, "/aʊs/", g.Label)
	assert.Equal(t, []string{"aus", "Maus"}, spellings(g.Words))
	assert.Equal(t, []int64{8, 3}, []int64{g.Words[0].Frequency, g.Words[1].Frequency})
	assert.True(t, g.Favorite)
	assert.Empty(t, res.Extensions)
	assert.Equal(t, []string{"Haus"}, spellings(res.Words))

	for _, grp := range res.Groups {
		assert.NotContains(t, spellings(grp.Words), "Haus")
	}
}

func TestFindCompoundGoesToExtensions(t *testing.T) {
	idx := build(t, german...)
	res := Find(idx, "Blume", 2, 0)

	require.Len(t, res.Extensions, 1)
	assert.Equal(t, "-Blume", res.Extensions[0].Label)
	assert.Equal(t, []string{"Wunderblume"}, spellings(res.Extensions[0].Words))
	for _, g := range res.Groups {
		assert.NotContains(t, spellings(g.Words), "Wunderblume")
	}

	require.Len(t, res.Groups, 2)
	assert.Equal(t, "/umə/", res.Groups[0].Label)
	assert.Equal(t, 2, res.Groups[0].Syllables)
	assert.True(t, res.Groups[0].Favorite)
	assert.Equal(t, []string{"Krume", "Muhme"}, spellings(res.Groups[0].Words))

	assert.Equal(t, "/ə/", res.Groups[1].Label)
	assert.False(t, res.Groups[1].Favorite)
	assert.Equal(t, []string{"Junge", "Rose", "Lunge"}, spellings(res.Groups[1].Words))

	fav, ok := res.Favorite()
	require.True(t, ok)
	assert.Equal(t, "/umə/", fav.Label)
}

func TestFindGroupsAreExclusive(t *testing.T) {
	idx := build(t, german...)
	for _, word := range []string{"Blume", "Junge", "Rose", "Krume"} {
		res := Find(idx, word, 3, 0)
		seen := map[string]string{}
		for _, g := range res.Groups {
			for _, w := range g.Words {
				prev, dup := seen[w.Spelling]
				assert.False(t, dup, "%s: %s in %s and %s", word, w.Spelling, prev, g.Label)
				seen[w.Spelling] = g.Label
			}
		}
	}
}

func TestFindUnknownWord(t *testing.T) {
	idx := build(t, german...)
	res := Find(idx, "Quatsch", 2, 0)
	assert.True(t, res.Empty())
	assert.Empty(t, res.Words)
}

func TestFindLimit(t *testing.T) {
	idx := build(t, german...)
	res := Find(idx, "Junge", 1, 2)
	require.Len(t, res.Groups, 1)
	assert.Len(t, res.Groups[0].Words, 2)
	assert.Equal(t, []string{"Blume", "Rose"}, spellings(res.Groups[0].Words))
}

func TestFindHomographsShareResult(t *testing.T) {
	idx := build(t,
		triple{"Bank", "baŋk", 10},
		triple{"Bank", "bæŋk", 2},
		triple{"Schrank", "ʃʁaŋk", 7},
		triple{"Tank", "tæŋk", 3},
	)
	res := Find(idx, "bank", 1, 0)
	assert.Len(t, res.Words, 2)

	var labels []string
	for _, g := range res.Groups {
		labels = append(labels, g.Label)
		assert.True(t, g.Favorite)
	}
	assert.ElementsMatch(t, []string{"/aŋk/", "/æŋk/"}, labels)
}

func TestFindPhoneticAcrossIndexes(t *testing.T) {
	idx := build(t,
		triple{"Maus", "maʊs", 3},
		triple{"raus", "ʁaʊs", 4},
	)
	res := FindPhonetic(idx, "Haus", "haʊs", 2, 0)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, []string{"raus", "Maus"}, spellings(res.Groups[0].Words))
}

func TestSuffix(t *testing.T) {
	idx := build(t, german...)
	g := Suffix(idx, "ume", 0)
	assert.Equal(t, "-ume", g.Label)
	assert.Equal(t, []string{"Blume", "Krume", "Wunderblume"}, spellings(g.Words))

	g = Suffix(idx, "ume", 1)
	assert.Equal(t, []string{"Blume"}, spellings(g.Words))
}
