package rhyme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeUnionsGroups(t *testing.T) {
	a := build(t,
		triple{"Haus", "haʊs", 5},
		triple{"Maus", "maʊs", 3},
	)
	b := build(t,
		triple{"Maus", "maʊs", 11},
		triple{"raus", "ʁaʊs", 4},
		triple{"Laus", "laʊs", 1},
	)

	ra := Find(a, "Haus", 2, 0)
	rb := FindPhonetic(b, "Haus", "haʊs", 2, 0)
	merged := Merge(ra, rb)

	assert.Equal(t, "Haus", merged.Query)
	require.Len(t, merged.Groups, 1)
	g := merged.Groups[0]
	assert.Equal(t, "/aʊs/", g.Label)
	assert.True(t, g.Favorite)
	assert.Equal(t, []string{"Maus", "raus", "Laus"}, spellings(g.Words))
	assert.Equal(t, int64(11), g.Words[0].Frequency)

	// the index entry and the bare query word collapse into one
	require.Len(t, merged.Words, 1)
	assert.Equal(t, int64(5), merged.Words[0].Frequency)
}

func TestMergeFavoriteIsOred(t *testing.T) {
	r1 := SearchResult{Query: "x", Groups: []WordGroup{{Label: "/a/", Words: []Word{{Spelling: "ba", Phonetic: "ba", Frequency: 1}}}}}
	r2 := SearchResult{Query: "x", Groups: []WordGroup{{Label: "/a/", Favorite: true}}}
	merged := Merge(r1, r2)
	require.Len(t, merged.Groups, 1)
	assert.True(t, merged.Groups[0].Favorite)
	assert.Len(t, merged.Groups[0].Words, 1)
}

func TestMergeKeepsExtensions(t *testing.T) {
	idx := build(t, german...)
	merged := Merge(Find(idx, "Blume", 2, 0), SearchResult{})
	require.Len(t, merged.Extensions, 1)
	assert.Equal(t, "-Blume", merged.Extensions[0].Label)
}

func TestMergeEmpty(t *testing.T) {
	merged := Merge()
	assert.True(t, merged.Empty())
	assert.Nil(t, merged.Groups)
}

func TestRankWords(t *testing.T) {
	words := []Word{
		{Spelling: "b", Frequency: 2},
		{Spelling: "a", Frequency: 2},
		{Spelling: "c", Frequency: 9},
	}
	assert.Equal(t, []string{"c", "a"}, spellings(RankWords(words, 2)))
}

func TestMergeKeepsLongestTailFirst(t *testing.T) {
	short := SearchResult{Query: "Blume", Groups: []WordGroup{{Label: "/ə/", Syllables: 1, Words: []Word{{Spelling: "Rose", Phonetic: "ˈroːzə", Frequency: 9}}}}}
	long := SearchResult{Query: "Blume", Groups: []WordGroup{{Label: "/umə/", Syllables: 2, Words: []Word{{Spelling: "Krume", Phonetic: "ˈkʁuːmə", Frequency: 6}}}}}
	merged := Merge(short, long)
	require.Len(t, merged.Groups, 2)
	assert.Equal(t, "/umə/", merged.Groups[0].Label)
	assert.Equal(t, "/ə/", merged.Groups[1].Label)
}
