package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/rhymeserve/pkg/config"
	"github.com/bastiangx/rhymeserve/pkg/dictionary"
	"github.com/bastiangx/rhymeserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const source = "Haus\thaʊs\t5\nMaus\tmaʊs\t3\naus\taʊs\t8\nBlume\tˈbluːmə\t15\nWunderblume\tˈvʊndɐˌbluːmə\t1\nKrume\tˈkʁuːmə\t6\nZeitung\tˈt͡saɪ̯tʊŋ\t30\nWohnung\tˈvoːnʊŋ\t25\nBank\tbaŋk\t40\nBank\tbɑːŋk\t2\n"

type msg map[string]any

// run feeds the requests to a fresh server and returns the raw responses after the ready message
func run(t *testing.T, requests ...msg) []msgpack.RawMessage {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.tsv"), []byte(source), 0o644))

	loader := dictionary.NewLoader(dir, dictionary.LoaderOptions{NoCache: true})
	reg := dictionary.NewRegistry()
	_, err := loader.LoadAll(context.Background(), reg)
	require.NoError(t, err)

	rhymer, err := suggest.NewRhymer(reg, suggest.DefaultOptions())
	require.NoError(t, err)

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}

	srv := NewServerWithIO(rhymer, loader, config.DefaultConfig(), &in, &out)
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	var ready HealthResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)

	var responses []msgpack.RawMessage
	for out.Len() > 0 {
		raw, err := dec.DecodeRaw()
		require.NoError(t, err)
		responses = append(responses, raw)
	}
	require.Len(t, responses, len(requests))
	return responses
}

func decodeAs[T any](t *testing.T, raw msgpack.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, msgpack.Unmarshal(raw, &v))
	return v
}

func TestRhyme(t *testing.T) {
	res := run(t, msg{"id": "r1", "op": "rhyme", "w": "Haus", "s": 1})
	resp := decodeAs[RhymeResponse](t, res[0])

	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, "Haus", resp.Query)
	require.Len(t, resp.Groups, 1)
	g := resp.Groups[0]
	assert.Equal(t, "/aʊs/", g.Label)
	assert.True(t, g.Favorite)
	require.Len(t, g.Words, 2)
	assert.Equal(t, RhymeWord{Word: "aus", Phonetic: "aʊs", Rank: 1, Frequency: 8}, g.Words[0])
	assert.Equal(t, "Maus", g.Words[1].Word)
	assert.Equal(t, uint16(2), g.Words[1].Rank)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Words, 1)
	assert.Equal(t, "Haus", resp.Words[0].Word)
}

func TestRhymeExtensions(t *testing.T) {
	res := run(t, msg{"id": "r2", "op": "rhyme", "w": "Blume", "s": 2, "l": 5})
	resp := decodeAs[RhymeResponse](t, res[0])
	require.Len(t, resp.Extensions, 1)
	assert.Equal(t, "-Blume", resp.Extensions[0].Label)
	assert.Equal(t, "Wunderblume", resp.Extensions[0].Words[0].Word)
	assert.Equal(t, "/umə/", resp.Groups[0].Label)
}

func TestRhymeValidation(t *testing.T) {
	res := run(t,
		msg{"id": "a", "op": "rhyme"},
		msg{"id": "b", "op": "rhyme", "w": "1234"},
		msg{"id": "c", "op": "rhyme", "w": "Haus", "s": 99},
		msg{"id": "d", "op": "rhyme", "w": "Haus", "s": "two"},
	)
	for i, id := range []string{"a", "b", "c", "d"} {
		e := decodeAs[ErrorResponse](t, res[i])
		assert.Equal(t, id, e.ID)
		assert.Equal(t, codeBadRequest, e.Code, e.Error)
	}
}

func TestSuffix(t *testing.T) {
	res := run(t, msg{"id": "s1", "op": "suffix", "x": "ung", "l": 1})
	resp := decodeAs[SuffixResponse](t, res[0])
	assert.Equal(t, "-ung", resp.Group.Label)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Zeitung", resp.Group.Words[0].Word)
}

func TestLookup(t *testing.T) {
	res := run(t,
		msg{"id": "l1", "op": "lookup", "w": "bank"},
		msg{"id": "l2", "op": "lookup", "w": "Quatsch"},
	)
	resp := decodeAs[LookupResponse](t, res[0])
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "baŋk", resp.Words[0].Phonetic)
	assert.Equal(t, uint16(1), resp.Words[0].Rank)

	e := decodeAs[ErrorResponse](t, res[1])
	assert.Equal(t, codeNotFound, e.Code)
}

func TestComplete(t *testing.T) {
	res := run(t,
		msg{"id": "c1", "op": "complete", "p": "w", "l": 5},
		msg{"id": "c2", "op": "complete", "p": ""},
	)
	resp := decodeAs[CompletionResponse](t, res[0])
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, CompletionSuggestion{Word: "Wohnung", Rank: 1}, resp.Suggestions[0])
	assert.Equal(t, "Wunderblume", resp.Suggestions[1].Word)

	e := decodeAs[ErrorResponse](t, res[1])
	assert.Equal(t, codeBadRequest, e.Code)
}

func TestDictionary(t *testing.T) {
	res := run(t,
		msg{"id": "d1", "op": "dict", "action": "list"},
		msg{"id": "d2", "op": "dict", "action": "disable", "name": "de"},
		msg{"id": "d3", "op": "rhyme", "w": "Haus"},
		msg{"id": "d4", "op": "dict", "action": "enable", "name": "fr"},
		msg{"id": "d5", "op": "dict", "action": "reload", "name": "de"},
		msg{"id": "d6", "op": "dict", "action": "shuffle"},
	)
	list := decodeAs[DictionaryResponse](t, res[0])
	require.Len(t, list.Sources, 1)
	assert.Equal(t, DictionaryInfo{Name: "de", Path: list.Sources[0].Path, Entries: 10, Enabled: true}, list.Sources[0])

	disabled := decodeAs[DictionaryResponse](t, res[1])
	assert.False(t, disabled.Sources[0].Enabled)

	rhymes := decodeAs[RhymeResponse](t, res[2])
	assert.Empty(t, rhymes.Groups)

	assert.Equal(t, codeNotFound, decodeAs[ErrorResponse](t, res[3]).Code)

	// reload replaces the source, which starts enabled again
	reloaded := decodeAs[DictionaryResponse](t, res[4])
	assert.True(t, reloaded.Sources[0].Enabled)

	assert.Equal(t, codeBadRequest, decodeAs[ErrorResponse](t, res[5]).Code)
}

func TestHealthAndUnknownOp(t *testing.T) {
	res := run(t,
		msg{"id": "h", "op": "health"},
		msg{"id": "u", "op": "teleport"},
	)
	health := decodeAs[HealthResponse](t, res[0])
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 10, health.Stats["totalWords"])

	e := decodeAs[ErrorResponse](t, res[1])
	assert.Equal(t, "u", e.ID)
	assert.Equal(t, codeBadRequest, e.Code)
}

func TestNonMapRequest(t *testing.T) {
	var in, out bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&in).Encode("not a request"))

	reg := dictionary.NewRegistry()
	rhymer, err := suggest.NewRhymer(reg, suggest.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, NewServerWithIO(rhymer, nil, nil, &in, &out).Start())

	dec := msgpack.NewDecoder(&out)
	var ready HealthResponse
	require.NoError(t, dec.Decode(&ready))
	var e ErrorResponse
	require.NoError(t, dec.Decode(&e))
	assert.Equal(t, codeBadRequest, e.Code)
}
