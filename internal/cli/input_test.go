package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/rhymeserve/pkg/dictionary"
	"github.com/bastiangx/rhymeserve/pkg/rhymeindex"
	"github.com/bastiangx/rhymeserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, input string) (*InputHandler, *bytes.Buffer) {
	t.Helper()
	b := rhymeindex.NewBuilder[rhymeindex.Frequency]()
	b.TryAdd("Haus", "haʊs", 5)
	b.TryAdd("Maus", "maʊs", 3)
	b.TryAdd("aus", "aʊs", 1200)
	b.TryAdd("Blume", "ˈbluːmə", 15)
	b.TryAdd("Krume", "ˈkʁuːmə", 6)

	reg := dictionary.NewRegistry()
	reg.Add("de", "de.rix", b.Build())
	rhymer, err := suggest.NewRhymer(reg, suggest.DefaultOptions())
	require.NoError(t, err)

	var out bytes.Buffer
	return NewInputHandler(rhymer, strings.NewReader(input), &out, 2, 4, 20, false), &out
}

func TestStartRhymes(t *testing.T) {
	h, out := newHandler(t, "Haus\n\n:suffix ume\n")
	require.NoError(t, h.Start())

	got := out.String()
	assert.Contains(t, got, "/aʊs/")
	assert.Contains(t, got, "Maus")
	assert.Contains(t, got, "1,200")
	assert.Contains(t, got, "-ume")
	assert.Contains(t, got, "Krume")
	assert.Equal(t, 2, h.requestCount)
}

func TestQuitStopsReading(t *testing.T) {
	h, out := newHandler(t, ":q\nHaus\n")
	require.NoError(t, h.Start())
	assert.NotContains(t, out.String(), "Maus")
}

func TestSettings(t *testing.T) {
	h, _ := newHandler(t, "")
	assert.True(t, h.handleInput(":syl 3"))
	assert.Equal(t, 3, h.syllables)
	h.handleInput(":syl 9")
	assert.Equal(t, 3, h.syllables)
	h.handleInput(":limit 5")
	assert.Equal(t, 5, h.limit)
	h.handleInput(":limit nope")
	assert.Equal(t, 5, h.limit)
}

func TestDictionaryToggle(t *testing.T) {
	h, out := newHandler(t, "")
	h.handleInput(":dict off de")
	assert.Contains(t, out.String(), "off")
	assert.Empty(t, h.rhymer.Registry().Active())

	out.Reset()
	h.handleInput("Haus")
	assert.NotContains(t, out.String(), "Maus")
}

func TestFilteredInput(t *testing.T) {
	h, out := newHandler(t, "")
	h.handleInput("12345")
	assert.Empty(t, out.String())

	h.noFilter = true
	assert.True(t, h.accept("12345"))
	assert.False(t, h.accept(""))
}

func TestFormatWithCommas(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, want := range tests {
		assert.Equal(t, want, formatWithCommas(n))
	}
}
