package rhymeindex

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, idx *FrozenIndex[Frequency]) *FrozenIndex[Frequency] {
	t.Helper()
	var buf bytes.Buffer
	n, err := idx.Encode(&buf, FrequencyCodec{})
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	decoded, err := Decode[Frequency](bytes.NewReader(buf.Bytes()), FrequencyCodec{})
	require.NoError(t, err)
	require.NoError(t, decoded.Validate())
	return decoded
}

func TestRoundTripAnswersIdentically(t *testing.T) {
	idx := build(t, sample)
	decoded := roundTrip(t, idx)
	require.Equal(t, idx.Len(), decoded.Len())

	for r := range idx.All() {
		d := decoded.At(r.Position())
		assert.Equal(t, r.Entry(), d.Entry())

		exact, ok := decoded.FindExact(r.Spelling())
		require.True(t, ok)
		orig, _ := idx.FindExact(r.Spelling())
		assert.Equal(t, orig.Position(), exact.Position())

		assert.Equal(t, positions(idx.FindAllSpelled(r.Spelling())), positions(decoded.FindAllSpelled(r.Spelling())))

		suffix := r.Spelling()[len(r.Spelling())/2:]
		assert.Equal(t, positions(idx.FindBySuffix(suffix)), positions(decoded.FindBySuffix(suffix)))

		for syl := 1; syl <= 3; syl++ {
			assert.Equal(t,
				positions(idx.EnumeratePhoneticGroup(r, syl)),
				positions(decoded.EnumeratePhoneticGroup(d, syl)))
		}
	}
}

func positions(results []Result[Frequency]) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Position()
	}
	return out
}

func TestEncodeDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	_, err := build(t, sample).Encode(&a, FrequencyCodec{})
	require.NoError(t, err)
	_, err = build(t, sample).Encode(&b, FrequencyCodec{})
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestEncodeLayout(t *testing.T) {
	b := NewBuilder[Frequency]()
	b.TryAdd("ab", "ab", -1)
	var buf bytes.Buffer
	_, err := b.Build().Encode(&buf, FrequencyCodec{})
	require.NoError(t, err)
	// count, "ab", "ab", zigzag(-1), spelling map, phonetic map
	assert.Equal(t, []byte{1, 2, 'a', 'b', 2, 'a', 'b', 1, 0, 0}, buf.Bytes())
}

func TestRoundTripEmpty(t *testing.T) {
	decoded := roundTrip(t, NewBuilder[Frequency]().Build())
	assert.Equal(t, 0, decoded.Len())
	assert.Empty(t, decoded.FindBySuffix("a"))
}

func TestDecodeTruncated(t *testing.T) {
	var buf bytes.Buffer
	_, err := build(t, sample).Encode(&buf, FrequencyCodec{})
	require.NoError(t, err)
	data := buf.Bytes()

	for _, cut := range []int{1, len(data) / 2, len(data) - 1} {
		_, err := Decode[Frequency](bytes.NewReader(data[:cut]), FrequencyCodec{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "cut %d: %v", cut, err)
	}

	_, err = Decode[Frequency](bytes.NewReader(nil), FrequencyCodec{})
	assert.ErrorIs(t, err, io.EOF)
}

func TestValidateRejectsBrokenMaps(t *testing.T) {
	idx := build(t, sample)

	dup := *idx
	dup.spellingSuffix = append([]uint32(nil), idx.spellingSuffix...)
	dup.spellingSuffix[1] = dup.spellingSuffix[0]
	assert.ErrorIs(t, dup.Validate(), ErrCorruptIndex)

	short := *idx
	short.phoneticSuffix = idx.phoneticSuffix[:3]
	assert.ErrorIs(t, short.Validate(), ErrCorruptIndex)

	oob := *idx
	oob.phoneticSuffix = append([]uint32(nil), idx.phoneticSuffix...)
	oob.phoneticSuffix[0] = 9999
	assert.ErrorIs(t, oob.Validate(), ErrCorruptIndex)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncodeWriteError(t *testing.T) {
	_, err := build(t, sample).Encode(failingWriter{}, FrequencyCodec{})
	assert.EqualError(t, err, "disk full")
}

func TestOversizeStringsNeverReachTheCodec(t *testing.T) {
	b := NewBuilder[Frequency]()
	assert.False(t, b.TryAdd(strings.Repeat("a", 70000), "a", 1))
	assert.False(t, b.TryAdd("a", strings.Repeat("a", maxStringLen+1), 1))

	longest := strings.Repeat("a", maxStringLen)
	require.True(t, b.TryAdd(longest, "a", 1))
	decoded := roundTrip(t, b.Build())
	assert.Equal(t, longest, decoded.At(0).Spelling())
}
