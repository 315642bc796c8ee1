package rhymeindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Wire layout, all integers unsigned varints:
//
//	count
//	count × [len spelling][spelling][len phonetic][phonetic][payload]
//	count × spelling-suffix position
//	count × phonetic-suffix position
//
// There is no header, version or checksum; callers framing files add their own.

// ErrCorruptIndex wraps every structural problem found while decoding or validating.
var ErrCorruptIndex = errors.New("rhymeindex: corrupt index")

const (
	flushSize    = 32 << 10
	maxStringLen = 1 << 16
	preallocCap  = 1 << 20
)

// Reader is what Decode consumes. *bufio.Reader and *bytes.Reader satisfy it.
type Reader interface {
	io.Reader
	io.ByteReader
}

// PayloadCodec writes and reads one payload value.
type PayloadCodec[P Payload] interface {
	AppendPayload(dst []byte, p P) []byte
	ReadPayload(r Reader) (P, error)
}

// FrequencyCodec stores a Frequency as a zigzag varint.
type FrequencyCodec struct{}

func (FrequencyCodec) AppendPayload(dst []byte, f Frequency) []byte {
	return binary.AppendVarint(dst, int64(f))
}

func (FrequencyCodec) ReadPayload(r Reader) (Frequency, error) {
	v, err := binary.ReadVarint(r)
	if err != nil {
		return 0, err
	}
	return Frequency(v), nil
}

// Encode writes the index to w in the layout above and returns the byte count.
func (x *FrozenIndex[P]) Encode(w io.Writer, codec PayloadCodec[P]) (int64, error) {
	x.mustBeReady()
	enc := encoder{w: w, buf: make([]byte, 0, flushSize+1024)}

	enc.uvarint(uint64(len(x.entries)))
	for i := range x.entries {
		e := &x.entries[i]
		enc.str(e.spelling)
		enc.str(e.phonetic)
		enc.buf = codec.AppendPayload(enc.buf, e.payload)
		if err := enc.maybeFlush(); err != nil {
			return enc.n, fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	for _, maps := range [][]uint32{x.spellingSuffix, x.phoneticSuffix} {
		for _, pos := range maps {
			enc.uvarint(uint64(pos))
			if err := enc.maybeFlush(); err != nil {
				return enc.n, fmt.Errorf("writing permutation: %w", err)
			}
		}
	}
	if err := enc.flush(); err != nil {
		return enc.n, err
	}
	return enc.n, nil
}

type encoder struct {
	w   io.Writer
	buf []byte
	n   int64
}

func (e *encoder) uvarint(v uint64) { e.buf = binary.AppendUvarint(e.buf, v) }

func (e *encoder) str(s string) {
	e.uvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) maybeFlush() error {
	if len(e.buf) < flushSize {
		return nil
	}
	return e.flush()
}

func (e *encoder) flush() error {
	n, err := e.w.Write(e.buf)
	e.n += int64(n)
	e.buf = e.buf[:0]
	return err
}

// Decode reads an index written by Encode. The result is trusted as written; call Validate
// before querying data from an untrusted source.
func Decode[P Payload](r Reader, codec PayloadCodec[P]) (*FrozenIndex[P], error) {
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("reading entry count: %w", err)
	}
	if count > maxEntries {
		return nil, fmt.Errorf("%w: entry count %d", ErrCorruptIndex, count)
	}
	n := int(count)

	entries := make([]Entry[P], 0, min(n, preallocCap))
	for i := 0; i < n; i++ {
		spelling, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("reading spelling of entry %d: %w", i, err)
		}
		phon, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("reading phonetic of entry %d: %w", i, err)
		}
		payload, err := codec.ReadPayload(r)
		if err != nil {
			return nil, fmt.Errorf("reading payload of entry %d: %w", i, unexpected(err))
		}
		entries = append(entries, Entry[P]{spelling: spelling, phonetic: phon, payload: payload})
	}

	spellingSuffix, err := readPositions(r, n)
	if err != nil {
		return nil, fmt.Errorf("reading spelling suffix map: %w", err)
	}
	phoneticSuffix, err := readPositions(r, n)
	if err != nil {
		return nil, fmt.Errorf("reading phonetic suffix map: %w", err)
	}

	return &FrozenIndex[P]{
		entries:        entries,
		spellingSuffix: spellingSuffix,
		phoneticSuffix: phoneticSuffix,
		ready:          true,
	}, nil
}

func readString(r Reader) (string, error) {
	l, err := binary.ReadUvarint(r)
	if err != nil {
		return "", unexpected(err)
	}
	if l > maxStringLen {
		return "", fmt.Errorf("%w: string length %d", ErrCorruptIndex, l)
	}
	b := make([]byte, l)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", unexpected(err)
	}
	return string(b), nil
}

func readPositions(r Reader, n int) ([]uint32, error) {
	out := make([]uint32, 0, min(n, preallocCap))
	for i := 0; i < n; i++ {
		v, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, unexpected(err)
		}
		if v > maxEntries {
			return nil, fmt.Errorf("%w: position %d", ErrCorruptIndex, v)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// a clean EOF inside the stream is still a truncated index
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
