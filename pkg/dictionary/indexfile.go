package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bastiangx/rhymeserve/pkg/rhymeindex"
	"github.com/klauspost/compress/zstd"
)

// Index is the frequency-ranked index every dictionary file holds.
type Index = rhymeindex.FrozenIndex[rhymeindex.Frequency]

const (
	IndexExt  = ".rix"
	SourceExt = ".tsv"

	indexMagic = "RIX1"

	flagZstd byte = 1 << 0
	knownFlags    = flagZstd
)

// ErrBadMagic is returned for files that do not start with the index frame header.
var ErrBadMagic = errors.New("dictionary: not a rhyme index file")

// WriteIndex writes the index frame, the header followed by the encoded index, optionally
// compressed with zstd.
func WriteIndex(w io.Writer, idx *Index, compress bool) error {
	var flags byte
	if compress {
		flags |= flagZstd
	}
	if _, err := io.WriteString(w, indexMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{flags}); err != nil {
		return err
	}
	if !compress {
		_, err := idx.Encode(w, rhymeindex.FrequencyCodec{})
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := idx.Encode(enc, rhymeindex.FrequencyCodec{}); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadIndex reads an index frame written by WriteIndex. With validate set the decoded index is
// checked with Validate before it is returned.
func ReadIndex(r io.Reader, validate bool) (*Index, error) {
	br := bufio.NewReader(r)
	flags, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	var src rhymeindex.Reader = br
	if flags&flagZstd != 0 {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		src = bufio.NewReader(dec)
	}

	idx, err := rhymeindex.Decode(src, rhymeindex.FrequencyCodec{})
	if err != nil {
		return nil, err
	}
	if validate {
		if err := idx.Validate(); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func readHeader(r io.Reader) (byte, error) {
	var header [len(indexMagic) + 1]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrBadMagic
		}
		return 0, err
	}
	if string(header[:len(indexMagic)]) != indexMagic {
		return 0, ErrBadMagic
	}
	flags := header[len(indexMagic)]
	if flags&^knownFlags != 0 {
		return 0, fmt.Errorf("%w: unknown flags %#x", rhymeindex.ErrCorruptIndex, flags)
	}
	return flags, nil
}

// SaveIndex writes idx to path. The file is written next to its destination and renamed into
// place, so readers never observe a partial index.
func SaveIndex(path string, idx *Index, compress bool) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create index file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := WriteIndex(bw, idx, compress); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write index %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write index %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close index %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move index into place at %s: %w", path, err)
	}
	return nil
}

// LoadIndex reads the index file at path.
func LoadIndex(path string, validate bool) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", path, err)
	}
	defer file.Close()

	idx, err := ReadIndex(file, validate)
	if err != nil {
		return nil, fmt.Errorf("failed to load index %s: %w", path, err)
	}
	return idx, nil
}
