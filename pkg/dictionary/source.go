package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bastiangx/rhymeserve/pkg/rhymeindex"
)

const (
	commentPrefix = "#"
	maxLineSize   = 1 << 20
)

// SourceStats counts what happened to the lines of a word source.
type SourceStats struct {
	Lines    int // non-blank, non-comment lines
	Added    int
	Rejected int // malformed lines, blank columns, adjacent duplicates
}

func (s *SourceStats) merge(o SourceStats) {
	s.Lines += o.Lines
	s.Added += o.Added
	s.Rejected += o.Rejected
}

// ReadSource feeds a word source into b. Each line holds spelling, transcription and an optional
// frequency separated by tabs; blank lines and lines starting with '#' are skipped. A missing
// frequency counts as 0.
func ReadSource(r io.Reader, b *rhymeindex.Builder[rhymeindex.Frequency]) (SourceStats, error) {
	var stats SourceStats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, commentPrefix) {
			continue
		}
		stats.Lines++

		spelling, phon, freq, ok := parseLine(line)
		if !ok || !b.TryAdd(spelling, phon, freq) {
			stats.Rejected++
			continue
		}
		stats.Added++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read source: %w", err)
	}
	return stats, nil
}

func parseLine(line string) (string, string, rhymeindex.Frequency, bool) {
	fields := strings.SplitN(strings.TrimRight(line, "\r\n"), "\t", 4)
	if len(fields) < 2 || len(fields) > 3 {
		return "", "", 0, false
	}
	var freq rhymeindex.Frequency
	if len(fields) == 3 {
		raw := strings.TrimSpace(fields[2])
		if raw != "" {
			n, err := strconv.ParseInt(raw, 10, 32)
			if err != nil {
				return "", "", 0, false
			}
			freq = rhymeindex.Frequency(n)
		}
	}
	return fields[0], fields[1], freq, true
}

// BuildFiles reads every source file into one builder and returns the built index.
func BuildFiles(paths ...string) (*Index, SourceStats, error) {
	var total SourceStats
	b := rhymeindex.NewBuilder[rhymeindex.Frequency]()
	for _, path := range paths {
		stats, err := readSourceFile(path, b)
		total.merge(stats)
		if err != nil {
			return nil, total, err
		}
	}
	return b.Build(), total, nil
}

func readSourceFile(path string, b *rhymeindex.Builder[rhymeindex.Frequency]) (SourceStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return SourceStats{}, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer file.Close()

	stats, err := ReadSource(file, b)
	if err != nil {
		return stats, fmt.Errorf("source %s: %w", path, err)
	}
	return stats, nil
}
