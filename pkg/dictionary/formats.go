package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the dictionary file formats rhymeserve reads
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatIndex              // Framed binary rhyme index (.rix)
	FormatSource             // Tab separated word source
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatIndex: {
		Format:      FormatIndex,
		Description: "Rhyme Index",
		Extensions:  []string{IndexExt},
		MinSize:     int64(len(indexMagic)) + 2, // magic, flags, entry count
	},
	FormatSource: {
		Format:      FormatSource,
		Description: "Word Source",
		Extensions:  []string{SourceExt, ".txt"},
		MinSize:     0,
	},
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(formatInfo.Extensions, ext) {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	switch expectedFormat {
	case FormatIndex:
		return validateIndexFormat(filename)
	case FormatSource:
		return validateSourceFormat(filename)
	}
	return nil
}

// validateIndexFormat checks the frame header of an index file
func validateIndexFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	flags, err := readHeader(bufio.NewReader(file))
	if err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}

	log.Debugf("Index file %s validated (compressed: %t)", filename, flags&flagZstd != 0)
	return nil
}

// validateSourceFormat checks that the first data line of a source has a spelling and a
// transcription column
func validateSourceFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if !strings.Contains(line, "\t") {
			return fmt.Errorf("source %s: first entry %q has no tab separated transcription", filename, line)
		}
		break
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read from source %s: %w", filename, err)
	}

	log.Debugf("Source file %s validated", filename)
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range []FileFormat{FormatIndex, FormatSource} {
		if !slices.Contains(supportedFormats[format].Extensions, ext) {
			continue
		}
		if err := ValidateFileFormat(filename, format); err != nil {
			return FormatUnknown, err
		}
		return format, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	slices.SortFunc(formats, func(a, b FormatInfo) int { return int(a.Format) - int(b.Format) })
	return formats
}
