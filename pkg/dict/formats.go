package dict

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/ternserve/pkg/tst"
	"github.com/charmbracelet/log"
)

// FileFormat identifies a dictionary input format.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatChunk              // chunked binary format
	FormatText               // plain text "word frequency" lines
)

// FormatInfo carries metadata about a supported format.
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extension   string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Dictionary",
		Extension:   ".bin",
		MinSize:     4, // word count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extension:   ".txt",
		MinSize:     1,
	},
}

// ValidateFileFormat checks that a file plausibly holds the expected format.
func ValidateFileFormat(filename string, expected FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	info, ok := supportedFormats[expected]
	if !ok {
		return fmt.Errorf("unknown format: %v", expected)
	}

	if fileInfo.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), info.Description, info.MinSize)
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != info.Extension {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %s)",
			filename, ext, info.Description, info.Extension)
	}

	switch expected {
	case FormatChunk:
		return validateChunkFormat(filename)
	case FormatText:
		return validateTextFormat(filename)
	}
	return nil
}

func validateChunkFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("invalid word count in %s: %d (negative)", filename, wordCount)
	}
	if wordCount > 1000000 {
		return fmt.Errorf("suspicious word count in %s: %d (too large)", filename, wordCount)
	}

	log.Debugf("Binary file %s validated: %d words", filename, wordCount)
	return nil
}

func validateTextFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	buffer := make([]byte, 1024)
	if _, err := file.Read(buffer); err != nil {
		return fmt.Errorf("failed to read from text file %s: %w", filename, err)
	}
	return nil
}

// DetectFileFormat guesses the format of a file from naming and content.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	basename := strings.ToLower(filepath.Base(filename))

	if strings.HasPrefix(basename, "dict_") && ext == ".bin" {
		if err := ValidateFileFormat(filename, FormatChunk); err == nil {
			return FormatChunk, nil
		}
	}
	if ext == ".txt" {
		if err := ValidateFileFormat(filename, FormatText); err == nil {
			return FormatText, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// LoadWordList reads a plain text word list into dict. Each line is a
// word optionally followed by a frequency; missing frequencies default
// to 1. Entries are sorted and bulk inserted through the balanced
// schedule, so the resulting tree needs no separate Balance call.
func LoadWordList(filename string, dict *Dictionary) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open word list %s: %w", filename, err)
	}
	defer file.Close()

	var pairs []tst.Pair
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		word := fields[0]
		freq := 1
		if len(fields) > 1 {
			if parsed, err := strconv.Atoi(fields[1]); err == nil {
				freq = parsed
			} else {
				log.Warnf("Bad frequency for word %q in %s: %v", word, filename, err)
			}
		}
		pairs = append(pairs, tst.Pair{Key: tst.StringKey(word), Value: freq})
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read word list %s: %w", filename, err)
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Key.String() < pairs[j].Key.String()
	})
	// Last entry wins for duplicated words.
	deduped := pairs[:0]
	for _, p := range pairs {
		if len(deduped) > 0 && deduped[len(deduped)-1].Key.String() == p.Key.String() {
			deduped[len(deduped)-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	if err := dict.Load(deduped); err != nil {
		return 0, fmt.Errorf("failed to bulk insert word list %s: %w", filename, err)
	}
	log.Debugf("Word list %s loaded: %d words", filename, len(deduped))
	return len(deduped), nil
}
