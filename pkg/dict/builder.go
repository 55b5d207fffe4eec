package dict

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bastiangx/ternserve/internal/utils"
	"github.com/charmbracelet/log"
)

// RankedWord is one builder input entry before ranking.
type RankedWord struct {
	Word      string
	Frequency int
}

// BuildChunks writes words into chunked binary files (dict_0001.bin,
// dict_0002.bin, ...) under dirPath, chunkSize entries per chunk. Words
// are ranked by descending frequency first, so chunk IDs double as
// quality tiers: earlier chunks hold better words. Returns the number
// of chunks written.
func BuildChunks(words []RankedWord, dirPath string, chunkSize int) (int, error) {
	if len(words) == 0 {
		return 0, fmt.Errorf("no words to build chunks from")
	}
	if chunkSize < 1 {
		return 0, fmt.Errorf("chunk size must be at least 1, got %d", chunkSize)
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return 0, fmt.Errorf("failed to create chunk directory %s: %w", dirPath, err)
	}

	sorted := make([]RankedWord, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Frequency > sorted[j].Frequency
	})

	ranks := utils.CreateRankList(len(sorted))

	chunkCount := 0
	for start := 0; start < len(sorted); start += chunkSize {
		end := start + chunkSize
		if end > len(sorted) {
			end = len(sorted)
		}
		chunkCount++
		filename := filepath.Join(dirPath, fmt.Sprintf("dict_%04d.bin", chunkCount))
		if err := writeChunk(filename, sorted[start:end], ranks[start:end]); err != nil {
			return chunkCount - 1, err
		}
		log.Debugf("Wrote chunk %s: %d words", filename, end-start)
	}
	return chunkCount, nil
}

// writeChunk writes one chunk file: an int32 entry count header, then
// per entry a uint16 length prefixed word and its uint16 global rank.
func writeChunk(filename string, words []RankedWord, ranks []uint16) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", filename, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	if err := binary.Write(writer, binary.LittleEndian, int32(len(words))); err != nil {
		return fmt.Errorf("failed to write chunk header: %w", err)
	}

	for i, entry := range words {
		wordLen := uint16(len(entry.Word))
		if err := binary.Write(writer, binary.LittleEndian, wordLen); err != nil {
			return fmt.Errorf("failed to write word length: %w", err)
		}
		if _, err := writer.WriteString(entry.Word); err != nil {
			return fmt.Errorf("failed to write word %s: %w", entry.Word, err)
		}
		if err := binary.Write(writer, binary.LittleEndian, ranks[i]); err != nil {
			return fmt.Errorf("failed to write rank for word %s: %w", entry.Word, err)
		}
	}
	return writer.Flush()
}

// BuildChunksFromDictionary snapshots dict into chunk files. Stored
// values that are not int frequencies are skipped.
func BuildChunksFromDictionary(d *Dictionary, dirPath string, chunkSize int) (int, error) {
	pairs := d.Pairs()
	words := make([]RankedWord, 0, len(pairs))
	for _, p := range pairs {
		freq, ok := p.Value.(int)
		if !ok {
			continue
		}
		words = append(words, RankedWord{Word: p.Key.String(), Frequency: freq})
	}
	return BuildChunks(words, dirPath, chunkSize)
}
