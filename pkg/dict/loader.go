package dict

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Loader lazily feeds chunked binary word files into a Dictionary.
// Chunks load on a background goroutine with retry; each loaded chunk is
// tracked so it can be evicted again at runtime.
type Loader struct {
	dirPath    string
	chunkSize  int
	maxWords   int
	dict       *Dictionary
	rebalance  bool
	loaded     map[int]bool
	chunkWords map[int]map[string]int
	totalWords int
	maxFreq    int
	mu         sync.RWMutex
	loadingCh  chan int
	done       chan struct{}
	errorCount map[int]int
	maxRetries int
}

// ChunkInfo describes one chunk file on disk.
type ChunkInfo struct {
	ID        int
	Filename  string
	WordCount int
}

// Stats summarizes the loading state.
type Stats struct {
	TotalWords      int
	LoadedChunks    int
	AvailableChunks int
	MaxFrequency    int
	IsLoading       bool
}

// NewLoader creates a lazy chunk loader feeding dict. When rebalance is
// set, the dictionary is rebuilt into balanced shape after every chunk;
// chunk files arrive in rank order, which is the worst case for the
// splitChar BSTs.
func NewLoader(dirPath string, chunkSize, maxWords int, dict *Dictionary, rebalance bool) *Loader {
	return &Loader{
		dirPath:    dirPath,
		chunkSize:  chunkSize,
		maxWords:   maxWords,
		dict:       dict,
		rebalance:  rebalance,
		loaded:     make(map[int]bool),
		chunkWords: make(map[int]map[string]int),
		loadingCh:  make(chan int, 10),
		done:       make(chan struct{}),
		errorCount: make(map[int]int),
		maxRetries: 3,
	}
}

// Dict returns the dictionary this loader feeds.
func (l *Loader) Dict() *Dictionary { return l.dict }

// GetAvailable scans the directory for chunk files (dict_0001.bin, ...)
// sorted by chunk ID.
func (l *Loader) GetAvailable() ([]ChunkInfo, error) {
	pattern := filepath.Join(l.dirPath, "dict_*.bin")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		basename := filepath.Base(file)
		if !strings.HasPrefix(basename, "dict_") || !strings.HasSuffix(basename, ".bin") {
			continue
		}
		idStr := strings.TrimSuffix(strings.TrimPrefix(basename, "dict_"), ".bin")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		wordCount, err := l.chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{ID: id, Filename: file, WordCount: wordCount})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

// chunkWordCount reads the word count from a chunk file's header.
func (l *Loader) chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// Start queues the initial chunk set and spawns the background loader.
func (l *Loader) Start() error {
	chunks, err := l.GetAvailable()
	if err != nil {
		return fmt.Errorf("failed to get available chunks: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunk files found in %s", l.dirPath)
	}

	log.Debugf("Found %d chunk files", len(chunks))
	go l.backgroundLoader()

	wordsToLoad := l.maxWords
	if wordsToLoad == 0 {
		for _, chunk := range chunks {
			wordsToLoad += chunk.WordCount
		}
	}

	queuedWords := 0
	for _, chunk := range chunks {
		if queuedWords >= wordsToLoad {
			break
		}
		select {
		case l.loadingCh <- chunk.ID:
			log.Debugf("Queued chunk %d for loading", chunk.ID)
		case <-time.After(100 * time.Millisecond):
			log.Warnf("Loading queue full, chunk %d will be loaded later", chunk.ID)
		}
		queuedWords += chunk.WordCount
	}
	return nil
}

// backgroundLoader drains the queue until Stop.
func (l *Loader) backgroundLoader() {
	for {
		select {
		case chunkID := <-l.loadingCh:
			if err := l.Load(chunkID); err != nil {
				log.Errorf("Failed to load chunk %d: %v", chunkID, err)

				l.mu.Lock()
				l.errorCount[chunkID]++
				errorCount := l.errorCount[chunkID]
				l.mu.Unlock()

				if errorCount < l.maxRetries {
					log.Debugf("Retrying chunk %d (attempt %d/%d)", chunkID, errorCount+1, l.maxRetries)
					go func(id int) {
						time.Sleep(time.Duration(errorCount) * time.Second)
						select {
						case l.loadingCh <- id:
						case <-l.done:
						}
					}(chunkID)
				} else {
					log.Errorf("Chunk %d failed %d times, giving up", chunkID, l.maxRetries)
				}
			} else {
				log.Debugf("Successfully loaded chunk %d", chunkID)
			}
		case <-l.done:
			return
		}
	}
}

// Load reads one chunk file into the dictionary. Each entry is a uint16
// length-prefixed word followed by a uint16 rank; rank 1 is the best
// word, so the stored score inverts it.
func (l *Loader) Load(chunkID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded[chunkID] {
		return nil
	}

	filename := filepath.Join(l.dirPath, fmt.Sprintf("dict_%04d.bin", chunkID))
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return fmt.Errorf("failed to read chunk header: %w", err)
	}

	log.Debugf("Loading chunk %d with %d words", chunkID, totalEntries)

	count := 0
	for count < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return fmt.Errorf("failed to read word: %w", err)
		}
		word := string(wordBytes)

		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return fmt.Errorf("failed to read rank: %w", err)
		}

		// rank 1 becomes 65535, rank 2 becomes 65534, and so on
		score := int(65535 - rank + 1)

		if err := l.dict.SetWord(word, score); err != nil {
			log.Warnf("Skipping word %q from chunk %d: %v", word, chunkID, err)
			count++
			continue
		}

		if l.chunkWords[chunkID] == nil {
			l.chunkWords[chunkID] = make(map[string]int)
		}
		l.chunkWords[chunkID][word] = score

		l.totalWords++
		if score > l.maxFreq {
			l.maxFreq = score
		}
		count++
	}

	l.loaded[chunkID] = true
	if l.rebalance {
		l.dict.Balance()
	}
	log.Debugf("Chunk %d loaded: %d words", chunkID, count)
	return nil
}

// Evict removes one chunk's words from the dictionary and rebalances so
// the demoted paths are dropped from the structure as well.
func (l *Loader) Evict(chunkID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded[chunkID] {
		return fmt.Errorf("chunk %d is not loaded", chunkID)
	}

	chunkWords, exists := l.chunkWords[chunkID]
	if !exists {
		return fmt.Errorf("chunk %d word data not found", chunkID)
	}

	log.Debugf("Unloading chunk %d", chunkID)

	for word := range chunkWords {
		if l.dict.DeleteWord(word) {
			l.totalWords--
		}
	}
	delete(l.loaded, chunkID)
	delete(l.chunkWords, chunkID)

	// Balance rebuilds from live pairs only, shedding the demoted nodes.
	l.dict.Balance()
	l.recalcMaxFreq()

	log.Debugf("Successfully unloaded chunk %d", chunkID)
	return nil
}

func (l *Loader) recalcMaxFreq() {
	l.maxFreq = 0
	for _, words := range l.chunkWords {
		for _, freq := range words {
			if freq > l.maxFreq {
				l.maxFreq = freq
			}
		}
	}
}

// GetStats returns current loading statistics.
func (l *Loader) GetStats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chunks, _ := l.GetAvailable()
	return Stats{
		TotalWords:      l.totalWords,
		LoadedChunks:    len(l.loaded),
		AvailableChunks: len(chunks),
		MaxFrequency:    l.maxFreq,
		IsLoading:       len(l.loadingCh) > 0,
	}
}

// GetLoadedIDs returns the currently loaded chunk IDs in ascending order.
func (l *Loader) GetLoadedIDs() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var ids []int
	for chunkID, loaded := range l.loaded {
		if loaded {
			ids = append(ids, chunkID)
		}
	}
	sort.Ints(ids)
	return ids
}

// RequestMore queues additional chunks until roughly additionalWords more
// words are in flight.
func (l *Loader) RequestMore(additionalWords int) error {
	chunks, err := l.GetAvailable()
	if err != nil {
		return err
	}

	queued := 0
	for _, chunk := range chunks {
		l.mu.RLock()
		alreadyLoaded := l.loaded[chunk.ID]
		l.mu.RUnlock()
		if alreadyLoaded {
			continue
		}
		select {
		case l.loadingCh <- chunk.ID:
			log.Debugf("Queued additional chunk %d for loading", chunk.ID)
			queued += chunk.WordCount
			if queued >= additionalWords {
				return nil
			}
		default:
			log.Warnf("Loading queue full, cannot queue chunk %d", chunk.ID)
		}
	}
	return nil
}

// Stop terminates the background loader.
func (l *Loader) Stop() {
	close(l.done)
}
