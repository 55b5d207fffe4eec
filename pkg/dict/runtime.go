package dict

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// Resizer manages growing and shrinking the loaded word set at runtime.
type Resizer struct {
	loader       *Loader
	targetChunks int
	mu           sync.Mutex
}

// NewResizer creates a runtime resizer over loader.
func NewResizer(loader *Loader) *Resizer {
	return &Resizer{loader: loader}
}

// AvailableChunkCount returns the number of chunk files on disk.
func (r *Resizer) AvailableChunkCount() (int, error) {
	chunks, err := r.loader.GetAvailable()
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// LoadedChunkCount returns the number of chunks currently resident.
func (r *Resizer) LoadedChunkCount() int {
	return r.loader.GetStats().LoadedChunks
}

// MaxWordsAvailable returns the word total across all chunk files.
func (r *Resizer) MaxWordsAvailable() (int, error) {
	chunks, err := r.loader.GetAvailable()
	if err != nil {
		return 0, err
	}
	totalWords := 0
	for _, chunk := range chunks {
		totalWords += chunk.WordCount
	}
	return totalWords, nil
}

// SetSize loads or evicts chunks until exactly targetChunks are resident.
func (r *Resizer) SetSize(targetChunks int) error {
	if targetChunks < 1 {
		return fmt.Errorf("minimum dictionary size is 1 chunk")
	}

	available, err := r.AvailableChunkCount()
	if err != nil {
		return err
	}
	if targetChunks > available {
		return fmt.Errorf("only %d chunks available, cannot load %d", available, targetChunks)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.loader.GetStats().LoadedChunks
	log.Debugf("Setting dictionary size: current=%d chunks, target=%d chunks", current, targetChunks)

	switch {
	case targetChunks > current:
		if err := r.loadAdditional(targetChunks - current); err != nil {
			return err
		}
	case targetChunks < current:
		if err := r.evictExcess(current - targetChunks); err != nil {
			return err
		}
	}
	r.targetChunks = targetChunks
	return nil
}

// loadAdditional loads n more chunks, lowest IDs first.
func (r *Resizer) loadAdditional(n int) error {
	chunks, err := r.loader.GetAvailable()
	if err != nil {
		return err
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	resident := make(map[int]bool)
	for _, id := range r.loader.GetLoadedIDs() {
		resident[id] = true
	}

	loadedCount := 0
	for _, chunk := range chunks {
		if loadedCount >= n {
			break
		}
		if resident[chunk.ID] {
			continue
		}
		if err := r.loader.Load(chunk.ID); err != nil {
			log.Warnf("Failed to load chunk %d: %v", chunk.ID, err)
			continue
		}
		loadedCount++
	}
	log.Debugf("Loaded %d additional chunks", loadedCount)
	return nil
}

// evictExcess drops n chunks, highest IDs first.
func (r *Resizer) evictExcess(n int) error {
	ids := r.loader.GetLoadedIDs()
	if len(ids) == 0 {
		return nil
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	evicted := 0
	for _, chunkID := range ids {
		if evicted >= n {
			break
		}
		if err := r.loader.Evict(chunkID); err != nil {
			log.Warnf("Failed to unload chunk %d: %v", chunkID, err)
			continue
		}
		evicted++
	}
	log.Debugf("Unloaded %d chunks", evicted)
	return nil
}

// SizeOption is one selectable dictionary size.
type SizeOption struct {
	ChunkCount int    `json:"chunkCount"`
	WordCount  int    `json:"wordCount"`
	SizeLabel  string `json:"sizeLabel"`
}

// SizeOptions lists the cumulative word counts per chunk count.
func (r *Resizer) SizeOptions() ([]SizeOption, error) {
	chunks, err := r.loader.GetAvailable()
	if err != nil {
		return nil, err
	}

	options := make([]SizeOption, 0, len(chunks))
	totalWords := 0
	for i, chunk := range chunks {
		totalWords += chunk.WordCount
		options = append(options, SizeOption{
			ChunkCount: i + 1,
			WordCount:  totalWords,
			SizeLabel:  fmt.Sprintf("%dK words", totalWords/1000),
		})
	}
	return options, nil
}
