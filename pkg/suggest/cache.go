package suggest

import (
	"sort"
	"sync"

	"github.com/bastiangx/ternserve/pkg/dict"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// HotWord is a cache hit with its stored frequency.
type HotWord struct {
	Word      string
	Frequency int
}

// HotCache keeps the most frequent words in a patricia trie so prefix
// scans over the hot set avoid the main dictionary. Entries are evicted
// least recently used once maxWords is reached.
type HotCache struct {
	hotWords    map[string]int
	hotTrie     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	maxWords    int
	mu          sync.RWMutex
}

// NewHotCache creates an empty cache holding up to maxWords entries.
func NewHotCache(maxWords int) *HotCache {
	return &HotCache{
		hotWords:   make(map[string]int, maxWords),
		hotTrie:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxWords),
		maxWords:   maxWords,
	}
}

// Add inserts or refreshes one word, evicting the LRU entry when full.
func (hc *HotCache) Add(word string, frequency int) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if _, exists := hc.hotWords[word]; !exists && len(hc.hotWords) >= hc.maxWords {
		hc.evictLRU()
	}
	hc.hotWords[word] = frequency
	hc.hotTrie.Set(patricia.Prefix(word), frequency)
	hc.accessTime[word] = hc.getNextAccessTime()
}

// Search returns the hot words starting with lowerPrefix whose
// frequency meets minThreshold. The exact prefix word is skipped.
func (hc *HotCache) Search(lowerPrefix string, minThreshold int) []HotWord {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	var results []HotWord
	err := hc.hotTrie.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		if word == lowerPrefix {
			return nil
		}
		freq := item.(int)
		if freq < minThreshold {
			return nil
		}
		hc.accessTime[word] = hc.getNextAccessTime()
		results = append(results, HotWord{Word: word, Frequency: freq})
		return nil
	})
	if err != nil {
		log.Errorf("Error searching hot cache: %v", err)
	}
	return results
}

// Populate seeds half the cache capacity with the best ranked words of d.
func (hc *HotCache) Populate(d *dict.Dictionary) {
	if d == nil {
		return
	}
	pairs := d.Pairs()
	sort.SliceStable(pairs, func(i, j int) bool {
		fi, _ := pairs[i].Value.(int)
		fj, _ := pairs[j].Value.(int)
		return fi > fj
	})

	hc.mu.Lock()
	defer hc.mu.Unlock()

	maxInitial := hc.maxWords / 2
	count := 0
	for _, p := range pairs {
		if count >= maxInitial {
			break
		}
		freq, ok := p.Value.(int)
		if !ok {
			continue
		}
		word := p.Key.String()
		if len(hc.hotWords) >= hc.maxWords {
			hc.evictLRU()
		}
		hc.hotWords[word] = freq
		hc.hotTrie.Set(patricia.Prefix(word), freq)
		hc.accessTime[word] = hc.getNextAccessTime()
		count++
	}
	log.Debugf("Populated hot cache with %d words", count)
}

// Stats reports cache counters.
func (hc *HotCache) Stats() map[string]int {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	return map[string]int{
		"hotCacheWords": len(hc.hotWords),
		"maxHotWords":   hc.maxWords,
		"hotCacheHits":  int(hc.accessCount),
	}
}

func (hc *HotCache) getNextAccessTime() int64 {
	hc.accessCount++
	return hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldestWord string
	var oldestTime int64 = 9223372036854775807

	for word, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestWord = word
		}
	}
	if oldestWord != "" {
		delete(hc.hotWords, oldestWord)
		delete(hc.accessTime, oldestWord)
		hc.hotTrie.Delete(patricia.Prefix(oldestWord))
		log.Debugf("Evicted word '%s' from hot cache", oldestWord)
	}
}
