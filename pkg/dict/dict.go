/*
Package dict adapts the ternary search tree into a word dictionary.

Dictionary is the generic key to value mapping the rest of the module
talks to. It wraps pkg/tst behind a read-write mutex, since the tree
itself is single threaded, and layers the try-style accessors on top of
the tree's nil sentinel. The package also owns the binary chunk loader
and runtime sizing used to feed large word sets into the tree.
*/
package dict

import (
	"sync"

	"github.com/bastiangx/ternserve/pkg/tst"
)

// Dictionary is a string keyed mapping backed by a ternary search tree.
// All methods are safe for concurrent use.
type Dictionary struct {
	tree *tst.Tree
	mu   sync.RWMutex
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{tree: tst.New()}
}

// Set stores value under key, overwriting the value of an equal key.
// Errors surface straight from the tree: nil key, empty key string, or
// a collision with a non-equal key of the same string.
func (d *Dictionary) Set(key tst.Key, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree.Insert(key, value)
}

// SetWord stores a word with its frequency. Convenience for the loaders.
func (d *Dictionary) SetWord(word string, frequency int) error {
	return d.Set(tst.StringKey(word), frequency)
}

// Get returns the value stored under key, or nil when absent.
func (d *Dictionary) Get(key tst.Key) any {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Get(key)
}

// TryGet reports presence through the second return. Absent keys and
// failures both come back as (nil, false); callers who need to tell them
// apart use the tree API directly.
func (d *Dictionary) TryGet(key tst.Key) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v := d.tree.Get(key)
	if v == nil {
		return nil, false
	}
	return v, true
}

// WordFrequency returns the stored frequency of word, or 0.
func (d *Dictionary) WordFrequency(word string) int {
	if v, ok := d.TryGet(tst.StringKey(word)); ok {
		if freq, ok := v.(int); ok {
			return freq
		}
	}
	return 0
}

// Contains reports whether an equal key is stored.
func (d *Dictionary) Contains(key tst.Key) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.ContainsKey(key)
}

// ContainsWord reports whether word is stored.
func (d *Dictionary) ContainsWord(word string) bool {
	return d.Contains(tst.StringKey(word))
}

// HasPrefix reports whether any stored word starts with prefix. The
// underlying path may survive removed words, since removal only demotes.
func (d *Dictionary) HasPrefix(prefix string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.ContainsNode(prefix)
}

// Delete demotes the node holding key. Returns false when absent.
func (d *Dictionary) Delete(key tst.Key) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree.RemoveKey(key)
}

// DeleteWord demotes the node holding word.
func (d *Dictionary) DeleteWord(word string) bool {
	return d.Delete(tst.StringKey(word))
}

// Count returns the number of stored pairs.
func (d *Dictionary) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.tree.Pairs())
}

// Pairs snapshots every (key, value) pair in ascending key order.
func (d *Dictionary) Pairs() []tst.Pair {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Pairs()
}

// Words snapshots every stored word in ascending order.
func (d *Dictionary) Words() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := d.tree.Keys()
	words := make([]string, 0, len(keys))
	for _, k := range keys {
		words = append(words, k.String())
	}
	return words
}

// Load bulk inserts pairs already sorted by key string through the
// balanced build schedule.
func (d *Dictionary) Load(pairs []tst.Pair) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree.BulkInsert(pairs)
}

// Balance rebuilds the tree into a median rooted shape. Insertion order
// from ranked chunk files degenerates the splitChar BSTs, so the loaders
// call this after load batches.
func (d *Dictionary) Balance() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tree.Balance()
}

// Match returns the pairs whose word matches pattern under the '.' and
// '*' wildcard rules. All other characters are literal; there is no
// escape syntax.
func (d *Dictionary) Match(pattern string) []tst.Pair {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.PartialKeySearch(pattern)
}

// Near returns the pairs whose word lies within Hamming distance
// maxDist of q.
func (d *Dictionary) Near(q string, maxDist int) []tst.Pair {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.NearSearch(q, maxDist)
}

// Clone deep copies the dictionary. The copy and the original never
// share mutable state.
func (d *Dictionary) Clone() *Dictionary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return &Dictionary{tree: d.tree.Clone()}
}

// Clear drops every stored pair and structural node.
func (d *Dictionary) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tree.Clear()
}
