// Package tst implements a ternary search tree keyed by strings.
//
// Each node holds one character and three children: keys whose current
// character sorts below the node continue left, above it right, and keys
// consuming the character continue through the middle child. A path of
// middle transitions spells a stored key, so the tree behaves like a BST
// of characters at every trie level. On top of the plain point operations
// the tree hosts a median-first balanced rebuild, a Hamming style near
// search, and a wildcard pattern matcher with '.' and '*'.
//
// The tree is single threaded and not reentrant under mutation. Callers
// that need concurrent access wrap it; see pkg/dict.
package tst

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Tree owns the root node and exposes the flat public API. The zero
// value is not ready for use; call New.
type Tree struct {
	root *Node
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// Root returns the root node, or nil when the tree is empty.
func (t *Tree) Root() *Node { return t.root }

// Insert stores key with value. An existing equal key has its value
// overwritten. Insert is the only failing operation: a nil key, an empty
// key string, or a collision (the terminal node already stamped with a
// non-equal key of the same string) is rejected before any mutation of
// key state.
func (t *Tree) Insert(key Key, value any) error {
	if key == nil {
		return ErrNilKey
	}
	s := key.String()
	if s == "" {
		return ErrEmptyKey
	}
	if t.root == nil {
		t.root = newNode(s[0], nil)
	}
	terminal := t.root.insert(s, 0)
	if terminal.isKey && !terminal.key.Equal(key) {
		return fmt.Errorf("%w: %q", ErrKeyCollision, s)
	}
	terminal.setKey(key, value)
	return nil
}

// lookup runs the ternary descent and returns the node storing an equal
// key, or nil. Total: nil keys and empty strings are simply not found.
func (t *Tree) lookup(key Key) *Node {
	if key == nil || t.root == nil {
		return nil
	}
	s := key.String()
	if s == "" {
		return nil
	}
	n := t.root.locate(s)
	if n == nil || !n.isKey || !n.key.Equal(key) {
		return nil
	}
	return n
}

// Get returns the value stored under key, or nil when absent.
func (t *Tree) Get(key Key) any {
	n := t.lookup(key)
	if n == nil {
		return nil
	}
	return n.value
}

// ContainsKey reports whether a key node stores an equal key.
func (t *Tree) ContainsKey(key Key) bool {
	return t.lookup(key) != nil
}

// RemoveKey demotes the node storing key: the key and value slots are
// cleared and key status dropped. The node structure stays untouched, so
// ContainsNode may keep reporting the string as a live prefix.
func (t *Tree) RemoveKey(key Key) bool {
	n := t.lookup(key)
	if n == nil {
		return false
	}
	n.demote()
	return true
}

// ContainsNode reports whether a path for prefix exists. The terminal
// need not be a key node.
func (t *Tree) ContainsNode(prefix string) bool {
	if prefix == "" || t.root == nil {
		return false
	}
	return t.root.locate(prefix) != nil
}

// Keys enumerates stored keys in ascending key string order.
func (t *Tree) Keys() []Key {
	out := make([]Key, 0)
	t.root.appendKeys(&out)
	return out
}

// Values enumerates values in key order, skipping absent value slots.
func (t *Tree) Values() []any {
	out := make([]any, 0)
	t.root.appendValues(&out)
	return out
}

// Pairs enumerates (key, value) pairs in ascending key string order. The
// returned slice is a snapshot and stays valid across later mutation.
func (t *Tree) Pairs() []Pair {
	out := make([]Pair, 0)
	t.root.appendPairs(&out)
	return out
}

// Len returns the number of stored keys.
func (t *Tree) Len() int {
	return t.root.countKeys()
}

// Depth returns the height of the tree in nodes.
func (t *Tree) Depth() int {
	return t.root.depth()
}

// Balance rebuilds the tree into an approximately median rooted shape.
// The in-order pair list is already sorted, so re-inserting it through
// the median schedule equalizes the splitChar BSTs at every level. All
// pairs are preserved.
func (t *Tree) Balance() {
	pairs := t.Pairs()
	t.Clear()
	if err := t.insertSchedule(pairs, 0, len(pairs)-1); err != nil {
		log.Errorf("Re-inserting during balance: %v", err)
	}
}

// BulkInsert inserts pairs already sorted by key string through the
// balanced build schedule. Per-pair failures abort with the insert error.
func (t *Tree) BulkInsert(pairs []Pair) error {
	return t.insertSchedule(pairs, 0, len(pairs)-1)
}

// insertSchedule inserts the median of pairs[start..end] first, then both
// halves. The midpoint is (end-start+1)/2 biased low, which keeps the
// split stable for the recursive halves.
func (t *Tree) insertSchedule(pairs []Pair, start, end int) error {
	if start > end || end < 0 {
		return nil
	}
	mid := (end - start + 1) / 2
	p := pairs[start+mid]
	if err := t.Insert(p.Key, p.Value); err != nil {
		return err
	}
	if err := t.insertSchedule(pairs, start, start+mid-1); err != nil {
		return err
	}
	return t.insertSchedule(pairs, start+mid+1, end)
}

// NearSearch returns the pairs whose key string lies within Hamming
// budget d of q. An empty query or negative budget yields no results.
func (t *Tree) NearSearch(q string, d int) []Pair {
	out := make([]Pair, 0)
	if t.root == nil || q == "" || d < 0 {
		return out
	}
	t.root.near(q, 0, d, &out)
	return out
}

// PartialKeySearch returns the pairs whose key string matches pattern,
// where '.' stands for exactly one character and '*' for any run of
// characters. An empty pattern yields no results.
func (t *Tree) PartialKeySearch(pattern string) []Pair {
	out := make([]Pair, 0)
	if t.root == nil || pattern == "" {
		return out
	}
	t.root.partial(pattern, 0, &out)
	return out
}

// Clone deep copies the whole node graph. Shape and parent back
// references are rebuilt; keys and values are shared.
func (t *Tree) Clone() *Tree {
	return &Tree{root: t.root.clone(nil)}
}

// Clear releases every node. The tree is empty afterwards.
func (t *Tree) Clear() {
	if t.root == nil {
		return
	}
	t.root.clear()
	t.root = nil
}
