package tst

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classicWords is the canonical five word working set. Insertion in this
// ascending order produces an unbalanced shape that uses eq and hi links
// only; no lo link is created.
var classicWords = []string{"FOR", "FORD", "FORM", "FOUR", "FROM"}

func buildClassic(t *testing.T) *Tree {
	t.Helper()
	tree := New()
	for i, w := range classicWords {
		require.NoError(t, tree.Insert(StringKey(w), i+1))
	}
	return tree
}

func pairWords(pairs []Pair) []string {
	words := make([]string, 0, len(pairs))
	for _, p := range pairs {
		words = append(words, p.Key.String())
	}
	return words
}

func TestInsertAndGet(t *testing.T) {
	tree := buildClassic(t)

	assert.Equal(t, 5, tree.Len())
	for i, w := range classicWords {
		assert.Equal(t, i+1, tree.Get(StringKey(w)), w)
		assert.True(t, tree.ContainsKey(StringKey(w)), w)
	}
	assert.Nil(t, tree.Get(StringKey("FO")))
	assert.Nil(t, tree.Get(StringKey("FORMS")))
	assert.False(t, tree.ContainsKey(StringKey("ZEBRA")))
}

func TestInsertOverwrite(t *testing.T) {
	tree := New()
	require.NoError(t, tree.Insert(StringKey("AB"), 1))
	require.NoError(t, tree.Insert(StringKey("AB"), 2))

	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, 2, tree.Get(StringKey("AB")))
}

func TestInsertErrors(t *testing.T) {
	tree := New()

	assert.ErrorIs(t, tree.Insert(nil, 1), ErrNilKey)
	assert.ErrorIs(t, tree.Insert(StringKey(""), 1), ErrEmptyKey)
}

// tagKey strings identically to other tagKeys with the same text but
// only equals keys carrying the same tag.
type tagKey struct {
	text string
	tag  string
}

func (k tagKey) String() string { return k.text }

func (k tagKey) Equal(other Key) bool {
	o, ok := other.(tagKey)
	return ok && o.text == k.text && o.tag == k.tag
}

func TestInsertCollision(t *testing.T) {
	tree := New()
	require.NoError(t, tree.Insert(tagKey{"foo", "a"}, 1))

	err := tree.Insert(tagKey{"foo", "b"}, 2)
	assert.ErrorIs(t, err, ErrKeyCollision)

	err = tree.Insert(StringKey("foo"), 3)
	assert.ErrorIs(t, err, ErrKeyCollision)

	// the stored key survives the rejected inserts
	assert.Equal(t, 1, tree.Get(tagKey{"foo", "a"}))
	assert.Equal(t, 1, tree.Len())
}

func TestKeysSortedOrder(t *testing.T) {
	tree := buildClassic(t)

	keys := tree.Keys()
	words := make([]string, 0, len(keys))
	for _, k := range keys {
		words = append(words, k.String())
	}
	assert.Equal(t, []string{"FOR", "FORD", "FORM", "FOUR", "FROM"}, words)

	values := tree.Values()
	assert.Len(t, values, 5)
}

func TestRemoveKeyDemotes(t *testing.T) {
	tree := buildClassic(t)

	assert.True(t, tree.RemoveKey(StringKey("FOR")))
	assert.False(t, tree.RemoveKey(StringKey("FOR")))

	assert.False(t, tree.ContainsKey(StringKey("FOR")))
	assert.Nil(t, tree.Get(StringKey("FOR")))
	assert.Equal(t, 4, tree.Len())

	// the node path survives removal, longer words still resolve
	assert.True(t, tree.ContainsNode("FOR"))
	assert.Equal(t, 2, tree.Get(StringKey("FORD")))
	assert.Equal(t, 3, tree.Get(StringKey("FORM")))
}

func TestContainsNodePrefixes(t *testing.T) {
	tree := buildClassic(t)

	for _, prefix := range []string{"F", "FO", "FOR", "FOU", "FR", "FROM"} {
		assert.True(t, tree.ContainsNode(prefix), prefix)
	}
	assert.False(t, tree.ContainsNode("FX"))
	assert.False(t, tree.ContainsNode(""))
}

func TestPartialKeySearch(t *testing.T) {
	tree := buildClassic(t)

	cases := []struct {
		pattern  string
		expected []string
	}{
		{"F..M", []string{"FORM", "FROM"}},
		{"....", []string{"FORD", "FORM", "FOUR", "FROM"}},
		{".O..", []string{"FORD", "FORM", "FOUR"}},
		{"FOR", []string{"FOR"}},
		{"FRO*", []string{"FROM"}},
		{"F*M", []string{"FORM", "FROM"}},
		{"F*OM", []string{"FROM"}},
		{"F*.M", []string{"FORM", "FROM"}},
		{"F**M", []string{"FORM", "FROM"}},
		{"*", []string{"FOR", "FORD", "FORM", "FOUR", "FROM"}},
		{"Z*", nil},
		{"", nil},
	}

	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			got := pairWords(tree.PartialKeySearch(tc.pattern))
			sort.Strings(got)
			if tc.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNearSearch(t *testing.T) {
	tree := buildClassic(t)

	cases := []struct {
		query    string
		dist     int
		expected []string
	}{
		{"FROM", 1, []string{"FROM"}},
		{"FORM", 1, []string{"FORD", "FORM"}},
		// emitting FOR at its terminal skips the deeper eq subtree, so a
		// looser budget can return fewer long words than a tight one
		{"FORM", 2, []string{"FOR", "FOUR"}},
		{"FROM", 0, nil},
		{"FROM", -1, nil},
		{"", 2, nil},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_%d", tc.query, tc.dist), func(t *testing.T) {
			got := pairWords(tree.NearSearch(tc.query, tc.dist))
			sort.Strings(got)
			if tc.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestBalanceReducesDepth(t *testing.T) {
	tree := New()
	count := 512
	for i := 0; i < count; i++ {
		require.NoError(t, tree.Insert(StringKey(fmt.Sprintf("w%04d", i)), i))
	}
	before := tree.Depth()
	beforePairs := pairWords(tree.Pairs())

	tree.Balance()

	assert.Equal(t, count, tree.Len())
	assert.Equal(t, beforePairs, pairWords(tree.Pairs()))
	assert.Less(t, tree.Depth(), before)

	for i := 0; i < count; i++ {
		w := fmt.Sprintf("w%04d", i)
		assert.Equal(t, i, tree.Get(StringKey(w)), w)
	}
}

func TestBulkInsert(t *testing.T) {
	words := []string{"apple", "banana", "cherry", "date", "elder", "fig", "grape"}
	pairs := make([]Pair, 0, len(words))
	for i, w := range words {
		pairs = append(pairs, Pair{Key: StringKey(w), Value: i})
	}

	tree := New()
	require.NoError(t, tree.BulkInsert(pairs))

	assert.Equal(t, len(words), tree.Len())
	assert.Equal(t, words, pairWords(tree.Pairs()))

	empty := New()
	require.NoError(t, empty.BulkInsert(nil))
	assert.Equal(t, 0, empty.Len())
}

func TestClone(t *testing.T) {
	tree := buildClassic(t)
	cp := tree.Clone()

	require.NoError(t, tree.Insert(StringKey("FROG"), 99))
	assert.True(t, tree.ContainsKey(StringKey("FROG")))
	assert.False(t, cp.ContainsKey(StringKey("FROG")))

	assert.True(t, tree.RemoveKey(StringKey("FOR")))
	assert.True(t, cp.ContainsKey(StringKey("FOR")))
	assert.Equal(t, 5, cp.Len())
}

func TestClear(t *testing.T) {
	tree := buildClassic(t)
	tree.Clear()

	assert.Equal(t, 0, tree.Len())
	assert.Nil(t, tree.Root())
	assert.False(t, tree.ContainsNode("F"))
	assert.Empty(t, tree.Pairs())

	// the tree is reusable after a clear
	require.NoError(t, tree.Insert(StringKey("new"), 1))
	assert.Equal(t, 1, tree.Len())
}

func TestDepthCounts(t *testing.T) {
	tree := New()
	assert.Equal(t, 0, tree.Depth())

	require.NoError(t, tree.Insert(StringKey("abc"), 1))
	assert.Equal(t, 3, tree.Depth())
}
