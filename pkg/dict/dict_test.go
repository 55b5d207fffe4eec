package dict

import (
	"testing"

	"github.com/bastiangx/ternserve/pkg/tst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryBasicOps(t *testing.T) {
	d := New()

	require.NoError(t, d.SetWord("hello", 100))
	require.NoError(t, d.SetWord("help", 80))
	require.NoError(t, d.SetWord("world", 60))

	assert.Equal(t, 3, d.Count())
	assert.Equal(t, 100, d.WordFrequency("hello"))
	assert.Equal(t, 0, d.WordFrequency("absent"))
	assert.True(t, d.ContainsWord("help"))
	assert.False(t, d.ContainsWord("hel"))
	assert.True(t, d.HasPrefix("hel"))

	assert.Equal(t, []string{"hello", "help", "world"}, d.Words())
}

func TestDictionaryTryGet(t *testing.T) {
	d := New()
	require.NoError(t, d.Set(tst.StringKey("key"), "value"))

	v, ok := d.TryGet(tst.StringKey("key"))
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	v, ok = d.TryGet(tst.StringKey("missing"))
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestDictionaryDelete(t *testing.T) {
	d := New()
	require.NoError(t, d.SetWord("gone", 1))

	assert.True(t, d.DeleteWord("gone"))
	assert.False(t, d.DeleteWord("gone"))
	assert.False(t, d.ContainsWord("gone"))
	assert.Equal(t, 0, d.Count())

	// removal demotes, the path lingers until the next Balance
	assert.True(t, d.HasPrefix("gone"))
	d.Balance()
	assert.False(t, d.HasPrefix("gone"))
}

func TestDictionaryMatchAndNear(t *testing.T) {
	d := New()
	for word, freq := range map[string]int{
		"for": 10, "ford": 20, "form": 30, "four": 40, "from": 50,
	} {
		require.NoError(t, d.SetWord(word, freq))
	}

	matches := d.Match("f..m")
	words := make([]string, 0, len(matches))
	for _, p := range matches {
		words = append(words, p.Key.String())
	}
	assert.ElementsMatch(t, []string{"form", "from"}, words)

	near := d.Near("form", 1)
	words = words[:0]
	for _, p := range near {
		words = append(words, p.Key.String())
	}
	assert.Contains(t, words, "form")
}

func TestDictionaryCloneAndClear(t *testing.T) {
	d := New()
	require.NoError(t, d.SetWord("alpha", 1))

	cp := d.Clone()
	require.NoError(t, d.SetWord("beta", 2))

	assert.True(t, d.ContainsWord("beta"))
	assert.False(t, cp.ContainsWord("beta"))

	d.Clear()
	assert.Equal(t, 0, d.Count())
	assert.Equal(t, 1, cp.Count())
}

func TestDictionaryLoadSortedPairs(t *testing.T) {
	pairs := []tst.Pair{
		{Key: tst.StringKey("ant"), Value: 1},
		{Key: tst.StringKey("bee"), Value: 2},
		{Key: tst.StringKey("cat"), Value: 3},
		{Key: tst.StringKey("dog"), Value: 4},
	}

	d := New()
	require.NoError(t, d.Load(pairs))

	assert.Equal(t, 4, d.Count())
	assert.Equal(t, 3, d.WordFrequency("cat"))
}
