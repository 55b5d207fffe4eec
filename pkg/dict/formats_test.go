package dict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWordList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWordList(t *testing.T) {
	path := writeWordList(t, `# frequency list
hello 120

world 80
plain
dup 5
dup 9
bogus abc
`)

	d := New()
	count, err := LoadWordList(path, d)
	require.NoError(t, err)

	assert.Equal(t, 5, count)
	assert.Equal(t, 120, d.WordFrequency("hello"))
	assert.Equal(t, 80, d.WordFrequency("world"))
	// no frequency column defaults to 1, as does an unparsable one
	assert.Equal(t, 1, d.WordFrequency("plain"))
	assert.Equal(t, 1, d.WordFrequency("bogus"))
	// last entry wins for duplicated words
	assert.Equal(t, 9, d.WordFrequency("dup"))
}

func TestLoadWordListMissingFile(t *testing.T) {
	_, err := LoadWordList(filepath.Join(t.TempDir(), "absent.txt"), New())
	assert.Error(t, err)
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := BuildChunks([]RankedWord{{Word: "one", Frequency: 1}}, dir, 10)
	require.NoError(t, err)

	format, err := DetectFileFormat(filepath.Join(dir, "dict_0001.bin"))
	require.NoError(t, err)
	assert.Equal(t, FormatChunk, format)

	txt := writeWordList(t, "hello 1\n")
	format, err = DetectFileFormat(txt)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)

	other := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	_, err = DetectFileFormat(other)
	assert.Error(t, err)
}

func TestValidateFileFormat(t *testing.T) {
	txt := writeWordList(t, "hello 1\n")

	assert.NoError(t, ValidateFileFormat(txt, FormatText))
	// extension does not match the chunk format
	assert.Error(t, ValidateFileFormat(txt, FormatChunk))
	assert.Error(t, ValidateFileFormat(filepath.Join(t.TempDir(), "nope.txt"), FormatText))

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	assert.Error(t, ValidateFileFormat(empty, FormatText))
}
