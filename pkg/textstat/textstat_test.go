package textstat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenizer counts whitespace-separated words instead of real tokens.
func stubTokenizer(t *testing.T) {
	t.Helper()
	original := encodeTokens
	t.Cleanup(func() { encodeTokens = original })
	encodeTokens = func(text string) (int, error) {
		return len(strings.Fields(text)), nil
	}
}

func TestCountTokens_StripsTrailingWhitespace(t *testing.T) {
	var seen string
	original := encodeTokens
	t.Cleanup(func() { encodeTokens = original })
	encodeTokens = func(text string) (int, error) {
		seen = text
		return 0, nil
	}

	_, err := CountTokens("hello world  \n\t ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", seen)
}

func TestFileType_ExtensionFallback(t *testing.T) {
	// A path that does not exist forces the file command to fail.
	fileType := FileType(context.Background(), filepath.Join(t.TempDir(), "missing.py"))
	assert.Equal(t, "PY", fileType)
}

func TestAnalyze(t *testing.T) {
	stubTokenizer(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	content := "one two three\nfour five\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	info, err := Analyze(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, info.Name)
	assert.Equal(t, len(content), info.Bytes)
	assert.Equal(t, 3, info.Lines)
	assert.Equal(t, 5, info.Tokens)
	assert.NotEmpty(t, info.Type)
}

func TestAnalyze_MissingFile(t *testing.T) {
	stubTokenizer(t)

	_, err := Analyze(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestFileInfo_ColumnsAndValues(t *testing.T) {
	info := FileInfo{Name: "a.txt", Type: "ASCII text", Bytes: 10, Lines: 2, Tokens: 3}
	assert.Equal(t, []string{"name", "type", "bytes", "lines", "tokens"}, info.Columns())
	assert.Equal(t, []any{"a.txt", "ASCII text", 10, 2, 3}, info.Values())
}
