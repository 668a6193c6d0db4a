// Package textstat analyzes text files for size, line count, file type,
// and tokenizer token count.
package textstat

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
)

// EncodingName is the tokenizer encoding used for token counts. r50k_base
// is the GPT-2 era vocabulary.
const EncodingName = "r50k_base"

// encodeTokens is swappable for tests to avoid fetching tokenizer data.
var encodeTokens = func(text string) (int, error) {
	encoding, err := tiktoken.GetEncoding(EncodingName)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load tokenizer encoding")
	}
	return len(encoding.Encode(text, nil, nil)), nil
}

// FileInfo is the analysis result for a single file.
type FileInfo struct {
	Name   string
	Type   string
	Bytes  int
	Lines  int
	Tokens int
}

// Columns returns the display columns for a file analysis.
func (f FileInfo) Columns() []string {
	return []string{"name", "type", "bytes", "lines", "tokens"}
}

// Values returns the display values for a file analysis, in column order.
func (f FileInfo) Values() []any {
	return []any{f.Name, f.Type, f.Bytes, f.Lines, f.Tokens}
}

// CountTokens returns the number of tokens in a text string. Trailing
// whitespace is removed from the string as it impacts tokenization.
func CountTokens(text string) (int, error) {
	return encodeTokens(strings.TrimRight(text, " \t\r\n"))
}

// FileType determines the type of a file using the file command, falling
// back to the uppercased extension when the command is unavailable.
func FileType(ctx context.Context, path string) string {
	out, err := exec.CommandContext(ctx, "file", "-b", path).Output()
	if err == nil && len(out) > 0 {
		return strings.TrimSpace(string(out))
	}
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Analyze reads and analyzes a single text file.
func Analyze(ctx context.Context, path string) (FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileInfo{}, errors.Wrapf(err, "failed to read %s", path)
	}
	text := string(data)

	tokens, err := CountTokens(text)
	if err != nil {
		return FileInfo{}, err
	}

	return FileInfo{
		Name:   path,
		Type:   FileType(ctx, path),
		Bytes:  len(text),
		Lines:  len(strings.Split(text, "\n")),
		Tokens: tokens,
	}, nil
}
