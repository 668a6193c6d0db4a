package presenter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter(input string) (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	p := NewWithOptions(out, errOut, strings.NewReader(input), ColorNever)
	return p, out, errOut
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		expected string
	}{
		{
			name:     "error with context",
			err:      errors.New("boom"),
			context:  "opening store",
			expected: "[-] opening store: boom\n",
		},
		{
			name:     "error without context",
			err:      errors.New("boom"),
			expected: "[-] boom\n",
		},
		{
			name:     "nil error produces no output",
			err:      nil,
			context:  "anything",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out, errOut := newTestPresenter("")
			p.Error(tt.err, tt.context)
			assert.Equal(t, tt.expected, errOut.String())
			assert.Empty(t, out.String())
		})
	}
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPresenter("")

	p.Success("saved")
	p.Warning("careful")
	p.Info("plain")

	assert.Contains(t, out.String(), "[+] saved\n")
	assert.Contains(t, out.String(), "[!] careful\n")
	assert.Contains(t, out.String(), "plain\n")
}

func TestQuietSuppressesOutput(t *testing.T) {
	p, out, errOut := newTestPresenter("")
	p.SetQuiet(true)

	p.Success("saved")
	p.Warning("careful")
	p.Info("plain")
	p.Section("header")

	assert.Empty(t, out.String())

	// Errors are never suppressed
	p.Error(errors.New("boom"), "")
	assert.Equal(t, "[-] boom\n", errOut.String())
	assert.True(t, p.IsQuiet())
}

func TestSection(t *testing.T) {
	p, out, _ := newTestPresenter("")
	p.Section("API Key")
	assert.Equal(t, "API Key\n-------\n", out.String())
}

func TestPrompt(t *testing.T) {
	p, out, _ := newTestPresenter("hello\n")
	response := p.Prompt("Enter value")
	assert.Equal(t, "hello", response)
	assert.Contains(t, out.String(), "Enter value: ")
}

func TestPromptWithOptions(t *testing.T) {
	p, out, _ := newTestPresenter("y\n")
	response := p.Prompt("Continue?", "y", "n")
	assert.Equal(t, "y", response)
	assert.Contains(t, out.String(), "Continue? [y/n]: ")
}

func TestConsecutivePromptsSharePipedInput(t *testing.T) {
	// Both lines arrive in one buffered read; the second prompt must still
	// see the second line.
	p, _, _ := newTestPresenter("y\nsk-abc\n")
	assert.True(t, p.Confirm("Open browser?"))
	assert.Equal(t, "sk-abc", p.Prompt("Enter the API key"))
}

func TestPromptWithoutTrailingNewline(t *testing.T) {
	p, _, _ := newTestPresenter("hello")
	assert.Equal(t, "hello", p.Prompt("Enter value"))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p, _, _ := newTestPresenter(tt.input)
			assert.Equal(t, tt.expected, p.Confirm("Open browser?"))
		})
	}
}
