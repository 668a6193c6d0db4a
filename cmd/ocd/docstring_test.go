package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPythonVersionValidation(t *testing.T) {
	for _, version := range []string{"3.7", "3.8", "3.9", "3.10"} {
		assert.NoError(t, oneOf("python-version", version, pythonVersions), version)
	}
	for _, version := range []string{"3.6", "3.11", "3", "2.7", "3.1"} {
		assert.Error(t, oneOf("python-version", version, pythonVersions), version)
	}
}

func TestDocstringPrompt(t *testing.T) {
	code := "def add(a, b):\n    return a + b\n"
	prompt := docstringPrompt("3.10", code)

	assert.True(t, strings.HasPrefix(prompt, "# Python 3.10\n"))
	assert.Contains(t, prompt, code)
	assert.True(t, strings.HasSuffix(prompt, `docstring for the above function:`+"\n\"\"\""),
		"prompt must end with an opening docstring quote for the model to continue")
}

func TestDocstringPromptVersionIsInterpolated(t *testing.T) {
	prompt := docstringPrompt("3.8", "pass")
	assert.Contains(t, prompt, "# Python 3.8")
	assert.NotContains(t, prompt, "3.10")
}
