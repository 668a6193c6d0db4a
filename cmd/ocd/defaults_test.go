package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchName(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		patterns []string
		fuzzy    bool
		expected bool
	}{
		{name: "no patterns matches everything", field: "MODEL_ID", patterns: nil, expected: true},
		{name: "exact match", field: "MODEL_ID", patterns: []string{"MODEL_ID"}, expected: true},
		{name: "exact mismatch", field: "MODEL_ID", patterns: []string{"model_id"}, expected: false},
		{name: "exact is not substring", field: "CODEX_MODEL_ID", patterns: []string{"MODEL_ID"}, expected: false},
		{name: "fuzzy substring", field: "CODEX_MODEL_ID", patterns: []string{"model"}, fuzzy: true, expected: true},
		{name: "fuzzy case-insensitive", field: "IMAGES_SIZE", patterns: []string{"images"}, fuzzy: true, expected: true},
		{name: "fuzzy mismatch", field: "TEMPERATURE", patterns: []string{"model"}, fuzzy: true, expected: false},
		{name: "any pattern may match", field: "N", patterns: []string{"MODEL_ID", "N"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchName(tt.field, tt.patterns, tt.fuzzy))
		})
	}
}
