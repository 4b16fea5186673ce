package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \n  \n  ", ""},
		{"collapse spaces", "Senior    Go\tEngineer", "Senior Go Engineer"},
		{"line endings", "Line 1\r\nLine 2\rLine 3", "Line 1\nLine 2\nLine 3"},
		{"blank lines capped", "Skills\n\n\n\n\nGo", "Skills\n\nGo"},
		{"bullet glyphs", "• Built APIs\n●   Led team\n- Kept", "- Built APIs\n- Led team\n- Kept"},
		{"control characters", "Jane\x00 Doe\x0c\uFEFF", "Jane Doe"},
		{"unicode kept", "Résumé 🚀 spéciàl", "Résumé 🚀 spéciàl"},
		{"pdf page joins", "page one\n\npage two\n", "page one\n\npage two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Test   content\n\n\n\nMore"
	assert.Equal(t, CleanText(input), CleanText(CleanText(input)))
}
