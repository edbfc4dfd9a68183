package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{" 111222333 ", "999888777  "},
			expected: []string{"111222333", "999888777"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"999888777", "111222333", "999888777"},
			expected: []string{"999888777", "111222333"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"111222333", "", "  "},
			expected: []string{"111222333"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestSortedSet(t *testing.T) {
	t.Run("sorts after dedupe", func(t *testing.T) {
		got := SortedSet([]string{"999888777", " 111222333", "999888777", ""})
		assert.Equal(t, []string{"111222333", "999888777"}, got)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, SortedSet(nil))
	})
}
