package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecursiveSplitterShortText(t *testing.T) {
	s := NewRecursiveSplitter(500, 50)

	chunks := s.Split("Opening hours.\n\nMembers may bring one guest.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Opening hours.\n\nMembers may bring one guest.", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].StartIndex)
}

func TestRecursiveSplitterEmpty(t *testing.T) {
	s := NewRecursiveSplitter(500, 50)
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n\n  "))
}

func TestRecursiveSplitterRespectsSizeAndOffsets(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "words", text: strings.Repeat("lorem ipsum dolor ", 120)},
		{name: "paragraphs", text: strings.Repeat(strings.Repeat("Towels are provided at the front desk. ", 8)+"\n\n", 6)},
		{name: "no separators", text: strings.Repeat("x", 1234)},
		{name: "multibyte", text: strings.Repeat("Clase de yoga con Sara Jiménez. ", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRecursiveSplitter(500, 50)
			chunks := s.Split(tt.text)
			require.Greater(t, len(chunks), 1)

			runes := []rune(tt.text)
			prev := -1
			for _, c := range chunks {
				n := len([]rune(c.Content))
				assert.LessOrEqual(t, n, 500)
				require.GreaterOrEqual(t, c.StartIndex, 0)
				assert.Equal(t, c.Content, string(runes[c.StartIndex:c.StartIndex+n]))
				assert.Greater(t, c.StartIndex, prev)
				prev = c.StartIndex
			}
		})
	}
}

func TestRecursiveSplitterOverlap(t *testing.T) {
	s := NewRecursiveSplitter(100, 20)
	chunks := s.Split(strings.Repeat("abcd ", 100))
	require.Greater(t, len(chunks), 2)

	for i := 1; i < len(chunks); i++ {
		prevEnd := chunks[i-1].StartIndex + len([]rune(chunks[i-1].Content))
		assert.Less(t, chunks[i].StartIndex, prevEnd, "neighbouring chunks share context")
	}
}

func TestSplitUnbrokenText(t *testing.T) {
	out := NewRecursiveSplitter(500, 50).Split(strings.Repeat("a", 1200))
	require.Len(t, out, 3)
	for _, c := range out {
		assert.LessOrEqual(t, len(c.Content), 500)
	}
}
