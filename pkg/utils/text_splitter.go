package utils

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators are tried in order, coarsest first. The empty separator splits into runes.
var DefaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// TextChunk is a piece of a larger text together with its rune offset in that text.
type TextChunk struct {
	Content    string
	StartIndex int
}

// RecursiveSplitter splits text on the first separator present, recursing into pieces that are
// still larger than ChunkSize, then merges the small pieces back together with ChunkOverlap
// characters of shared context between neighbours.
type RecursiveSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &RecursiveSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   DefaultSeparators,
	}
}

// Split returns the chunks of text with their start offsets. Whitespace-only chunks are dropped.
func (s *RecursiveSplitter) Split(text string) []TextChunk {
	pieces := s.splitRecursive(text, s.Separators)

	chunks := make([]TextChunk, 0, len(pieces))
	runes := []rune(text)
	index, previousLen := 0, 0
	for _, piece := range pieces {
		offset := index + previousLen - s.ChunkOverlap
		if offset < 0 {
			offset = 0
		}
		if offset > len(runes) {
			offset = len(runes)
		}

		start := -1
		tail := string(runes[offset:])
		if pos := strings.Index(tail, piece); pos >= 0 {
			start = offset + utf8.RuneCountInString(tail[:pos])
		}
		if start >= 0 {
			index = start
		}

		chunks = append(chunks, TextChunk{Content: piece, StartIndex: start})
		previousLen = utf8.RuneCountInString(piece)
	}
	return chunks
}

func (s *RecursiveSplitter) splitRecursive(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var final, good []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if runeLen(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(remaining) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitRecursive(piece, remaining)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge joins pieces into chunks no longer than ChunkSize, carrying up to ChunkOverlap runes of the
// previous chunk into the next one. Separators are already attached to the pieces.
func (s *RecursiveSplitter) merge(pieces []string) []string {
	var docs, current []string
	total := 0
	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > s.ChunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.ChunkOverlap || (total+n > s.ChunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepSeparator splits on sep and keeps it at the start of every piece after the first.
func splitKeepSeparator(text, sep string) []string {
	var out []string
	if sep == "" {
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
