package ingest

import "strings"

// Chunking defaults tuned for embedding models with a few thousand token
// capacity.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunker splits text into overlapping pieces, preferring to break at
// paragraph boundaries, then line boundaries, then word boundaries, before
// falling back to a hard cut.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Non-positive size or overlap fall back to
// the defaults; overlap is clamped below size.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 5
	}
	return &Chunker{size: size, overlap: overlap}
}

var separators = []string{"\n\n", "\n", " "}

// Split breaks text into chunks of at most the configured size, measured in
// runes. Consecutive chunks overlap by roughly the configured overlap so
// context spanning a boundary stays retrievable.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			chunk := strings.TrimSpace(string(runes[start:]))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := c.cutPoint(runes[start:end])
		end = start + cut

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// cutPoint finds the best break position within a full-size window,
// preferring the latest separator occurrence in the second half of the
// window so chunks stay reasonably full.
func (c *Chunker) cutPoint(window []rune) int {
	s := string(window)
	half := len(s) / 2
	for _, sep := range separators {
		if idx := strings.LastIndex(s, sep); idx > half {
			// Count runes up to the separator, then include it.
			return len([]rune(s[:idx])) + len([]rune(sep))
		}
	}
	return len(window)
}
