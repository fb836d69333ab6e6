package ingest

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	c := NewChunker(1000, 200)

	chunks := c.Split("a short document")
	if len(chunks) != 1 || chunks[0] != "a short document" {
		t.Errorf("chunks = %v", chunks)
	}

	if got := c.Split(""); got != nil {
		t.Errorf("empty input should yield no chunks, got %v", got)
	}
}

func TestSplitRespectsSize(t *testing.T) {
	c := NewChunker(100, 20)

	text := strings.Repeat("word ", 200)
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 100 {
			t.Errorf("chunk %d has %d runes, want <= 100", i, n)
		}
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	c := NewChunker(100, 10)

	para1 := strings.Repeat("a", 70)
	para2 := strings.Repeat("b", 70)
	chunks := c.Split(para1 + "\n\n" + para2)

	if len(chunks) < 2 {
		t.Fatalf("expected split at paragraph boundary, got %d chunks", len(chunks))
	}
	if !strings.HasPrefix(chunks[0], "a") || strings.Contains(chunks[0], "b") {
		t.Errorf("first chunk crosses the paragraph boundary: %q", chunks[0])
	}
}

func TestSplitOverlap(t *testing.T) {
	c := NewChunker(50, 10)

	text := strings.Repeat("x", 45) + " " + strings.Repeat("y", 45)
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected overlap to produce multiple chunks, got %d", len(chunks))
	}

	// Every part of the input must appear in some chunk.
	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, strings.Repeat("x", 45)) || !strings.Contains(joined, strings.Repeat("y", 45)) {
		t.Error("content lost across chunk boundaries")
	}
}

func TestNewChunkerDefaults(t *testing.T) {
	c := NewChunker(0, -1)
	if c.size != DefaultChunkSize || c.overlap != DefaultChunkOverlap {
		t.Errorf("defaults not applied: size=%d overlap=%d", c.size, c.overlap)
	}

	clamped := NewChunker(10, 50)
	if clamped.overlap >= clamped.size {
		t.Errorf("overlap %d should be clamped below size %d", clamped.overlap, clamped.size)
	}
}
