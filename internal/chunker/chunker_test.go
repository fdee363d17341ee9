package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	text := "This fits in one chunk."
	chunks := Split(text, DefaultConfig())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected text unchanged, got %q", chunks[0])
	}
}

func TestSplit_ExactBoundaryLength(t *testing.T) {
	text := strings.Repeat("a", 1000)
	chunks := Split(text, DefaultConfig())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for text of exactly ChunkSize, got %d", len(chunks))
	}
}

func TestSplit_NoPunctuationHardCuts(t *testing.T) {
	// 2500 chars with no sentence terminators: hard cuts at the size
	// boundary, 200-char overlap between neighbors.
	text := strings.Repeat("abcde", 500)
	chunks := Split(text, DefaultConfig())

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 1000 {
		t.Errorf("chunk 0: expected 1000 chars, got %d", len(chunks[0]))
	}
	if len(chunks[1]) != 1000 {
		t.Errorf("chunk 1: expected 1000 chars, got %d", len(chunks[1]))
	}
	if len(chunks[2]) != 900 {
		t.Errorf("chunk 2: expected 900 chars, got %d", len(chunks[2]))
	}

	// Adjacent chunks share the 200-char seam.
	if chunks[0][800:] != chunks[1][:200] {
		t.Error("chunks 0 and 1 do not overlap by 200 chars")
	}
	if chunks[1][800:] != chunks[2][:200] {
		t.Error("chunks 1 and 2 do not overlap by 200 chars")
	}
}

func TestSplit_SentenceAlignment(t *testing.T) {
	// Sentences ~100 chars each; every cut should land just past a period.
	sentence := strings.Repeat("word ", 19) + "end."
	text := strings.Repeat(sentence, 30)
	chunks := Split(text, DefaultConfig())

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c, ".") {
			t.Errorf("chunk %d does not end at a sentence boundary: %q", i, c[len(c)-20:])
		}
	}
}

func TestSplit_SizeBound(t *testing.T) {
	// No chunk may exceed ChunkSize; boundary search only moves ends backward.
	text := strings.Repeat("Lorem ipsum dolor sit amet. ", 200)
	chunks := Split(text, DefaultConfig())

	for i, c := range chunks {
		if len(c) > 1000 {
			t.Errorf("chunk %d: %d chars exceeds chunk size", i, len(c))
		}
	}
}

func TestSplit_Coverage(t *testing.T) {
	// Every position of the source text lands in some chunk: locating each
	// chunk in the source shows no gaps between neighbors and full reach to
	// the end. Unique sentences so each chunk matches at exactly one offset.
	var sb strings.Builder
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&sb, "This is unique sentence number %04d in the corpus. ", i)
	}
	text := strings.TrimSpace(sb.String())
	chunks := Split(text, DefaultConfig())

	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	offsets := make([]int, len(chunks))
	for i, c := range chunks {
		idx := strings.Index(text, c)
		if idx < 0 {
			t.Fatalf("chunk %d not found in source text", i)
		}
		offsets[i] = idx
	}

	if offsets[0] != 0 {
		t.Errorf("first chunk starts at %d, expected 0", offsets[0])
	}
	for i := 1; i < len(chunks); i++ {
		prevEnd := offsets[i-1] + len(chunks[i-1])
		if offsets[i] > prevEnd {
			t.Errorf("gap between chunk %d (ends %d) and chunk %d (starts %d)", i-1, prevEnd, i, offsets[i])
		}
	}
	if last := offsets[len(offsets)-1] + len(chunks[len(chunks)-1]); last != len(text) {
		t.Errorf("chunks end at %d, text has %d chars", last, len(text))
	}
}

func TestSplit_EmptyAndWhitespace(t *testing.T) {
	chunks := Split("", DefaultConfig())
	if len(chunks) != 1 || chunks[0] != "" {
		t.Errorf("empty input: expected single empty chunk, got %v", chunks)
	}

	// Whitespace-only windows are dropped after trimming.
	text := strings.Repeat("x", 1000) + strings.Repeat(" ", 150)
	chunks = Split(text, DefaultConfig())
	for i, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestSplit_ZeroConfigDefaults(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := Split(text, Config{})
	if len(chunks) != 3 {
		t.Errorf("zero config should fall back to defaults, got %d chunks", len(chunks))
	}
}
