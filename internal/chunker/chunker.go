// Package chunker splits extracted document text into overlapping,
// sentence-aligned chunks for keyword retrieval.
package chunker

import "strings"

// Config controls chunking behavior.
type Config struct {
	ChunkSize int // Target chunk size in characters.
	Overlap   int // Characters shared between consecutive chunks.
}

// DefaultConfig returns the sizes the retrieval layer is tuned for.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 1000,
		Overlap:   200,
	}
}

// boundaryWindow is how far back from the chunk end we look for a
// sentence terminator before giving up and cutting hard.
const boundaryWindow = 100

// Split breaks text into chunks of at most ChunkSize characters, overlapping
// by Overlap characters. Chunk ends are pulled back to the last sentence
// terminator (. ! ? or newline) found within the trailing window, so a cut
// rarely lands mid-sentence. Emitted chunks are whitespace-trimmed; the
// overlap guarantees no boundary word is lost between neighbors.
func Split(text string, cfg Config) []string {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.ChunkSize {
		cfg.Overlap = 200
	}

	if len(text) <= cfg.ChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + cfg.ChunkSize

		if end < len(text) {
			// Scan backward for a sentence terminator, but never past the
			// midpoint of the chunk or further back than the window.
			stop := start + cfg.ChunkSize/2
			if w := end - boundaryWindow; w > stop {
				stop = w
			}
			for i := end; i > stop; i-- {
				if isBoundary(text[i]) {
					end = i + 1
					break
				}
			}
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(text) {
			// The last chunk already covers the tail; a further window would
			// only re-emit overlap.
			break
		}

		next := end - cfg.Overlap
		if next <= start {
			// Degenerate configs (overlap near half the chunk size) could
			// otherwise stall; advance past the emitted chunk instead.
			next = end
		}
		start = next
	}

	return chunks
}

func isBoundary(b byte) bool {
	switch b {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}
