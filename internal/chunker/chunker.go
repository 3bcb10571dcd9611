// Package chunker splits a corpus string into overlapping fixed-size chunks
// for embedding and retrieval.
package chunker

import "strings"

const (
	DefaultChunkSize    = 1000 // characters
	DefaultChunkOverlap = 200  // characters shared between neighbors
)

type Chunker struct {
	size    int
	overlap int
}

// New returns a chunker producing chunks of at most size characters where
// consecutive chunks share exactly overlap characters. Out-of-range values
// fall back to the defaults.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 2
		}
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split breaks text into ordered chunks. Cut points prefer the last newline
// inside the window; a separator-free run longer than the chunk size forces
// a character cut so no text is ever dropped. Each chunk after the first
// begins with the final overlap characters of its predecessor, so the
// original text can be reconstructed by stripping that prefix from every
// chunk but the first. Empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= c.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		// Cutting at a newline inside the overlap region would stall the
		// scan, so only newlines past it count.
		if i := strings.LastIndexByte(text[start:end], '\n'); i > c.overlap {
			end = start + i + 1
		}
		chunks = append(chunks, text[start:end])
		start = end - c.overlap
	}
	return chunks
}

// Size reports the maximum chunk length.
func (c *Chunker) Size() int { return c.size }

// Overlap reports the number of characters consecutive chunks share.
func (c *Chunker) Overlap() int { return c.overlap }
