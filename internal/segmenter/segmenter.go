// Package segmenter splits documents into fixed-size character chunks.
//
// Splitting is deterministic and has no semantic awareness; a
// sentence-aware segmenter is a possible future upgrade, not a current
// requirement.
package segmenter

import (
	"fmt"
	"time"

	"localbrain/internal/domain"
)

// Segment splits the document content into contiguous, non-overlapping
// chunks of at most chunkSize characters (runes). The last chunk may be
// shorter. Concatenating the chunk texts in order reproduces the input
// exactly. Empty content yields no chunks and no error.
func Segment(doc domain.Document, chunkSize int, createdAt time.Time) ([]domain.Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfiguration, chunkSize)
	}
	runes := []rune(doc.Content)
	if len(runes) == 0 {
		return nil, nil
	}
	chunks := make([]domain.Chunk, 0, (len(runes)+chunkSize-1)/chunkSize)
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		text := string(runes[i:end])
		idx := i / chunkSize
		chunks = append(chunks, domain.Chunk{
			ID:        domain.ChunkID(doc.Source, idx),
			Source:    doc.Source,
			Index:     idx,
			Text:      text,
			CharCount: end - i,
			CreatedAt: createdAt,
		})
	}
	return chunks, nil
}
