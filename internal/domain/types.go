package domain

import (
	"context"
	"strconv"
	"time"
)

// Document is a raw text payload together with its source identifier,
// typically a filename. Documents are immutable once loaded.
type Document struct {
	Source  string
	Content string
}

// Chunk is a bounded slice of a document's text, the unit of storage
// and retrieval. Index is unique per source and starts at 0.
type Chunk struct {
	ID        string
	Source    string
	Index     int
	Text      string
	CharCount int
	CreatedAt time.Time
}

// ChunkID builds the stable identifier for a chunk of the given source.
// Re-ingesting a source produces the same ids, which makes index writes
// idempotent upserts.
func ChunkID(source string, index int) string {
	return source + ":" + strconv.Itoa(index)
}

// Point is the tuple handed to a VectorIndex at upsert time.
type Point struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
	Text     string
}

// RetrievalResult is a matching chunk returned by a VectorIndex query.
// Distance is index-defined; lower means more similar. The pipeline
// relies on ordering only, never on absolute magnitude.
type RetrievalResult struct {
	ChunkID  string
	Text     string
	Metadata map[string]string
	Distance float64
}

// Turn is a single chat exchange entry. Turns live in session-scoped
// history only and are never persisted.
type Turn struct {
	Role    string
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Embedder converts free text into a fixed-dimension numeric vector.
// Dimension reports 0 until the first successful Embed for remote
// gateways that learn it lazily.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// VectorIndex stores points and supports k-nearest-neighbour search.
// Implementations define the distance scale and their own concurrency
// guarantees; last-write-wins on id collision is acceptable.
type VectorIndex interface {
	Upsert(ctx context.Context, points []Point) error
	Query(ctx context.Context, vector []float32, k int) ([]RetrievalResult, error)
	Count(ctx context.Context) (uint64, error)
}

// Generator produces text from a prompt in a single shot.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
