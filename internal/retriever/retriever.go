// Package retriever matches a question against stored chunks.
package retriever

import (
	"context"
	"fmt"

	"localbrain/internal/domain"
)

// Retriever embeds a query and runs a top-k nearest-neighbour search
// against the vector index. It never mutates stored data and performs
// no retries; unreachable collaborators surface as
// domain.ErrRetrievalUnavailable.
type Retriever struct {
	embedder domain.Embedder
	index    domain.VectorIndex

	// MaxDistance drops results farther than this distance when > 0.
	// The distance scale belongs to the index, so the threshold is a
	// deployment policy, disabled by default.
	MaxDistance float64
}

// New creates a retriever over the given embedder and index.
func New(embedder domain.Embedder, index domain.VectorIndex) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Retrieve returns at most k results ordered by ascending distance, the
// order the index produced them in. An empty index yields an empty
// result and no error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidConfiguration, k)
	}
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrRetrievalUnavailable, err)
	}
	results, err := r.index.Query(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("%w: index query: %v", domain.ErrRetrievalUnavailable, err)
	}
	if r.MaxDistance > 0 {
		kept := results[:0]
		for _, res := range results {
			if res.Distance <= r.MaxDistance {
				kept = append(kept, res)
			}
		}
		results = kept
	}
	return results, nil
}
