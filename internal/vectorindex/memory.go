// Package vectorindex provides Vector Index implementations.
package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"localbrain/internal/domain"
)

// MemoryIndex is an in-process vector index using brute-force cosine
// similarity. Points are keyed by id; upserting an existing id replaces
// it in place. Safe for concurrent use.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	byID      map[string]int
	points    []domain.Point
}

// NewMemoryIndex creates an empty in-memory index. The dimension is
// fixed by the first upserted vector.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{byID: make(map[string]int)}
}

// Upsert inserts or replaces points. All vectors must share the
// dimension established by the first write; a mismatch is a
// configuration error, never a silent degrade.
func (m *MemoryIndex) Upsert(_ context.Context, points []domain.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		if len(p.Vector) == 0 {
			return fmt.Errorf("point %q has an empty vector", p.ID)
		}
		if m.dimension == 0 {
			m.dimension = len(p.Vector)
		}
		if len(p.Vector) != m.dimension {
			return fmt.Errorf("%w: vector dimension %d does not match index dimension %d",
				domain.ErrInvalidConfiguration, len(p.Vector), m.dimension)
		}
	}
	for _, p := range points {
		if i, ok := m.byID[p.ID]; ok {
			m.points[i] = p
			continue
		}
		m.byID[p.ID] = len(m.points)
		m.points = append(m.points, p)
	}
	return nil
}

// Query returns up to k results ordered by ascending cosine distance.
// Ties keep insertion order. An empty index yields an empty result.
func (m *MemoryIndex) Query(_ context.Context, vector []float32, k int) ([]domain.RetrievalResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.points) == 0 {
		return nil, nil
	}
	if len(vector) != m.dimension {
		return nil, fmt.Errorf("%w: query vector dimension %d does not match index dimension %d",
			domain.ErrInvalidConfiguration, len(vector), m.dimension)
	}
	results := make([]domain.RetrievalResult, len(m.points))
	for i, p := range m.points {
		results[i] = domain.RetrievalResult{
			ChunkID:  p.ID,
			Text:     p.Text,
			Metadata: p.Metadata,
			Distance: 1 - cosineSimilarity(vector, p.Vector),
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Count reports the number of stored points.
func (m *MemoryIndex) Count(_ context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.points)), nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

var _ domain.VectorIndex = (*MemoryIndex)(nil)
