package vectorindex

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localbrain/internal/domain"
)

func TestMemoryIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("empty index query", func(t *testing.T) {
		idx := NewMemoryIndex()
		results, err := idx.Query(ctx, []float32{1, 0}, 3)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("ascending distance order", func(t *testing.T) {
		idx := NewMemoryIndex()
		err := idx.Upsert(ctx, []domain.Point{
			{ID: "far", Vector: []float32{0, 1}, Text: "far away"},
			{ID: "near", Vector: []float32{1, 0.1}, Text: "close by"},
			{ID: "exact", Vector: []float32{1, 0}, Text: "spot on"},
		})
		require.NoError(t, err)

		results, err := idx.Query(ctx, []float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "exact", results[0].ChunkID)
		assert.Equal(t, "near", results[1].ChunkID)
		assert.Equal(t, "far", results[2].ChunkID)
		assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
		assert.LessOrEqual(t, results[1].Distance, results[2].Distance)
	})

	t.Run("k caps the result count", func(t *testing.T) {
		idx := NewMemoryIndex()
		require.NoError(t, idx.Upsert(ctx, []domain.Point{
			{ID: "a", Vector: []float32{1, 0}},
			{ID: "b", Vector: []float32{0, 1}},
			{ID: "c", Vector: []float32{1, 1}},
		}))
		results, err := idx.Query(ctx, []float32{1, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("upsert replaces by id", func(t *testing.T) {
		idx := NewMemoryIndex()
		require.NoError(t, idx.Upsert(ctx, []domain.Point{{ID: "doc:0", Vector: []float32{1, 0}, Text: "old"}}))
		require.NoError(t, idx.Upsert(ctx, []domain.Point{{ID: "doc:0", Vector: []float32{1, 0}, Text: "new"}}))

		count, err := idx.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), count)

		results, err := idx.Query(ctx, []float32{1, 0}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "new", results[0].Text)
	})

	t.Run("dimension mismatch on upsert", func(t *testing.T) {
		idx := NewMemoryIndex()
		require.NoError(t, idx.Upsert(ctx, []domain.Point{{ID: "a", Vector: []float32{1, 0, 0}}}))
		err := idx.Upsert(ctx, []domain.Point{{ID: "b", Vector: []float32{1, 0}}})
		assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
	})

	t.Run("dimension mismatch on query", func(t *testing.T) {
		idx := NewMemoryIndex()
		require.NoError(t, idx.Upsert(ctx, []domain.Point{{ID: "a", Vector: []float32{1, 0, 0}}}))
		_, err := idx.Query(ctx, []float32{1, 0}, 1)
		assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
	})

	t.Run("ties keep insertion order", func(t *testing.T) {
		idx := NewMemoryIndex()
		require.NoError(t, idx.Upsert(ctx, []domain.Point{
			{ID: "first", Vector: []float32{1, 0}},
			{ID: "second", Vector: []float32{1, 0}},
		}))
		results, err := idx.Query(ctx, []float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "first", results[0].ChunkID)
		assert.Equal(t, "second", results[1].ChunkID)
	})
}

func TestPointUUID(t *testing.T) {
	// Same chunk id must always map to the same point id so Qdrant
	// writes are idempotent.
	assert.Equal(t, pointUUID("notes.txt:0"), pointUUID("notes.txt:0"))
	assert.NotEqual(t, pointUUID("notes.txt:0"), pointUUID("notes.txt:1"))
}
