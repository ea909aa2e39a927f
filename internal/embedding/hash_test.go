package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder(t *testing.T) {
	ctx := context.Background()

	t.Run("fixed dimension", func(t *testing.T) {
		e := NewHashEmbedder(64)
		assert.Equal(t, 64, e.Dimension())
		vec, err := e.Embed(ctx, "the quick brown fox")
		require.NoError(t, err)
		assert.Len(t, vec, 64)
	})

	t.Run("deterministic", func(t *testing.T) {
		e := NewHashEmbedder(128)
		a, err := e.Embed(ctx, "vector embeddings for retrieval")
		require.NoError(t, err)
		b, err := e.Embed(ctx, "vector embeddings for retrieval")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("normalized", func(t *testing.T) {
		e := NewHashEmbedder(128)
		vec, err := e.Embed(ctx, "some words to hash into buckets")
		require.NoError(t, err)
		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, norm, 1e-5)
	})

	t.Run("empty text yields zero vector", func(t *testing.T) {
		e := NewHashEmbedder(32)
		vec, err := e.Embed(ctx, "")
		require.NoError(t, err)
		for _, v := range vec {
			assert.Zero(t, v)
		}
	})

	t.Run("defaults dimension when not positive", func(t *testing.T) {
		e := NewHashEmbedder(0)
		assert.Equal(t, defaultHashDimension, e.Dimension())
	})
}
