package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localbrain/internal/domain"
)

func results(texts ...string) []domain.RetrievalResult {
	out := make([]domain.RetrievalResult, len(texts))
	for i, txt := range texts {
		out[i] = domain.RetrievalResult{ChunkID: domain.ChunkID("doc", i), Text: txt}
	}
	return out
}

func TestAssemble(t *testing.T) {
	t.Run("joins in input order", func(t *testing.T) {
		ctx, used := Assemble(results("first", "second", "third"), "\n\n", 1000)
		assert.Equal(t, "first\n\nsecond\n\nthird", ctx)
		require.Len(t, used, 3)
	})

	t.Run("empty results yield empty context", func(t *testing.T) {
		ctx, used := Assemble(nil, "\n\n", 100)
		assert.Empty(t, ctx)
		assert.Empty(t, used)
	})

	t.Run("drops trailing results over budget", func(t *testing.T) {
		// "aaaa" + sep + "bbbb" is 10 chars; adding "cccc" would be 16
		ctx, used := Assemble(results("aaaa", "bbbb", "cccc"), "--", 12)
		assert.Equal(t, "aaaa--bbbb", ctx)
		require.Len(t, used, 2)
		assert.Equal(t, "doc:0", used[0].ChunkID)
		assert.Equal(t, "doc:1", used[1].ChunkID)
	})

	t.Run("never exceeds the budget", func(t *testing.T) {
		for budget := 0; budget < 30; budget++ {
			ctx, _ := Assemble(results("aaaa", "bb", "cccccc"), "|", budget)
			assert.LessOrEqual(t, len(ctx), budget, "budget %d", budget)
		}
	})

	t.Run("never splits a chunk", func(t *testing.T) {
		ctx, used := Assemble(results("aaaaaaaaaa"), "|", 5)
		assert.Empty(t, ctx)
		assert.Empty(t, used)
	})

	t.Run("single result within budget", func(t *testing.T) {
		ctx, used := Assemble(results("exact"), "|", 5)
		assert.Equal(t, "exact", ctx)
		assert.Len(t, used, 1)
	})
}
