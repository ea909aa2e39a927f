package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "hash", cfg.Embedder.Type)
		assert.Equal(t, "memory", cfg.VectorIndex.Type)
		assert.Equal(t, 200, cfg.Ingest.ChunkSize)
		assert.Equal(t, 1, cfg.Answer.TopK)
		assert.Equal(t, 4000, cfg.Answer.MaxContextChars)
		assert.NotEmpty(t, cfg.Answer.FallbackText)
		assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr)
	})

	t.Run("partial file gets defaults applied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := []byte("embedder:\n  type: openai\n  openai:\n    model: nomic-embed-text\nanswer:\n  top_k: 5\n")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Embedder.Type)
		assert.Equal(t, "nomic-embed-text", cfg.Embedder.OpenAI.Model)
		assert.Equal(t, "http://localhost:11434/v1", cfg.Embedder.OpenAI.BaseURL)
		assert.Equal(t, 5, cfg.Answer.TopK)
		assert.Equal(t, "\n\n", cfg.Answer.Separator)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("embedder: [unclosed"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("save then load round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		cfg := defaultConfig()
		cfg.Answer.TopK = 7
		require.NoError(t, Save(path, cfg))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7, loaded.Answer.TopK)
	})
}
