// Package embedding provides Embedding Gateway implementations.
package embedding

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"localbrain/internal/domain"
)

// OpenAIEmbedder embeds text through an OpenAI-compatible embeddings
// endpoint. Ollama exposes one at http://localhost:11434/v1, so the same
// client covers both hosted and local deployments.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string

	mu        sync.Mutex
	dimension int
}

// OpenAIConfig configures the remote embedder.
type OpenAIConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewOpenAIEmbedder creates a client for the configured endpoint. The
// API key is read from the environment; local OpenAI-compatible servers
// accept any non-empty key, so a missing variable falls back to a
// placeholder when a non-default base URL is set.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("%w: missing API key in env %s", domain.ErrInvalidConfiguration, cfg.APIKeyEnv)
		}
		key = "local"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	model := cfg.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Embed returns the embedding vector for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embeddings endpoint returned no vector for model %s", e.model)
	}
	vec := resp.Data[0].Embedding
	e.mu.Lock()
	if e.dimension == 0 {
		e.dimension = len(vec)
	}
	e.mu.Unlock()
	return vec, nil
}

// Dimension reports the vector dimensionality, 0 until the first
// successful Embed.
func (e *OpenAIEmbedder) Dimension() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimension
}

var _ domain.Embedder = (*OpenAIEmbedder)(nil)
