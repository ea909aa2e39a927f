// Package app builds and owns the process-wide collaborator handles.
// Heavy clients (embedding gateway, vector index, generation gateway)
// are constructed once, shared read-only across requests and torn down
// on shutdown.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/kataras/golog"

	"localbrain/internal/config"
	"localbrain/internal/domain"
	"localbrain/internal/embedding"
	"localbrain/internal/generation"
	"localbrain/internal/retriever"
	"localbrain/internal/service"
	"localbrain/internal/vectorindex"
)

// App holds the assembled pipeline and its external collaborators.
type App struct {
	Config    *config.AppConfig
	Log       *golog.Logger
	Embedder  domain.Embedder
	Index     domain.VectorIndex
	Generator domain.Generator
	Service   *service.Service

	closers []io.Closer
}

var (
	once      sync.Once
	shared    *App
	sharedErr error
)

// Shared returns the process-wide App, building it on first call.
func Shared(ctx context.Context, cfg *config.AppConfig, log *golog.Logger) (*App, error) {
	once.Do(func() {
		shared, sharedErr = New(ctx, cfg, log)
	})
	return shared, sharedErr
}

// New assembles an App from the given configuration.
func New(ctx context.Context, cfg *config.AppConfig, log *golog.Logger) (*App, error) {
	if log == nil {
		log = golog.New()
	}
	a := &App{Config: cfg, Log: log}

	switch cfg.Embedder.Type {
	case "hash", "":
		a.Embedder = embedding.NewHashEmbedder(cfg.Embedder.Hash.Dimension)
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("%w: openai embedder selected but not configured", domain.ErrInvalidConfiguration)
		}
		emb, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("build embedder: %w", err)
		}
		a.Embedder = emb
	default:
		return nil, fmt.Errorf("%w: unknown embedder type %q", domain.ErrInvalidConfiguration, cfg.Embedder.Type)
	}

	switch cfg.VectorIndex.Type {
	case "memory", "":
		a.Index = vectorindex.NewMemoryIndex()
	case "qdrant":
		if cfg.VectorIndex.Qdrant == nil {
			return nil, fmt.Errorf("%w: qdrant index selected but not configured", domain.ErrInvalidConfiguration)
		}
		q := cfg.VectorIndex.Qdrant
		dimension := q.Dimension
		if dimension == 0 {
			dimension = a.Embedder.Dimension()
		}
		idx, err := vectorindex.NewQdrantIndex(ctx, vectorindex.QdrantConfig{
			Host:       q.Host,
			Port:       q.Port,
			Collection: q.Collection,
			Dimension:  dimension,
			Timeout:    time.Duration(q.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("build vector index: %w", err)
		}
		a.Index = idx
		a.closers = append(a.closers, idx)
	default:
		return nil, fmt.Errorf("%w: unknown vector index type %q", domain.ErrInvalidConfiguration, cfg.VectorIndex.Type)
	}

	if cfg.Generator.OpenAI == nil {
		return nil, fmt.Errorf("%w: generator not configured", domain.ErrInvalidConfiguration)
	}
	gen, err := generation.NewOpenAIGenerator(generation.OpenAIConfig{
		BaseURL:     cfg.Generator.OpenAI.BaseURL,
		APIKeyEnv:   cfg.Generator.OpenAI.APIKeyEnv,
		Model:       cfg.Generator.OpenAI.Model,
		Temperature: cfg.Generator.OpenAI.Temperature,
		Timeout:     time.Duration(cfg.Generator.OpenAI.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("build generator: %w", err)
	}
	a.Generator = gen

	ret := retriever.New(a.Embedder, a.Index)
	ret.MaxDistance = cfg.Answer.MaxDistance
	a.Service = service.New(a.Embedder, a.Index, a.Generator, ret, service.Options{
		TopK:                 cfg.Answer.TopK,
		MaxContextChars:      cfg.Answer.MaxContextChars,
		Separator:            cfg.Answer.Separator,
		AnswerWithoutContext: cfg.Answer.AnswerWithoutContext,
		FallbackText:         cfg.Answer.FallbackText,
	}, log)
	return a, nil
}

// Close tears down the collaborators that hold connections.
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
