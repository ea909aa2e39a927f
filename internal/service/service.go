// Package service wires the pipeline stages into the two end-to-end
// operations: document ingestion and question answering.
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kataras/golog"

	"localbrain/internal/assembler"
	"localbrain/internal/domain"
	"localbrain/internal/retriever"
	"localbrain/internal/segmenter"
)

// The prompt forces the model to answer from the supplied context only
// and to admit ignorance instead of fabricating.
const promptTemplate = `You are a secure, locally-hosted assistant.
Answer the user's question based ONLY on the following context.
If you do not know the answer based on the context, say %q.
Do not make things up.

Context:
%s

Question: %s

Answer:`

// Options are the tunable answer-path policies.
type Options struct {
	TopK            int
	MaxContextChars int
	Separator       string
	// AnswerWithoutContext invokes the generator even when retrieval
	// produced no usable context, letting the model phrase the refusal.
	// When false the FallbackText is returned directly.
	AnswerWithoutContext bool
	FallbackText         string
}

// Answer is a generated reply plus the provenance of its context.
type Answer struct {
	Text         string
	UsedChunkIDs []string
}

// IngestReport summarizes a completed ingestion.
type IngestReport struct {
	Source            string
	ChunksWritten     int
	FirstChunkPreview string
}

// Service is the application core behind every surface.
type Service struct {
	retriever *retriever.Retriever
	embedder  domain.Embedder
	index     domain.VectorIndex
	generator domain.Generator
	opts      Options
	log       *golog.Logger
	now       func() time.Time
}

// New assembles the service from its collaborators.
func New(embedder domain.Embedder, index domain.VectorIndex, generator domain.Generator, ret *retriever.Retriever, opts Options, log *golog.Logger) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 1
	}
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = 4000
	}
	if opts.Separator == "" {
		opts.Separator = assembler.DefaultSeparator
	}
	if opts.FallbackText == "" {
		opts.FallbackText = "I don't have that information in my local memory."
	}
	if log == nil {
		log = golog.New()
	}
	return &Service{
		retriever: ret,
		embedder:  embedder,
		index:     index,
		generator: generator,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

// Ingest segments a document, embeds every chunk in order and upserts
// all of them as one batch. Either every chunk for the source becomes
// queryable or none do: embedding happens fully before the single
// index write, and a failure anywhere reports how many chunks had been
// embedded by then.
func (s *Service) Ingest(ctx context.Context, source, rawText string, chunkSize int) (IngestReport, error) {
	if rawText == "" {
		return IngestReport{}, fmt.Errorf("%w: source %q", domain.ErrEmptyDocument, source)
	}
	createdAt := s.now().UTC()
	chunks, err := segmenter.Segment(domain.Document{Source: source, Content: rawText}, chunkSize, createdAt)
	if err != nil {
		return IngestReport{}, err
	}
	s.log.Debugf("segmented %q into %d chunks of up to %d chars", source, len(chunks), chunkSize)

	points := make([]domain.Point, len(chunks))
	for i, ch := range chunks {
		vec, err := s.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return IngestReport{}, &domain.IngestionError{Source: source, ChunksEmbedded: i, Err: fmt.Errorf("embed chunk %d: %w", i, err)}
		}
		points[i] = domain.Point{
			ID:     ch.ID,
			Vector: vec,
			Metadata: map[string]string{
				"source":     ch.Source,
				"sequence":   strconv.Itoa(ch.Index),
				"char_count": strconv.Itoa(ch.CharCount),
				"created_at": ch.CreatedAt.Format(time.RFC3339),
			},
			Text: ch.Text,
		}
	}
	if err := s.index.Upsert(ctx, points); err != nil {
		return IngestReport{}, &domain.IngestionError{Source: source, ChunksEmbedded: len(chunks), Err: fmt.Errorf("upsert: %w", err)}
	}
	s.log.Infof("ingested %q: %d chunks written", source, len(chunks))
	return IngestReport{
		Source:            source,
		ChunksWritten:     len(chunks),
		FirstChunkPreview: chunks[0].Text,
	}, nil
}

// Ask retrieves context for the question, assembles a bounded context
// block and invokes the generator once. The answer carries the ids of
// the chunks that actually made it into the context.
func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	results, err := s.retriever.Retrieve(ctx, question, s.opts.TopK)
	if err != nil {
		return Answer{}, err
	}
	contextBlock, used := assembler.Assemble(results, s.opts.Separator, s.opts.MaxContextChars)
	usedIDs := make([]string, len(used))
	for i, res := range used {
		usedIDs[i] = res.ChunkID
	}
	if contextBlock == "" && !s.opts.AnswerWithoutContext {
		s.log.Debugf("no context for question, returning fallback text")
		return Answer{Text: s.opts.FallbackText}, nil
	}

	prompt := fmt.Sprintf(promptTemplate, s.opts.FallbackText, contextBlock, question)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	s.log.Debugf("answered with %d context chunks", len(usedIDs))
	return Answer{Text: text, UsedChunkIDs: usedIDs}, nil
}

// Count reports how many points the index currently stores.
func (s *Service) Count(ctx context.Context) (uint64, error) {
	return s.index.Count(ctx)
}
