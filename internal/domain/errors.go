package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline. Callers match them with errors.Is;
// the pipeline performs no hidden retries on any of them.
var (
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrEmptyDocument         = errors.New("empty document")
	ErrRetrievalUnavailable  = errors.New("retrieval unavailable")
	ErrGenerationUnavailable = errors.New("generation unavailable")
	ErrIngestionFailed       = errors.New("ingestion failed")
)

// IngestionError reports a failure during the embed/upsert loop,
// including how many chunks were embedded before the failure point.
type IngestionError struct {
	Source         string
	ChunksEmbedded int
	Err            error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed for %q after %d embedded chunks: %v", e.Source, e.ChunksEmbedded, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Is makes IngestionError match ErrIngestionFailed.
func (e *IngestionError) Is(target error) bool { return target == ErrIngestionFailed }
