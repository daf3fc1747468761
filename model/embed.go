package model

import (
	"context"
	"fmt"
)

// Embedder converts text into fixed-length vectors. EmbedBatch
// preserves input order 1:1 with its output.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingProviderError marks the embedding backend as unreachable,
// rate-limited or misconfigured. Propagated as a retryable condition;
// retry policy belongs to the caller.
type EmbeddingProviderError struct {
	Message string
	Err     error
}

func (e *EmbeddingProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedding provider: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("embedding provider: %s", e.Message)
}

func (e *EmbeddingProviderError) Unwrap() error {
	return e.Err
}
