package store

import (
	"context"

	"github.com/google/uuid"

	"canvasrag/types"
)

// Unavailable is the degraded backend used when no vector store is
// configured. Every write is a no-op and every query returns empty, so
// the system falls back to ungrounded generation instead of crashing.
// Not an error; callers log it at a diagnostic level only.
type Unavailable struct{}

func NewUnavailable() Unavailable {
	return Unavailable{}
}

func (Unavailable) Available() bool {
	return false
}

func (Unavailable) Upsert(ctx context.Context, chunks []types.EmbeddedChunk) error {
	return nil
}

func (Unavailable) Query(ctx context.Context, vector []float32, filters Filters, limit int) ([]types.ScoredChunk, error) {
	return nil, nil
}

func (Unavailable) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	return nil
}

func (Unavailable) DeleteByCanvas(ctx context.Context, canvasID uuid.UUID) error {
	return nil
}
