package store

import (
	"context"

	"github.com/google/uuid"

	"canvasrag/types"
)

// Filters narrow a similarity query. All set filters compose with AND:
//
//   - FieldKey matches chunks tagged with the value or left unscoped.
//   - DocumentIDs matches chunks from the listed documents plus
//     anything globally visible (canvas id unset).
//   - CanvasID applies only when DocumentIDs is empty and matches the
//     canvas or anything globally visible.
type Filters struct {
	FieldKey    string
	DocumentIDs []uuid.UUID
	CanvasID    uuid.NullUUID
}

// VectorStorer is the persistence boundary of the pipeline. Upsert is
// idempotent by chunk id; deletes must not error when nothing matches.
type VectorStorer interface {
	// Available reports whether a vector backend is configured. When
	// false every write is a no-op and every query returns empty.
	Available() bool
	Upsert(ctx context.Context, chunks []types.EmbeddedChunk) error
	Query(ctx context.Context, vector []float32, filters Filters, limit int) ([]types.ScoredChunk, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
	DeleteByCanvas(ctx context.Context, canvasID uuid.UUID) error
}
