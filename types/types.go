package types

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ExtractedDocument is the result of text extraction for one uploaded file.
// It is consumed by the chunker right away and never persisted itself.
type ExtractedDocument struct {
	Text     string
	Metadata ExtractedMetadata
}

type ExtractedMetadata struct {
	Filename    string
	MimeType    string
	PageCount   int // 0 when the format has no page concept
	ExtractedAt time.Time
}

// ChunkMetadata travels with every chunk into the vector store and back
// out in retrieval results. TotalChunks is back-filled once the full
// chunk sequence for a document is known.
type ChunkMetadata struct {
	Filename    string `json:"filename"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
}

// DocumentChunk is the atomic retrievable unit.
type DocumentChunk struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	CanvasID   uuid.NullUUID  // invalid = globally visible, not scoped to one canvas
	FieldKey   sql.NullString // invalid = visible to all field queries
	ChunkIndex int
	Content    string
	TokenCount int
	Metadata   ChunkMetadata
}

// EmbeddedChunk pairs a chunk with its vector. Vector length is fixed
// by the embedding model; mixing models without re-embedding breaks
// similarity comparability.
type EmbeddedChunk struct {
	DocumentChunk
	Embedding []float32
}

// ScoredChunk is a chunk as returned by a vector store query.
type ScoredChunk struct {
	DocumentChunk
	Similarity float64
}

// RankedChunk is one entry of a retrieval response.
type RankedChunk struct {
	Content    string        `json:"content"`
	Similarity float64       `json:"similarity"`
	Metadata   ChunkMetadata `json:"metadata"`
}

// RAGResult is produced fresh per query. TotalChunks counts candidates
// considered before threshold filtering.
type RAGResult struct {
	Chunks      []RankedChunk `json:"chunks"`
	TotalChunks int           `json:"total_chunks"`
}

// IngestResult reports what one successful ingestion wrote.
type IngestResult struct {
	ChunkCount int `json:"chunk_count"`
	TokenTotal int `json:"token_total"`
}

// UploadValidation is the structured outcome of the upload boundary
// check. It is returned, never thrown, so callers can surface a
// user-facing message.
type UploadValidation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func NullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
