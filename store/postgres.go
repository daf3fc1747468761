package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"canvasrag/types"
)

// PostgresStore keeps embedded chunks in a pgvector-enabled table.
type PostgresStore struct {
	pool       *pgxpool.Pool
	dimensions int
}

func NewPostgresStore(ctx context.Context, connStr string, dimensions int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool:       pool,
		dimensions: dimensions,
	}, nil
}

func (p *PostgresStore) Available() bool {
	return true
}

// Upsert writes chunks keyed by id; re-upserting the same id replaces
// content, embedding and metadata in place, which makes re-embedding
// after a chunking-parameter change safe.
func (p *PostgresStore) Upsert(ctx context.Context, chunks []types.EmbeddedChunk) error {
	query := `
    INSERT INTO canvas_chunks (id, document_id, canvas_id, field_key, chunk_index, content, token_count, filename, total_chunks, embedding)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    ON CONFLICT (id) DO UPDATE SET
        document_id = EXCLUDED.document_id,
        canvas_id = EXCLUDED.canvas_id,
        field_key = EXCLUDED.field_key,
        chunk_index = EXCLUDED.chunk_index,
        content = EXCLUDED.content,
        token_count = EXCLUDED.token_count,
        filename = EXCLUDED.filename,
        total_chunks = EXCLUDED.total_chunks,
        embedding = EXCLUDED.embedding
    `
	for _, c := range chunks {
		_, err := p.pool.Exec(ctx, query,
			c.ID, c.DocumentID, c.CanvasID, c.FieldKey, c.ChunkIndex,
			c.Content, c.TokenCount, c.Metadata.Filename, c.Metadata.TotalChunks,
			pgvector.NewVector(c.Embedding),
		)
		if err != nil {
			return fmt.Errorf("upsert chunk %s: %w", c.ID, err)
		}
	}
	return nil
}

// Query returns up to limit chunks ordered by descending cosine
// similarity (1 - cosine distance), narrowed by the composed filters.
func (p *PostgresStore) Query(ctx context.Context, vector []float32, filters Filters, limit int) ([]types.ScoredChunk, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}

	conds := []string{"embedding IS NOT NULL"}
	args := []any{pgvector.NewVector(vector)}

	if filters.FieldKey != "" {
		args = append(args, filters.FieldKey)
		conds = append(conds, fmt.Sprintf("(field_key IS NULL OR field_key = $%d)", len(args)))
	}
	if len(filters.DocumentIDs) > 0 {
		args = append(args, filters.DocumentIDs)
		conds = append(conds, fmt.Sprintf("(canvas_id IS NULL OR document_id = ANY($%d))", len(args)))
	} else if filters.CanvasID.Valid {
		args = append(args, filters.CanvasID.UUID)
		conds = append(conds, fmt.Sprintf("(canvas_id IS NULL OR canvas_id = $%d)", len(args)))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, document_id, canvas_id, field_key, chunk_index, content, token_count, filename, total_chunks,
		       1 - (embedding <=> $1) AS similarity
		FROM canvas_chunks
		WHERE %s
		ORDER BY embedding <=> $1
		LIMIT $%d
	`, strings.Join(conds, " AND "), len(args))

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []types.ScoredChunk
	for rows.Next() {
		var chunk types.ScoredChunk
		if err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.CanvasID,
			&chunk.FieldKey,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.TokenCount,
			&chunk.Metadata.Filename,
			&chunk.Metadata.TotalChunks,
			&chunk.Similarity,
		); err != nil {
			return nil, err
		}
		chunk.Metadata.ChunkIndex = chunk.ChunkIndex
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (p *PostgresStore) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM canvas_chunks WHERE document_id = $1", documentID)
	return err
}

func (p *PostgresStore) DeleteByCanvas(ctx context.Context, canvasID uuid.UUID) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM canvas_chunks WHERE canvas_id = $1", canvasID)
	return err
}

func (p *PostgresStore) createChunkTables(ctx context.Context) error {
	query := fmt.Sprintf(`
    CREATE EXTENSION IF NOT EXISTS vector;

    CREATE TABLE IF NOT EXISTS canvas_chunks (
        id UUID PRIMARY KEY,
        document_id UUID NOT NULL,
        canvas_id UUID,
        field_key TEXT,
        chunk_index INT NOT NULL,
        content TEXT NOT NULL,
        token_count INT NOT NULL,
        filename TEXT NOT NULL DEFAULT '',
        total_chunks INT NOT NULL DEFAULT 0,
        embedding vector(%d)
    );

	CREATE INDEX IF NOT EXISTS idx_canvas_chunks_embedding ON canvas_chunks USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_canvas_chunks_document_id ON canvas_chunks(document_id);
	CREATE INDEX IF NOT EXISTS idx_canvas_chunks_canvas_id ON canvas_chunks(canvas_id);
	CREATE INDEX IF NOT EXISTS idx_canvas_chunks_field_key ON canvas_chunks(field_key);
    `, p.dimensions)
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) Init(ctx context.Context) error {
	return p.createChunkTables(ctx)
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
