package rag

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"canvasrag/chunker"
	"canvasrag/extract"
	"canvasrag/model"
	"canvasrag/store"
	"canvasrag/types"
)

const (
	DefaultLimit               = 5
	DefaultSimilarityThreshold = 0.7

	// Ceiling on the over-fetch issued to the vector store before
	// threshold filtering and per-document capping.
	maxFetchLimit = 50
)

// Pipeline composes extractor, chunker, embedder and vector store into
// the ingest (write) and retrieve (read) paths. It holds no mutable
// state between requests; the vector store is the only shared state
// and brings its own concurrency control.
type Pipeline struct {
	chunker  *chunker.Chunker
	embedder model.Embedder
	store    store.VectorStorer
	logger   *slog.Logger

	maxTokens     int
	overlapTokens int
}

func New(ch *chunker.Chunker, embedder model.Embedder, storer store.VectorStorer, maxTokens, overlapTokens int) *Pipeline {
	if maxTokens <= 0 {
		maxTokens = chunker.DefaultMaxTokens
	}
	if overlapTokens < 0 {
		overlapTokens = chunker.DefaultOverlapTokens
	}
	return &Pipeline{
		chunker:       ch,
		embedder:      embedder,
		store:         storer,
		logger:        slog.Default(),
		maxTokens:     maxTokens,
		overlapTokens: overlapTokens,
	}
}

// Ingest runs one file through extract → chunk → embed → upsert.
// Without a vector backend it is a no-op signalled by a zero result.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, filename, mimeType string, documentID uuid.UUID, canvasID uuid.NullUUID, fieldKey string) (types.IngestResult, error) {
	if !p.store.Available() {
		p.logger.Debug("vector backend not configured, skipping ingestion", "filename", filename)
		return types.IngestResult{}, nil
	}

	doc, err := extract.Extract(data, filename, mimeType)
	if err != nil {
		return types.IngestResult{}, err
	}

	chunks, err := p.chunker.Chunk(doc.Text, documentID, canvasID, chunker.Options{
		MaxTokens:     p.maxTokens,
		OverlapTokens: p.overlapTokens,
		Filename:      doc.Metadata.Filename,
		FieldKey:      fieldKey,
	})
	if err != nil {
		return types.IngestResult{}, err
	}
	if len(chunks) == 0 {
		p.logger.Info("document produced no chunks", "filename", filename)
		return types.IngestResult{}, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return types.IngestResult{}, err
	}

	embedded := make([]types.EmbeddedChunk, len(chunks))
	tokenTotal := 0
	for i, c := range chunks {
		embedded[i] = types.EmbeddedChunk{DocumentChunk: c, Embedding: vectors[i]}
		tokenTotal += c.TokenCount
	}

	if err := p.store.Upsert(ctx, embedded); err != nil {
		return types.IngestResult{}, err
	}

	p.logger.Info("document ingested",
		"filename", filename, "document_id", documentID,
		"chunks", len(chunks), "tokens", tokenTotal, "pages", doc.Metadata.PageCount)
	return types.IngestResult{ChunkCount: len(chunks), TokenTotal: tokenTotal}, nil
}

// RetrieveOptions narrow and shape one retrieval.
type RetrieveOptions struct {
	CanvasID            uuid.NullUUID
	DocumentIDs         []uuid.UUID
	FieldKey            string
	Limit               int
	SimilarityThreshold *float64
	ChunksPerDocument   int
}

// Retrieve embeds the query, searches the vector store with the
// composed filters and post-filters the candidates: similarity
// threshold first, then an optional per-document cap so one strong
// document cannot crowd out every other source.
func (p *Pipeline) Retrieve(ctx context.Context, query string, opts RetrieveOptions) (types.RAGResult, error) {
	result := types.RAGResult{Chunks: []types.RankedChunk{}}

	if !p.store.Available() {
		p.logger.Debug("vector backend not configured, returning empty retrieval")
		return result, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	threshold := DefaultSimilarityThreshold
	if opts.SimilarityThreshold != nil {
		threshold = *opts.SimilarityThreshold
	}

	vector, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return result, err
	}

	// Over-fetch when diversity capping is on, so enough candidates
	// survive the per-document truncation.
	fetchLimit := limit
	if opts.ChunksPerDocument > 0 {
		fetchLimit = limit * opts.ChunksPerDocument
		if fetchLimit > maxFetchLimit {
			fetchLimit = maxFetchLimit
		}
		if fetchLimit < limit {
			fetchLimit = limit
		}
	}

	candidates, err := p.store.Query(ctx, vector, store.Filters{
		FieldKey:    opts.FieldKey,
		DocumentIDs: opts.DocumentIDs,
		CanvasID:    opts.CanvasID,
	}, fetchLimit)
	if err != nil {
		return result, err
	}
	result.TotalChunks = len(candidates)

	perDocument := make(map[string]int)
	for _, c := range candidates {
		if c.Similarity < threshold {
			continue
		}
		if opts.ChunksPerDocument > 0 {
			if perDocument[c.Metadata.Filename] >= opts.ChunksPerDocument {
				continue
			}
			perDocument[c.Metadata.Filename]++
		}
		result.Chunks = append(result.Chunks, types.RankedChunk{
			Content:    c.Content,
			Similarity: c.Similarity,
			Metadata:   c.Metadata,
		})
		if len(result.Chunks) >= limit {
			break
		}
	}

	p.logger.Info("retrieval complete",
		"candidates", result.TotalChunks, "returned", len(result.Chunks), "threshold", threshold)
	return result, nil
}

// DeleteByDocument removes every chunk of one document. Used for
// cascading deletes owned by the document lifecycle elsewhere.
func (p *Pipeline) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	return p.store.DeleteByDocument(ctx, documentID)
}

// DeleteByCanvas removes every chunk scoped to one canvas.
func (p *Pipeline) DeleteByCanvas(ctx context.Context, canvasID uuid.UUID) error {
	return p.store.DeleteByCanvas(ctx, canvasID)
}
