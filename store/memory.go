package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"canvasrag/types"
)

// MemoryStore is a brute-force cosine-similarity store. It backs tests
// and runs without Postgres while keeping full query semantics, unlike
// the degraded no-op backend.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[uuid.UUID]types.EmbeddedChunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[uuid.UUID]types.EmbeddedChunk)}
}

func (m *MemoryStore) Available() bool {
	return true
}

func (m *MemoryStore) Upsert(ctx context.Context, chunks []types.EmbeddedChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		m.chunks[c.ID] = c
	}
	return nil
}

func (m *MemoryStore) Query(ctx context.Context, vector []float32, filters Filters, limit int) ([]types.ScoredChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []types.ScoredChunk
	for _, c := range m.chunks {
		if !matches(c.DocumentChunk, filters) {
			continue
		}
		results = append(results, types.ScoredChunk{
			DocumentChunk: c.DocumentChunk,
			Similarity:    cosineSimilarity(vector, c.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MemoryStore) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.chunks {
		if c.DocumentID == documentID {
			delete(m.chunks, id)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteByCanvas(ctx context.Context, canvasID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.chunks {
		if c.CanvasID.Valid && c.CanvasID.UUID == canvasID {
			delete(m.chunks, id)
		}
	}
	return nil
}

// Len reports the number of stored chunks.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Get returns the stored chunk for id, if any.
func (m *MemoryStore) Get(id uuid.UUID) (types.EmbeddedChunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.chunks[id]
	return c, ok
}

func matches(c types.DocumentChunk, f Filters) bool {
	if f.FieldKey != "" && c.FieldKey.Valid && c.FieldKey.String != f.FieldKey {
		return false
	}
	if len(f.DocumentIDs) > 0 {
		if c.CanvasID.Valid && !containsUUID(f.DocumentIDs, c.DocumentID) {
			return false
		}
		return true
	}
	if f.CanvasID.Valid && c.CanvasID.Valid && c.CanvasID.UUID != f.CanvasID.UUID {
		return false
	}
	return true
}

func containsUUID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
