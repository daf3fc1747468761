package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"canvasrag/types"
)

const (
	DefaultMaxTokens     = 800
	DefaultOverlapTokens = 100
)

// Options control how one document is chunked.
type Options struct {
	MaxTokens     int
	OverlapTokens int
	Filename      string
	FieldKey      string
}

// Chunker splits extracted text into token-bounded, overlapping chunks
// along paragraph boundaries.
type Chunker struct {
	tokenizer Tokenizer
}

func New(tokenizer Tokenizer) *Chunker {
	return &Chunker{tokenizer: tokenizer}
}

var paragraphSplitter = regexp.MustCompile(`\n\s*\n`)

// splitParagraphs breaks text on blank lines into non-empty paragraphs.
// Paragraphs preserve semantic units better than fixed-width slicing.
func splitParagraphs(text string) []string {
	parts := paragraphSplitter.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// Chunk produces the ordered chunk sequence for one document. Chunk
// indexes are contiguous from 0 and TotalChunks is back-filled once
// the final count is known. Empty input yields an empty list.
func (c *Chunker) Chunk(text string, documentID uuid.UUID, canvasID uuid.NullUUID, opts Options) ([]types.DocumentChunk, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.OverlapTokens < 0 {
		opts.OverlapTokens = 0
	}

	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil, nil
	}

	var chunks []types.DocumentChunk
	var buf strings.Builder
	bufTokens := 0

	emit := func() error {
		content := buf.String()
		count, err := c.tokenizer.Count(content)
		if err != nil {
			return &TokenizationError{Err: err}
		}
		chunks = append(chunks, c.newChunk(content, count, len(chunks), documentID, canvasID, opts))
		return nil
	}

	for _, para := range paragraphs {
		paraTokens, err := c.tokenizer.Count(para)
		if err != nil {
			return nil, &TokenizationError{Err: err}
		}

		// Close the running chunk before this paragraph would push it
		// over the limit, then seed the next buffer with the tail of
		// the closed chunk so context straddling the cut survives.
		if bufTokens > 0 && bufTokens+paraTokens > opts.MaxTokens {
			if err := emit(); err != nil {
				return nil, err
			}
			tail, err := c.tokenizer.Tail(buf.String(), opts.OverlapTokens)
			if err != nil {
				return nil, &TokenizationError{Err: err}
			}
			buf.Reset()
			if tail != "" {
				buf.WriteString(tail)
			}
		}

		// A single paragraph above MaxTokens still lands whole on an
		// empty buffer; the chunk may exceed the limit in that case.
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(para)

		if bufTokens, err = c.tokenizer.Count(buf.String()); err != nil {
			return nil, &TokenizationError{Err: err}
		}
	}

	if strings.TrimSpace(buf.String()) != "" {
		if err := emit(); err != nil {
			return nil, err
		}
	}

	for i := range chunks {
		chunks[i].Metadata.TotalChunks = len(chunks)
	}
	return chunks, nil
}

func (c *Chunker) newChunk(content string, tokenCount, index int, documentID uuid.UUID, canvasID uuid.NullUUID, opts Options) types.DocumentChunk {
	return types.DocumentChunk{
		ID:         chunkID(documentID, index, content),
		DocumentID: documentID,
		CanvasID:   canvasID,
		FieldKey:   types.NullString(opts.FieldKey),
		ChunkIndex: index,
		Content:    content,
		TokenCount: tokenCount,
		Metadata: types.ChunkMetadata{
			Filename:   opts.Filename,
			ChunkIndex: index,
		},
	}
}

// chunkID derives a stable UUID from document, position and content so
// a retried ingest overwrites partial writes instead of duplicating
// them.
func chunkID(documentID uuid.UUID, index int, content string) uuid.UUID {
	return uuid.NewSHA1(documentID, fmt.Appendf(nil, "%d:%s", index, content))
}
