package extract

import (
	"strings"
	"time"

	"canvasrag/types"
)

// Extract converts a raw uploaded file into plain text plus basic
// metadata. It does not mutate its input and has no side effects
// beyond CPU and memory.
func Extract(data []byte, filename, mimeType string) (*types.ExtractedDocument, error) {
	format := Classify(filename, mimeType)

	var (
		text      string
		pageCount int
		err       error
	)
	switch format {
	case FormatPDF:
		text, pageCount, err = extractPDF(data)
	case FormatDocx:
		text, err = extractDocx(data)
	case FormatDoc:
		text, err = extractDoc(data)
	case FormatText, FormatMarkdown:
		text = sanitizeUTF8(data)
	default:
		return nil, &UnsupportedFormatError{Filename: filename, MimeType: mimeType}
	}
	if err != nil {
		return nil, &ExtractionError{Filename: filename, Err: err}
	}

	return &types.ExtractedDocument{
		Text: text,
		Metadata: types.ExtractedMetadata{
			Filename:    filename,
			MimeType:    mimeType,
			PageCount:   pageCount,
			ExtractedAt: time.Now().UTC(),
		},
	}, nil
}

// sanitizeUTF8 reads bytes verbatim as UTF-8, dropping a BOM and any
// invalid sequences.
func sanitizeUTF8(data []byte) string {
	s := strings.TrimPrefix(string(data), "\ufeff")
	return strings.ToValidUTF8(s, "")
}
