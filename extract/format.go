package extract

import (
	"path/filepath"
	"strings"
)

// DocumentFormat is the closed set of formats the extractor handles.
// Adding a format means one new constant, one classifier rule and one
// switch arm in Extract.
type DocumentFormat int

const (
	FormatUnknown DocumentFormat = iota
	FormatPDF
	FormatDocx
	FormatDoc
	FormatText
	FormatMarkdown
)

func (f DocumentFormat) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDocx:
		return "docx"
	case FormatDoc:
		return "doc"
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

var mimeFormats = map[string]DocumentFormat{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDocx,
	"application/msword": FormatDoc,
	"text/plain":         FormatText,
	"text/markdown":      FormatMarkdown,
}

var extFormats = map[string]DocumentFormat{
	".pdf":      FormatPDF,
	".docx":     FormatDocx,
	".doc":      FormatDoc,
	".txt":      FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// Classify resolves the document format once, from the declared MIME
// type first, falling back to the filename extension when the MIME
// type is absent or generic.
func Classify(filename, mimeType string) DocumentFormat {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if f, ok := mimeFormats[mt]; ok {
		return f
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extFormats[ext]; ok {
		return f
	}
	return FormatUnknown
}
