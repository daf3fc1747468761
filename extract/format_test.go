package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		mimeType string
		want     DocumentFormat
	}{
		{"pdf by mime", "report.bin", "application/pdf", FormatPDF},
		{"pdf by extension", "report.pdf", "", FormatPDF},
		{"mime wins over extension", "report.txt", "application/pdf", FormatPDF},
		{"docx by mime", "doc.bin", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", FormatDocx},
		{"docx by extension", "doc.docx", "application/octet-stream", FormatDocx},
		{"legacy doc", "old.doc", "application/msword", FormatDoc},
		{"plain text", "notes.txt", "text/plain", FormatText},
		{"markdown extension", "README.md", "", FormatMarkdown},
		{"markdown long extension", "notes.markdown", "", FormatMarkdown},
		{"charset suffix stripped", "notes.bin", "text/plain; charset=utf-8", FormatText},
		{"case insensitive extension", "REPORT.PDF", "", FormatPDF},
		{"unknown", "data.xyz", "", FormatUnknown},
		{"generic mime unknown extension", "data.xyz", "application/octet-stream", FormatUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.filename, tc.mimeType))
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "pdf", FormatPDF.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
