package rag

import (
	"fmt"

	"canvasrag/extract"
	"canvasrag/types"
)

// ValidateUpload checks an upload against size and type constraints
// before extraction. It always returns a structured result instead of
// an error so the caller can surface a user-facing message.
func ValidateUpload(filename, mimeType string, size, maxSize int64) types.UploadValidation {
	if size > maxSize {
		return types.UploadValidation{
			Valid: false,
			Error: fmt.Sprintf("file %s is %.1fMB, exceeds the maximum size of %dMB",
				filename, float64(size)/(1024*1024), maxSize/(1024*1024)),
		}
	}
	if extract.Classify(filename, mimeType) == extract.FormatUnknown {
		return types.UploadValidation{
			Valid: false,
			Error: fmt.Sprintf("file %s has an unsupported type; upload PDF, Word or plain-text documents", filename),
		}
	}
	return types.UploadValidation{Valid: true}
}
