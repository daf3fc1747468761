package extract

import "fmt"

// UnsupportedFormatError means neither the MIME type nor the file
// extension matched a supported format. User-correctable, not retried.
type UnsupportedFormatError struct {
	Filename string
	MimeType string
}

func (e *UnsupportedFormatError) Error() string {
	if e.MimeType == "" {
		return fmt.Sprintf("unsupported file format: %s", e.Filename)
	}
	return fmt.Sprintf("unsupported file format: %s (%s)", e.Filename, e.MimeType)
}

// ExtractionError means a recognized format turned out to be malformed
// or corrupt. The filename is part of the message for diagnosability.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
