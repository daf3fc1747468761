package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUploadAccepts(t *testing.T) {
	v := ValidateUpload("report.pdf", "application/pdf", 2*1024*1024, 10*1024*1024)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Error)
}

func TestValidateUploadOversized(t *testing.T) {
	v := ValidateUpload("report.pdf", "application/pdf", 15*1024*1024, 10*1024*1024)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Error, "report.pdf")
	assert.Contains(t, v.Error, "15.0MB")
	assert.Contains(t, v.Error, "10MB")
}

func TestValidateUploadUnsupportedType(t *testing.T) {
	v := ValidateUpload("data.xyz", "", 1024, 10*1024*1024)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Error, "data.xyz")
	assert.Contains(t, v.Error, "unsupported")
}
