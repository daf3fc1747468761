package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDR", "PG_HOST", "PG_PORT", "PG_USER", "PG_PASS", "PG_DB_NAME",
		"OPENAI_BASE_URL", "OPENAI_API_KEY", "EMBEDDING_MODEL", "EMBEDDING_DIMENSIONS",
		"CHUNK_MAX_TOKENS", "CHUNK_OVERLAP_TOKENS", "MAX_UPLOAD_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ServerAddr)
	assert.Equal(t, DefaultEmbeddingModel, cfg.EmbeddingModel)
	assert.Equal(t, DefaultDimensions, cfg.Dimensions)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultOverlapTokens, cfg.OverlapTokens)
	assert.Equal(t, int64(DefaultMaxUploadSize), cfg.MaxUploadSize)
	assert.Empty(t, cfg.PostgresDSN())
}

func TestLoadPostgresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("PG_HOST", "db.local")
	t.Setenv("PG_PORT", "5433")
	t.Setenv("PG_USER", "rag")
	t.Setenv("PG_PASS", "secret")
	t.Setenv("PG_DB_NAME", "canvas")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "host=db.local port=5433 user=rag password=secret dbname=canvas sslmode=disable", cfg.PostgresDSN())
}

func TestLoadPartialPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("PG_HOST", "db.local")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PG_USER")
	assert.Contains(t, err.Error(), "PG_DB_NAME")
}

func TestLoadOverlapBound(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHUNK_MAX_TOKENS", "100")
	t.Setenv("CHUNK_OVERLAP_TOKENS", "100")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHUNK_OVERLAP_TOKENS")
}

func TestLoadInvalidInt(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHUNK_MAX_TOKENS", "eight hundred")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHUNK_MAX_TOKENS")
}
