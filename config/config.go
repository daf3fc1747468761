package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultMaxTokens      = 800
	DefaultOverlapTokens  = 100
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultDimensions     = 1536
	DefaultMaxUploadSize  = 10 * 1024 * 1024 // 10MB
)

type Config struct {
	ServerAddr string

	PGHost   string
	PGPort   int
	PGUser   string
	PGPass   string
	PGDBName string

	OpenAIBaseURL  string
	OpenAIAPIKey   string
	EmbeddingModel string
	Dimensions     int

	MaxTokens     int
	OverlapTokens int
	MaxUploadSize int64
}

// Load reads the configuration from environment variables. Postgres
// settings are optional: leaving PG_HOST empty runs the pipeline in
// the degraded, vector-less mode instead of failing.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":3000"),
		PGHost:         os.Getenv("PG_HOST"),
		PGUser:         os.Getenv("PG_USER"),
		PGPass:         os.Getenv("PG_PASS"),
		PGDBName:       os.Getenv("PG_DB_NAME"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", DefaultEmbeddingModel),
	}

	var err error
	if cfg.PGPort, err = getEnvInt("PG_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.Dimensions, err = getEnvInt("EMBEDDING_DIMENSIONS", DefaultDimensions); err != nil {
		return nil, err
	}
	if cfg.MaxTokens, err = getEnvInt("CHUNK_MAX_TOKENS", DefaultMaxTokens); err != nil {
		return nil, err
	}
	if cfg.OverlapTokens, err = getEnvInt("CHUNK_OVERLAP_TOKENS", DefaultOverlapTokens); err != nil {
		return nil, err
	}
	maxUpload, err := getEnvInt("MAX_UPLOAD_SIZE", DefaultMaxUploadSize)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadSize = int64(maxUpload)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.EmbeddingModel == "" {
		missing = append(missing, "EMBEDDING_MODEL")
	}
	// Postgres settings are all-or-nothing: a partial set is a typo,
	// not a request for degraded mode.
	if c.PGHost != "" {
		for name, val := range map[string]string{
			"PG_USER":    c.PGUser,
			"PG_DB_NAME": c.PGDBName,
		} {
			if val == "" {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.OverlapTokens >= c.MaxTokens {
		return fmt.Errorf("CHUNK_OVERLAP_TOKENS (%d) must be smaller than CHUNK_MAX_TOKENS (%d)", c.OverlapTokens, c.MaxTokens)
	}
	return nil
}

// PostgresDSN returns the connection string, or "" when no vector
// backend is configured.
func (c *Config) PostgresDSN() string {
	if c.PGHost == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PGHost, c.PGPort, c.PGUser, c.PGPass, c.PGDBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}
