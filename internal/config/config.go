package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer auth on the API.
	APIKey string

	// Gemini planning model
	GeminiAPIKey string
	GeminiModel  string

	// Page snapshot archive
	SnapshotsDir string

	// Task persistence
	TaskDBPath string
	TaskTTL    time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Page compaction
	MaxTextLength    int
	MaxElements      int
	MaxDepth         int
	MinTextLength    int
	MaxSummaryTokens int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("NAVCORE_API_KEY"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.0-flash"),

		SnapshotsDir: envOr("SNAPSHOTS_DIR", "snapshots"),

		TaskDBPath: envOr("TASK_DB_PATH", "tasks.db"),
		TaskTTL:    envDuration("TASK_TTL", 24*time.Hour),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		MaxTextLength:    envInt("MAX_TEXT_LENGTH", 500),
		MaxElements:      envInt("MAX_ELEMENTS", 150),
		MaxDepth:         envInt("MAX_DEPTH", 10),
		MinTextLength:    envInt("MIN_TEXT_LENGTH", 15),
		MaxSummaryTokens: envInt("MAX_SUMMARY_TOKENS", 4000),
	}

	if cfg.TaskTTL <= 0 {
		cfg.TaskTTL = 24 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = 500
	}
	if cfg.MaxElements <= 0 {
		cfg.MaxElements = 150
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 10
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 15
	}
	if cfg.MaxSummaryTokens <= 0 {
		cfg.MaxSummaryTokens = 4000
	}

	return cfg
}

func (c Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
