package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Conversation persistence
	DatabasePath string

	// Uploaded document storage
	DocumentsDir string

	// Provider credentials
	OpenAIAPIKey    string
	GroqAPIKey      string
	XAIAPIKey       string
	GeminiAPIKey    string
	AnthropicAPIKey string

	// Local model
	OllamaURL   string
	OllamaModel string

	// Default model when the request names an unknown one
	DefaultModel string

	// Retrieval
	ChunkSize    int
	ChunkOverlap int
	TopK         int

	// Chat history window sent to providers
	HistoryLimit int

	// Web search
	SearchTimeout    time.Duration
	SearchMaxResults int

	// Upload limits
	MaxUploadBytes int64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8000"),

		DatabasePath: envOr("DATABASE_PATH", "chat.db"),
		DocumentsDir: envOr("DOCUMENTS_DIR", "documents"),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		XAIAPIKey:       os.Getenv("XAI_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		OllamaURL:   envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: envOr("OLLAMA_MODEL", "phi3:mini"),

		DefaultModel: envOr("DEFAULT_MODEL", "phi3:mini"),

		ChunkSize:    envInt("CHUNK_SIZE", 1000),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 200),
		TopK:         envInt("RETRIEVAL_TOP_K", 3),

		HistoryLimit: envInt("HISTORY_LIMIT", 15),

		SearchTimeout:    envDuration("SEARCH_TIMEOUT", 10*time.Second),
		SearchMaxResults: envInt("SEARCH_MAX_RESULTS", 5),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 200
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 15
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 10 * time.Second
	}
	if cfg.SearchMaxResults <= 0 {
		cfg.SearchMaxResults = 5
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.DocumentsDir == "" {
		return fmt.Errorf("DOCUMENTS_DIR is required")
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
