package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server and the ingestion command read from the
// environment. A .env (or config.env) file is loaded first if present.
type Config struct {
	OpenAIAPIKey   string
	EmbedModel     string
	ChatModel      string
	ChromaURL      string
	CollectionName string
	DatabaseURL    string
	Port           string
	RequestTimeout time.Duration
}

// Load reads the environment into a Config. OPENAI_API_KEY is required;
// DATABASE_URL is only validated by the ingestion command, which needs it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Fall back to the legacy file name used by the ingestion setup.
		_ = godotenv.Load("config.env")
	}

	cfg := &Config{
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		EmbedModel:     getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4"),
		ChromaURL:      os.Getenv("CHROMA_URL"),
		CollectionName: getEnv("CHROMA_COLLECTION_NAME", "films"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           getEnv("PORT", "8080"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
