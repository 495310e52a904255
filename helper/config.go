package helper

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Configuration holds the full service configuration loaded from environment
// variables. A .env file in the working directory is loaded if present.
type Configuration struct {
	Database *DatabaseConfiguration

	// Server
	ServerHost string
	ServerPort int

	// LLM (query rewriting, answer generation, remote embeddings)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	LLMModel      string

	// Embeddings
	EmbeddingModel     string
	EmbeddingDimension int

	// Chunking
	TextChunkSize int
}

// NewConfiguration loads the service configuration from the environment.
// Database variables are required, everything else has defaults. An empty
// OPENAI_API_KEY disables the LLM-backed features (query rewriting, answer
// generation, remote embeddings); the local embedder is used instead.
func NewConfiguration() (*Configuration, error) {
	// Best effort, the environment may be set directly.
	_ = godotenv.Load()

	dbConfig, err := NewDatabaseConfiguration()
	if err != nil {
		return nil, err
	}

	config := &Configuration{
		Database:           dbConfig,
		ServerHost:         envOrDefault("SERVER_HOST", "0.0.0.0"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:           envOrDefault("LLM_MODEL", "gpt-4o-mini"),
		EmbeddingModel:     envOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimension: 1536,
		TextChunkSize:      500,
	}

	config.ServerPort, err = envIntOrDefault("SERVER_PORT", 8000)
	if err != nil {
		return nil, err
	}

	if config.OpenAIAPIKey == "" {
		// Local all-MiniLM-L6-v2 embeddings.
		config.EmbeddingDimension = 384
	}

	config.EmbeddingDimension, err = envIntOrDefault("EMBEDDING_DIMENSION", config.EmbeddingDimension)
	if err != nil {
		return nil, err
	}

	config.TextChunkSize, err = envIntOrDefault("TEXT_CHUNK_SIZE", 500)
	if err != nil {
		return nil, err
	}

	return config, nil
}

func envOrDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, NewError("configuration", fmt.Errorf("invalid integer value for %s: %q", key, value))
	}
	return parsed, nil
}
