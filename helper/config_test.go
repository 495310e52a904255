package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDatabaseEnvs(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_DATABASE", "database")
	t.Setenv("DB_USERNAME", "user")
	t.Setenv("DB_PASSWORD", "password")
}

func TestNewDatabaseConfiguration(t *testing.T) {
	t.Run("Valid call NewDatabaseConfiguration", func(t *testing.T) {
		setDatabaseEnvs(t)

		config, err := NewDatabaseConfiguration()
		assert.NoError(t, err, "Expected NewDatabaseConfiguration to not return an error")
		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, "public", config.Schema, "Expected default schema")
		assert.Equal(t, "disable", config.SSLMode, "Expected default sslmode")
	})

	t.Run("Invalid call NewDatabaseConfiguration with missing variables", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_DATABASE", "")
		t.Setenv("DB_USERNAME", "")
		t.Setenv("DB_PASSWORD", "")

		config, err := NewDatabaseConfiguration()
		assert.Error(t, err, "Expected NewDatabaseConfiguration to return an error")
		assert.Nil(t, config)
	})

	t.Run("Valid call ConnectionString", func(t *testing.T) {
		config := &DatabaseConfiguration{
			Host:     "localhost",
			Port:     "5432",
			Database: "database",
			Username: "user",
			Password: "password",
			Schema:   "public",
			SSLMode:  "disable",
		}

		assert.Equal(
			t,
			"host=localhost port=5432 dbname=database user=user password=password search_path=public sslmode=disable",
			config.ConnectionString(),
		)
	})
}

func TestNewConfiguration(t *testing.T) {
	t.Run("Valid call NewConfiguration with defaults", func(t *testing.T) {
		setDatabaseEnvs(t)
		t.Setenv("OPENAI_API_KEY", "")

		config, err := NewConfiguration()
		require.NoError(t, err, "Expected NewConfiguration to not return an error")

		assert.Equal(t, "0.0.0.0", config.ServerHost)
		assert.Equal(t, 8000, config.ServerPort)
		assert.Equal(t, "gpt-4o-mini", config.LLMModel)
		assert.Equal(t, "text-embedding-3-small", config.EmbeddingModel)
		assert.Equal(t, 500, config.TextChunkSize)
		assert.Equal(t, 384, config.EmbeddingDimension, "Expected local embedding dimension without API key")
	})

	t.Run("Valid call NewConfiguration with API key", func(t *testing.T) {
		setDatabaseEnvs(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")

		config, err := NewConfiguration()
		require.NoError(t, err)
		assert.Equal(t, 1536, config.EmbeddingDimension, "Expected remote embedding dimension with API key")
	})

	t.Run("Valid call NewConfiguration with overrides", func(t *testing.T) {
		setDatabaseEnvs(t)
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("EMBEDDING_DIMENSION", "768")
		t.Setenv("TEXT_CHUNK_SIZE", "250")

		config, err := NewConfiguration()
		require.NoError(t, err)
		assert.Equal(t, 9000, config.ServerPort)
		assert.Equal(t, 768, config.EmbeddingDimension)
		assert.Equal(t, 250, config.TextChunkSize)
	})

	t.Run("Invalid call NewConfiguration with invalid port", func(t *testing.T) {
		setDatabaseEnvs(t)
		t.Setenv("SERVER_PORT", "not-a-port")

		config, err := NewConfiguration()
		assert.Error(t, err, "Expected NewConfiguration to return an error")
		assert.Nil(t, config)
	})
}
