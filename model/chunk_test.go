package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkValidate(t *testing.T) {
	t.Run("Valid call Validate", func(t *testing.T) {
		chunk := &Chunk{
			ChunkID: "text_1",
			Type:    ChunkTypeText,
			Content: "some content",
			Source:  ChunkSourceTraditionalParsing,
		}
		assert.NoError(t, chunk.Validate())
	})

	t.Run("Valid call Validate for all types and sources", func(t *testing.T) {
		for _, chunkType := range []ChunkType{ChunkTypeText, ChunkTypeTable, ChunkTypeImageDescription} {
			for _, source := range []ChunkSource{ChunkSourceTraditionalParsing, ChunkSourceVLMEnhancement} {
				chunk := &Chunk{Type: chunkType, Content: "c", Source: source}
				assert.NoError(t, chunk.Validate())
			}
		}
	})

	t.Run("Invalid call Validate with empty content", func(t *testing.T) {
		chunk := &Chunk{Type: ChunkTypeText, Source: ChunkSourceTraditionalParsing}
		assert.Error(t, chunk.Validate(), "Expected Validate to return an error")
	})

	t.Run("Invalid call Validate with unknown type", func(t *testing.T) {
		chunk := &Chunk{Type: "video", Content: "c", Source: ChunkSourceTraditionalParsing}
		assert.Error(t, chunk.Validate(), "Expected Validate to return an error")
	})

	t.Run("Invalid call Validate with unknown source", func(t *testing.T) {
		chunk := &Chunk{Type: ChunkTypeText, Content: "c", Source: "manual"}
		assert.Error(t, chunk.Validate(), "Expected Validate to return an error")
	})
}
