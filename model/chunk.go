package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChunkType discriminates the kind of document content a chunk was built from.
type ChunkType string

const (
	ChunkTypeText             ChunkType = "text"
	ChunkTypeTable            ChunkType = "table"
	ChunkTypeImageDescription ChunkType = "image_description"
)

// ChunkSource tags the extraction method that produced a chunk.
type ChunkSource string

const (
	ChunkSourceTraditionalParsing ChunkSource = "traditional_parsing"
	ChunkSourceVLMEnhancement     ChunkSource = "vlm_enhancement"
)

// Chunk represents an atomic retrievable unit of document content.
// Content is the only field that is embedded; type, source and the
// type-specific payload fields are stored alongside it as metadata.
type Chunk struct {
	ID          int         `json:"id,omitempty"`
	ChunkID     string      `json:"chunk_id"`
	DocumentID  int64       `json:"document_id,omitempty"`
	DocumentRID uuid.UUID   `json:"document_rid,omitempty"`
	Type        ChunkType   `json:"type"`
	Content     string      `json:"content"`
	Source      ChunkSource `json:"source"`
	// Type-specific payload, retained for audit but never embedded
	TableData Metadata  `json:"table_data,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	WordCount int       `json:"word_count,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	// Results
	Similarity float64 `json:"similarity,omitempty"`
	Distance   float64 `json:"distance,omitempty"`
}

// Validate checks that the chunk carries the mandatory fields of the
// rag_chunks contract (content, type, source).
func (c *Chunk) Validate() error {
	if c.Content == "" {
		return fmt.Errorf("chunk content is empty")
	}

	switch c.Type {
	case ChunkTypeText, ChunkTypeTable, ChunkTypeImageDescription:
	default:
		return fmt.Errorf("unknown chunk type: %q", c.Type)
	}

	switch c.Source {
	case ChunkSourceTraditionalParsing, ChunkSourceVLMEnhancement:
	default:
		return fmt.Errorf("unknown chunk source: %q", c.Source)
	}

	return nil
}
