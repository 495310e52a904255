package model

import (
	"time"

	"github.com/google/uuid"
)

// Document represents one ingested document analysis
type Document struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Title     string    `json:"title"`
	Source    string    `json:"source,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDocumentFromAnalysis creates a Document record for a parsed analysis.
// The title defaults to the parsed file name, the source to its path.
func NewDocumentFromAnalysis(analysis *DocumentAnalysis) *Document {
	title := analysis.DocumentInfo.FileName
	if title == "" {
		title = "document"
	}

	return &Document{
		Title:  title,
		Source: analysis.DocumentInfo.FilePath,
		Metadata: Metadata{
			"parser_version": analysis.DocumentInfo.ParserVersion,
			"parsed_at":      analysis.DocumentInfo.ParsedAt,
			"word_count":     analysis.Content.Text.WordCount,
			"table_count":    analysis.Content.Tables.Count,
			"image_count":    analysis.Content.Images.Count,
		},
	}
}
