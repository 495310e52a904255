package model

import (
	"encoding/json"
	"os"
)

// DocumentAnalysis is the JSON document produced by the parsing stage.
// It is the sole file-format contract between parsing and ingestion:
// rag_chunks entries must carry content, type and source.
type DocumentAnalysis struct {
	DocumentInfo DocumentInfo    `json:"document_info"`
	Content      AnalysisContent `json:"content"`
	Summary      Metadata        `json:"summary,omitempty"`
	RagChunks    []*Chunk        `json:"rag_chunks,omitempty"`
}

// DocumentInfo describes the parsed source file.
type DocumentInfo struct {
	FilePath      string `json:"file_path"`
	FileName      string `json:"file_name"`
	FileSize      int64  `json:"file_size,omitempty"`
	ParsedAt      string `json:"parsed_at,omitempty"`
	ParserVersion string `json:"parser_version,omitempty"`
}

// AnalysisContent holds the extracted text, tables and images of a document.
type AnalysisContent struct {
	Text   TextContent  `json:"text"`
	Tables TableContent `json:"tables"`
	Images ImageContent `json:"images"`
}

// TextContent holds the extracted full-document text.
type TextContent struct {
	RawText        string `json:"raw_text,omitempty"`
	CleanedText    string `json:"cleaned_text"`
	WordCount      int    `json:"word_count,omitempty"`
	CharacterCount int    `json:"character_count,omitempty"`
}

// TableContent holds the extracted tables.
type TableContent struct {
	Count int      `json:"count"`
	Data  []*Table `json:"data,omitempty"`
}

// Table is one extracted table: rows as header-to-value maps.
type Table struct {
	Data []map[string]interface{} `json:"data"`
}

// ImageContent holds extracted image paths and their VLM descriptions.
type ImageContent struct {
	Count        int                 `json:"count"`
	Paths        []string            `json:"paths,omitempty"`
	Descriptions []*ImageDescription `json:"descriptions,omitempty"`
}

// ImageDescription is the VLM analysis result for one document image.
type ImageDescription struct {
	ImageIndex  int           `json:"image_index"`
	ImagePath   string        `json:"image_path"`
	Description ImageAnalysis `json:"description"`
}

// ImageAnalysis carries the generated description or the analysis error.
type ImageAnalysis struct {
	Description string  `json:"description,omitempty"`
	Model       string  `json:"model,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// NewDocumentAnalysisFromFile reads and parses a document analysis JSON file.
func NewDocumentAnalysisFromFile(filePath string) (*DocumentAnalysis, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	analysis := &DocumentAnalysis{}
	if err := json.Unmarshal(data, analysis); err != nil {
		return nil, err
	}

	return analysis, nil
}
