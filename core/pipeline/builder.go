package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/siherrmann/docrag/model"
)

// DefaultTextChunkSize is the number of words per text chunk
const DefaultTextChunkSize = 500

// ChunkBuilder converts a parsed document analysis into retrievable chunks.
// Text is split into fixed-size word windows, tables are rendered to a
// plain-text form and image descriptions are taken over verbatim.
type ChunkBuilder struct {
	TextChunkSize int
	Logger        *slog.Logger
}

// NewChunkBuilder creates a ChunkBuilder with the given words-per-chunk size.
// A size <= 0 falls back to DefaultTextChunkSize.
func NewChunkBuilder(textChunkSize int, logger *slog.Logger) *ChunkBuilder {
	if textChunkSize <= 0 {
		textChunkSize = DefaultTextChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ChunkBuilder{
		TextChunkSize: textChunkSize,
		Logger:        logger,
	}
}

// BuildChunks builds all chunks for a document analysis in a fixed order:
// text chunks first, then table chunks, then image description chunks.
// A failing item is skipped with a warning instead of aborting the build.
func (b *ChunkBuilder) BuildChunks(analysis *model.DocumentAnalysis) []*model.Chunk {
	var chunks []*model.Chunk

	chunks = append(chunks, b.buildTextChunks(analysis.Content.Text.CleanedText)...)
	chunks = append(chunks, b.buildTableChunks(analysis.Content.Tables.Data)...)
	chunks = append(chunks, b.buildImageChunks(analysis.Content.Images.Descriptions)...)

	return chunks
}

// buildTextChunks splits the cleaned document text into word windows.
// Chunk IDs are text_1..text_n.
func (b *ChunkBuilder) buildTextChunks(text string) []*model.Chunk {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil
	}

	words := strings.Fields(cleaned)

	var chunks []*model.Chunk
	for start := 0; start < len(words); start += b.TextChunkSize {
		end := start + b.TextChunkSize
		if end > len(words) {
			end = len(words)
		}

		content := strings.Join(words[start:end], " ")
		chunks = append(chunks, &model.Chunk{
			ChunkID:   fmt.Sprintf("text_%d", len(chunks)+1),
			Type:      model.ChunkTypeText,
			Content:   content,
			Source:    model.ChunkSourceTraditionalParsing,
			WordCount: end - start,
		})
	}

	return chunks
}

// buildTableChunks renders each extracted table to text.
// Chunk IDs are table_1..table_n; empty tables are skipped.
func (b *ChunkBuilder) buildTableChunks(tables []*model.Table) []*model.Chunk {
	var chunks []*model.Chunk
	for i, table := range tables {
		if table == nil || len(table.Data) == 0 {
			b.Logger.Warn("Skipping empty table", slog.Int("table_index", i))
			continue
		}

		content := TableToText(table)
		if content == "" {
			b.Logger.Warn("Skipping table without renderable content", slog.Int("table_index", i))
			continue
		}

		chunks = append(chunks, &model.Chunk{
			ChunkID: fmt.Sprintf("table_%d", len(chunks)+1),
			Type:    model.ChunkTypeTable,
			Content: content,
			Source:  model.ChunkSourceTraditionalParsing,
			TableData: model.Metadata{
				"row_count": len(table.Data),
			},
		})
	}

	return chunks
}

// buildImageChunks takes over VLM image descriptions as chunks.
// Chunk IDs are image_1..image_n; failed or empty analyses are skipped.
func (b *ChunkBuilder) buildImageChunks(descriptions []*model.ImageDescription) []*model.Chunk {
	var chunks []*model.Chunk
	for i, description := range descriptions {
		if description == nil {
			continue
		}
		if description.Description.Error != "" {
			b.Logger.Warn(
				"Skipping failed image analysis",
				slog.Int("image_index", i),
				slog.String("error", description.Description.Error),
			)
			continue
		}

		content := strings.TrimSpace(description.Description.Description)
		if content == "" {
			b.Logger.Warn("Skipping image without description", slog.Int("image_index", i))
			continue
		}

		chunks = append(chunks, &model.Chunk{
			ChunkID:   fmt.Sprintf("image_%d", len(chunks)+1),
			Type:      model.ChunkTypeImageDescription,
			Content:   content,
			Source:    model.ChunkSourceVLMEnhancement,
			ImagePath: description.ImagePath,
		})
	}

	return chunks
}

// textReplacer maps typographic punctuation that embeds poorly to its
// plain ASCII form
var textReplacer = strings.NewReplacer(
	"\u2013", "-", // en dash
	"\u2014", "--", // em dash
	"\u2019", "'", // right single quotation
	"\u201c", `"`, // left double quotation
	"\u201d", `"`, // right double quotation
	"\u00a0", " ", // non-breaking space
)

// CleanText normalizes all whitespace runs to single spaces, trims and
// replaces typographic punctuation with its ASCII equivalent
func CleanText(text string) string {
	return textReplacer.Replace(strings.Join(strings.Fields(text), " "))
}

// TableToText renders a table to a plain-text form suitable for embedding:
// a header line, a dash rule and one line per row. Headers are sorted so
// the rendering is deterministic.
func TableToText(table *model.Table) string {
	if table == nil || len(table.Data) == 0 {
		return ""
	}

	headers := make([]string, 0, len(table.Data[0]))
	for header := range table.Data[0] {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	if len(headers) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Table:\n")

	headerLine := strings.Join(headers, " | ")
	sb.WriteString(headerLine)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", len(headerLine)))
	sb.WriteString("\n")

	for _, row := range table.Data {
		values := make([]string, 0, len(headers))
		for _, header := range headers {
			values = append(values, fmt.Sprintf("%v", row[header]))
		}
		sb.WriteString(strings.Join(values, " | "))
		sb.WriteString("\n")
	}

	return sb.String()
}
