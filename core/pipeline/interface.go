package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/docrag/model"
)

// EmbedFunc generates embeddings for a batch of texts.
// The returned slice must have one embedding per input text, in order.
type EmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)

// Pipeline combines chunk building and embedding
type Pipeline struct {
	Builder   *ChunkBuilder
	Embedder  EmbedFunc
	Dimension int
}

// NewPipeline creates a new processing pipeline.
// Dimension is the expected embedding dimension; 0 disables the check.
func NewPipeline(builder *ChunkBuilder, embedder EmbedFunc, dimension int) *Pipeline {
	return &Pipeline{
		Builder:   builder,
		Embedder:  embedder,
		Dimension: dimension,
	}
}

// Process resolves the chunks of a document analysis and embeds their
// content in a single batched call. Pre-built rag_chunks in the analysis
// take precedence; otherwise chunks are built from the extracted content.
// Only Content is embedded; type, source and payload fields stay metadata.
func (p *Pipeline) Process(ctx context.Context, analysis *model.DocumentAnalysis) ([]*model.Chunk, error) {
	if analysis == nil {
		return nil, fmt.Errorf("analysis is nil")
	}

	chunks := analysis.RagChunks
	if len(chunks) == 0 {
		chunks = p.Builder.BuildChunks(analysis)
	}

	// A malformed record is skipped, not fatal
	valid := make([]*model.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			p.Builder.Logger.Warn(
				"Skipping invalid chunk",
				slog.String("chunk_id", chunk.ChunkID),
				slog.String("error", err.Error()),
			)
			continue
		}
		valid = append(valid, chunk)
	}
	chunks = valid

	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Content)
	}

	embeddings, err := p.Embedder(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("error embedding chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	for i, chunk := range chunks {
		if p.Dimension > 0 && len(embeddings[i]) != p.Dimension {
			return nil, fmt.Errorf("embedding for chunk %s has dimension %d, expected %d", chunk.ChunkID, len(embeddings[i]), p.Dimension)
		}
		chunk.Embedding = embeddings[i]
	}

	return chunks, nil
}
