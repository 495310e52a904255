package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siherrmann/docrag/core/pipeline"
	"github.com/siherrmann/docrag/database"
	"github.com/siherrmann/docrag/model"
)

// ErrNoChunks is returned when an analysis yields no retrievable content
var ErrNoChunks = errors.New("no chunks to ingest")

const answerSystemPrompt = `You are a helpful assistant answering questions about a document. ` +
	`Answer only from the provided context. ` +
	`If the context does not contain the answer, say that the document does not cover it.`

// Engine orchestrates ingestion and question answering: build chunks,
// embed and store them, then rewrite, retrieve and generate per question.
type Engine struct {
	chunks    database.ChunksDBHandlerFunctions
	pipeline  *pipeline.Pipeline
	rewriter  RewriteFunc
	generator CompleteFunc
	logger    *slog.Logger
}

// NewEngine creates a new rag engine. rewriter may be nil, questions are
// then used unchanged. generator must be set before Answer is called.
func NewEngine(chunks database.ChunksDBHandlerFunctions, p *pipeline.Pipeline, rewriter RewriteFunc, generator CompleteFunc, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		chunks:    chunks,
		pipeline:  p,
		rewriter:  rewriter,
		generator: generator,
		logger:    logger,
	}
}

// Ingest builds, embeds and stores the chunks of a document analysis.
// Ingestion is idempotent by presence: if the store already holds chunks
// the call is a no-op and returns the existing count without touching the
// embedder. The insert itself is all-or-nothing.
func (e *Engine) Ingest(ctx context.Context, analysis *model.DocumentAnalysis, documentID int64) (int, error) {
	count, err := e.chunks.CountChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting chunks: %w", err)
	}
	if count > 0 {
		e.logger.Info("Chunks already ingested, skipping", slog.Int("count", count))
		return count, nil
	}

	chunks, err := e.pipeline.Process(ctx, analysis)
	if err != nil {
		return 0, fmt.Errorf("error processing analysis: %w", err)
	}
	if len(chunks) == 0 {
		return 0, ErrNoChunks
	}

	// Storage ids are positional; the builder id stays in the metadata
	for i, chunk := range chunks {
		if chunk.Metadata == nil {
			chunk.Metadata = model.Metadata{}
		}
		chunk.Metadata["source_id"] = chunk.ChunkID
		chunk.ChunkID = fmt.Sprintf("chunk_%d", i)
		chunk.DocumentID = documentID
	}

	err = e.chunks.InsertChunks(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("error inserting chunks: %w", err)
	}

	e.logger.Info("Ingested chunks", slog.Int("count", len(chunks)))

	return len(chunks), nil
}

// VectorRetrieve performs pure vector similarity search.
// A nil config falls back to the default query configuration.
func (e *Engine) VectorRetrieve(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if config == nil {
		defaultConfig := model.DefaultQueryConfig()
		config = &defaultConfig
	}

	chunks, err := e.chunks.SelectChunksBySimilarity(ctx, embedding, config.TopK, config.SimilarityThreshold)
	if err != nil {
		return nil, err
	}

	results := make([]*model.RetrievalResult, len(chunks))
	for i, chunk := range chunks {
		results[i] = &model.RetrievalResult{
			Chunk:           chunk,
			Score:           chunk.Similarity,
			RetrievalMethod: "vector",
		}
	}

	return results, nil
}

// Answer answers a question over the ingested document: rewrite the
// question (falling back to the original on any rewrite failure), embed
// the restructured question, retrieve the most similar chunks and
// generate the answer from the ORIGINAL question plus retrieved context.
// The generator is invoked even when no context was retrieved so it can
// state that the document does not cover the question.
func (e *Engine) Answer(ctx context.Context, question string, config *model.QueryConfig) (*model.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is empty")
	}
	if e.generator == nil {
		return nil, fmt.Errorf("no answer generator configured")
	}

	queryConfig := model.DefaultQueryConfig()
	if config != nil {
		queryConfig = *config
	}
	if queryConfig.TopK <= 0 {
		queryConfig.TopK = model.DefaultQueryConfig().TopK
	}

	restructured := question
	if e.rewriter != nil {
		rewritten, err := e.rewriter(ctx, question)
		if err != nil {
			e.logger.Warn("Question rewrite failed, using original", slog.String("error", err.Error()))
		} else if strings.TrimSpace(rewritten) == "" {
			e.logger.Warn("Question rewrite returned empty result, using original")
		} else {
			restructured = strings.TrimSpace(rewritten)
		}
	}

	embeddings, err := e.pipeline.Embedder(ctx, []string{restructured})
	if err != nil {
		return nil, fmt.Errorf("error embedding question: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 question embedding, got %d", len(embeddings))
	}

	results, err := e.VectorRetrieve(ctx, embeddings[0], &queryConfig)
	if err != nil {
		return nil, fmt.Errorf("error retrieving chunks: %w", err)
	}

	contexts := make([]string, 0, len(results))
	for _, result := range results {
		contexts = append(contexts, result.Chunk.Content)
	}

	userPrompt := fmt.Sprintf("Context: %s\n\nQuestion: %s", strings.Join(contexts, "\n\n"), question)
	answer, err := e.generator(ctx, answerSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("error generating answer: %w", err)
	}

	return &model.QueryResult{
		Question:             question,
		RestructuredQuestion: restructured,
		Answer:               answer,
		Context:              contexts,
	}, nil
}
