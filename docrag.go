package docrag

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/docrag/core/pipeline"
	"github.com/siherrmann/docrag/core/retrieval"
	"github.com/siherrmann/docrag/database"
	"github.com/siherrmann/docrag/helper"
	"github.com/siherrmann/docrag/model"
	loadSql "github.com/siherrmann/docrag/sql"
)

// DocRag provides a unified interface to ingestion and question answering
type DocRag struct {
	DB        *helper.Database
	Chunks    *database.ChunksDBHandler
	Documents *database.DocumentsDBHandler
	Pipeline  *pipeline.Pipeline
	Engine    *retrieval.Engine
	// LLM stages, optional
	rewriter  retrieval.RewriteFunc
	generator retrieval.CompleteFunc
	// Logging
	log *slog.Logger
}

// NewDocRag creates a new DocRag instance with all handlers initialized.
// A pipeline must be set before ingesting or answering, either via
// SetPipeline or one of the UseXPipeline helpers.
func NewDocRag(config *helper.DatabaseConfiguration, embeddingDim int) (*DocRag, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("docrag", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers in the correct order (documents first, then chunks)
	// force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	return &DocRag{
		DB:        db,
		Chunks:    chunks,
		Documents: documents,
		log:       logger,
	}, nil
}

// Close closes the database connection
func (d *DocRag) Close() error {
	if d.DB != nil && d.DB.Instance != nil {
		return d.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the chunk building and embedding pipeline
func (d *DocRag) SetPipeline(p *pipeline.Pipeline) {
	d.Pipeline = p
	d.rebuildEngine()
}

// SetRewriter sets the query rewriting function.
// Without a rewriter questions are used unchanged.
func (d *DocRag) SetRewriter(rewriter retrieval.RewriteFunc) {
	d.rewriter = rewriter
	d.rebuildEngine()
}

// SetGenerator sets the answer generation function.
// Answer returns an error until a generator is set.
func (d *DocRag) SetGenerator(generator retrieval.CompleteFunc) {
	d.generator = generator
	d.rebuildEngine()
}

func (d *DocRag) rebuildEngine() {
	if d.Pipeline == nil {
		d.Engine = nil
		return
	}
	d.Engine = retrieval.NewEngine(d.Chunks, d.Pipeline, d.rewriter, d.generator, d.log)
}

// UseDefaultPipeline sets up the local chunking and embedding pipeline.
// This uses the ChunkBuilder with the given words-per-chunk size and the
// all-MiniLM-L6-v2 model (384 dimensions).
func (d *DocRag) UseDefaultPipeline(textChunkSize int) error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	builder := pipeline.NewChunkBuilder(textChunkSize, d.log)
	d.SetPipeline(pipeline.NewPipeline(builder, embedder, pipeline.DefaultEmbedderDimension))
	return nil
}

// UseOpenAIPipeline sets up the OpenAI-backed embedding pipeline
func (d *DocRag) UseOpenAIPipeline(apiKey string, embeddingModel string, baseURL string, dimension int, textChunkSize int) error {
	embedder, err := pipeline.OpenAIEmbedder(apiKey, embeddingModel, baseURL)
	if err != nil {
		return helper.NewError("create openai embedder", err)
	}

	builder := pipeline.NewChunkBuilder(textChunkSize, d.log)
	d.SetPipeline(pipeline.NewPipeline(builder, embedder, dimension))
	return nil
}

// IngestAnalysis ingests a parsed document analysis: records the document,
// builds and embeds its chunks and stores them. If the store already holds
// chunks the call is a no-op returning the existing count; an analysis
// without retrievable content fails before any write.
// Returns the number of stored chunks.
func (d *DocRag) IngestAnalysis(ctx context.Context, analysis *model.DocumentAnalysis) (int, error) {
	if d.Engine == nil {
		return 0, helper.NewError("ingest analysis", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	if analysis == nil {
		return 0, helper.NewError("ingest analysis", fmt.Errorf("analysis is nil"))
	}

	count, err := d.Chunks.CountChunks(ctx)
	if err != nil {
		return 0, helper.NewError("count chunks", err)
	}
	if count > 0 {
		d.log.Info("Chunks already ingested, skipping", slog.Int("count", count))
		return count, nil
	}

	document, err := d.Documents.InsertDocument(ctx, model.NewDocumentFromAnalysis(analysis))
	if err != nil {
		return 0, helper.NewError("insert document", err)
	}

	d.log.Info("Inserted document", slog.String("document_rid", document.RID.String()), slog.String("title", document.Title))

	inserted, err := d.Engine.Ingest(ctx, analysis, document.ID)
	if err != nil {
		// Remove the document row again so a failed or empty ingest
		// leaves no trace
		if deleteErr := d.Documents.DeleteDocument(ctx, document.RID); deleteErr != nil {
			d.log.Error("Failed to remove document after failed ingest", slog.String("error", deleteErr.Error()))
		}
		return 0, helper.NewError("ingest chunks", err)
	}

	return inserted, nil
}

// IngestFile loads a document analysis JSON file and ingests it
func (d *DocRag) IngestFile(ctx context.Context, filePath string) (int, error) {
	analysis, err := model.NewDocumentAnalysisFromFile(filePath)
	if err != nil {
		return 0, helper.NewError("load analysis file", err)
	}

	return d.IngestAnalysis(ctx, analysis)
}

// Answer answers a question over the ingested document
func (d *DocRag) Answer(ctx context.Context, question string, config *model.QueryConfig) (*model.QueryResult, error) {
	if d.Engine == nil {
		return nil, helper.NewError("answer", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	return d.Engine.Answer(ctx, question, config)
}

// Search performs vector similarity search without answer generation
func (d *DocRag) Search(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if d.Engine == nil {
		return nil, helper.NewError("vector search", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	embeddings, err := d.Pipeline.Embedder(ctx, []string{query})
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}
	if len(embeddings) != 1 {
		return nil, helper.NewError("generate embedding", fmt.Errorf("expected 1 embedding, got %d", len(embeddings)))
	}

	return d.Engine.VectorRetrieve(ctx, embeddings[0], config)
}

// ChunkCount returns the number of stored chunks
func (d *DocRag) ChunkCount(ctx context.Context) (int, error) {
	return d.Chunks.CountChunks(ctx)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (d *DocRag) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return d.Chunks.ChangeIndexType(ctx, indexType, params)
}
