package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/docrag"
	"github.com/siherrmann/docrag/helper"
	"github.com/siherrmann/docrag/model"
)

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	d, err := docrag.NewDocRag(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create docrag: %v", err)
	}
	defer d.Close()

	// Set up the default pipeline (chunk building + local embeddings)
	if err := d.UseDefaultPipeline(500); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	// A parsed document analysis, as produced by the PDF parsing stage
	analysis := &model.DocumentAnalysis{
		DocumentInfo: model.DocumentInfo{
			FileName: "graph_databases.pdf",
			FilePath: "example/graph_databases.pdf",
		},
		Content: model.AnalysisContent{
			Text: model.TextContent{
				CleanedText: `Graph databases are designed to store and query data with complex relationships.
They use nodes to represent entities and edges to represent relationships between them.
PostgreSQL with the pgvector extension enables vector similarity search over embedded text,
which is the backbone of retrieval augmented generation systems.`,
			},
			Tables: model.TableContent{
				Count: 1,
				Data: []*model.Table{
					{Data: []map[string]interface{}{
						{"Extension": "pgvector", "Purpose": "vector similarity search"},
						{"Extension": "pgcrypto", "Purpose": "uuid generation"},
					}},
				},
			},
		},
	}

	ctx := context.Background()

	count, err := d.IngestAnalysis(ctx, analysis)
	if err != nil {
		log.Fatalf("Failed to ingest analysis: %v", err)
	}
	fmt.Printf("Ingested %d chunks\n", count)

	// Pure vector search (no LLM needed)
	config := model.DefaultQueryConfig()
	results, err := d.Search(ctx, "what enables similarity search in PostgreSQL?", &config)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	for i, result := range results {
		fmt.Printf("%d. (score %.3f) %s\n", i+1, result.Score, result.Chunk.Content)
	}
}
