package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/siherrmann/docrag"
	"github.com/siherrmann/docrag/core/retrieval"
	"github.com/siherrmann/docrag/helper"
	"github.com/siherrmann/docrag/server"
)

func main() {
	config, err := helper.NewConfiguration()
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}

	logger := helper.NewLogger(os.Stdout, slog.LevelInfo)

	d, err := docrag.NewDocRag(config.Database, config.EmbeddingDimension)
	if err != nil {
		log.Fatalf("error creating docrag instance: %v", err)
	}
	defer d.Close()

	if config.OpenAIAPIKey != "" {
		err = d.UseOpenAIPipeline(config.OpenAIAPIKey, config.EmbeddingModel, config.OpenAIBaseURL, config.EmbeddingDimension, config.TextChunkSize)
		if err != nil {
			log.Fatalf("error creating openai pipeline: %v", err)
		}

		rewriter, err := retrieval.OpenAIRewriter(config.OpenAIAPIKey, config.LLMModel, config.OpenAIBaseURL)
		if err != nil {
			log.Fatalf("error creating rewriter: %v", err)
		}
		d.SetRewriter(rewriter)

		generator, err := retrieval.OpenAIGenerator(config.OpenAIAPIKey, config.LLMModel, config.OpenAIBaseURL)
		if err != nil {
			log.Fatalf("error creating generator: %v", err)
		}
		d.SetGenerator(generator)
	} else {
		// Without credentials queries degrade: local embeddings, no
		// rewriting, answer generation errors surface per request
		logger.Warn("OPENAI_API_KEY not set, using local embeddings without answer generation")
		err = d.UseDefaultPipeline(config.TextChunkSize)
		if err != nil {
			log.Fatalf("error creating default pipeline: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := fmt.Sprintf("%s:%d", config.ServerHost, config.ServerPort)
	logger.Info("Starting server", slog.String("address", address))

	s := server.NewServer(d, logger)
	if err := s.Start(ctx, address); err != nil {
		log.Fatalf("error running server: %v", err)
	}
}
