package retrieval

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// RewriteFunc restructures a user question for retrieval.
// An error or empty result means the caller keeps the original question.
type RewriteFunc func(ctx context.Context, question string) (string, error)

const rewriteSystemPrompt = `You restructure user questions for semantic search over document chunks. ` +
	`Fix grammar and spelling, expand abbreviations and add likely document vocabulary. ` +
	`Return only the restructured query, nothing else.`

// OpenAIRewriter creates a RewriteFunc backed by an OpenAI chat model.
// baseURL may be empty to use the public API.
func OpenAIRewriter(apiKey string, model string, baseURL string) (RewriteFunc, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	return func(ctx context.Context, question string) (string, error) {
		resp, err := llm.GenerateContent(
			ctx,
			[]llms.MessageContent{
				llms.TextParts(llms.ChatMessageTypeSystem, rewriteSystemPrompt),
				llms.TextParts(llms.ChatMessageTypeHuman, question),
			},
			llms.WithTemperature(0.2),
		)
		if err != nil {
			return "", fmt.Errorf("failed to rewrite question: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no rewrite returned")
		}

		return resp.Choices[0].Content, nil
	}, nil
}
