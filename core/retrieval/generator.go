package retrieval

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// CompleteFunc runs one chat completion with a system and a user message
type CompleteFunc func(ctx context.Context, system string, user string) (string, error)

// OpenAIGenerator creates a CompleteFunc backed by an OpenAI chat model,
// tuned for grounded answers (low temperature, bounded length).
// baseURL may be empty to use the public API.
func OpenAIGenerator(apiKey string, model string, baseURL string) (CompleteFunc, error) {
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

	return func(ctx context.Context, system string, user string) (string, error) {
		resp, err := llm.GenerateContent(
			ctx,
			[]llms.MessageContent{
				llms.TextParts(llms.ChatMessageTypeSystem, system),
				llms.TextParts(llms.ChatMessageTypeHuman, user),
			},
			llms.WithTemperature(0.1),
			llms.WithMaxTokens(500),
		)
		if err != nil {
			return "", fmt.Errorf("failed to generate completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no completion returned")
		}

		return resp.Choices[0].Content, nil
	}, nil
}
