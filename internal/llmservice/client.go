package llmservice

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"qatbot/internal/config"
	"qatbot/internal/models"
)

// Generator is the text-in/text-out contract the pipelines depend on.
// Tests substitute their own implementations.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls a chat model through langchaingo. It is constructed once at
// startup and shared by the generation and evaluation pipelines.
type Client struct {
	llm llms.Model
}

// New creates a client for the configured provider.
func New(cfg *config.LLMConfig) (*Client, error) {
	switch cfg.Provider {
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second}),
		)
		if err != nil {
			return nil, err
		}
		return &Client{llm: llm}, nil
	case "openai", "":
		llm, err := openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second}),
		)
		if err != nil {
			return nil, err
		}
		return &Client{llm: llm}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// Generate sends a single human message and returns the model's text reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrGenerationService, err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", models.ErrGenerationService)
	}
	return res.Choices[0].Content, nil
}
