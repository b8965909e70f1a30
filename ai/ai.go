package ai

import (
	"context"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// Generator is the content-generation capability handed to platform clients.
// Anything that can turn a prompt into text satisfies it.
type Generator interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// LLMConfig holds configuration for LLM interactions
type LLMConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// DefaultLLMConfig returns standard LLM configuration
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:       openai.GPT3Dot5Turbo,
		MaxTokens:   1024,
		Temperature: 0.7,
	}
}

// Client is the OpenAI-backed Generator implementation.
type Client struct {
	api *openai.Client
	cfg LLMConfig
}

// NewClient creates a Generator over the OpenAI API. An empty key yields a
// client that returns canned responses, so local runs without credentials
// still work.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, using mock responses")
		return &Client{cfg: DefaultLLMConfig()}
	}
	return &Client{
		api: openai.NewClient(apiKey),
		cfg: DefaultLLMConfig(),
	}
}

// GenerateResponse sends the prompt to the LLM and returns its reply.
func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if c.api == nil {
		return "Mock response: " + prompt, nil
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
