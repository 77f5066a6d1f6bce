package groq

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Client represents a Groq chat-completion client. Groq exposes an
// OpenAI-compatible API, so the request goes through the go-openai client
// pointed at the Groq base URL.
type Client struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

// NewClient creates a new Groq chat client with a fixed system prompt.
func NewClient(apiKey, baseURL, model, systemPrompt string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{
		client:       openai.NewClientWithConfig(cfg),
		model:        model,
		systemPrompt: systemPrompt,
	}
}

// SourceName identifies this provider in logs
func (c *Client) SourceName() string {
	return "Groq"
}

// Complete sends the user prompt under the fixed system prompt and returns
// the raw reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
