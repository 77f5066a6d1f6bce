package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	messagesEndpoint = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
	maxTokens        = 1024
)

type ImageSource struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type ImageContent struct {
	Type   string      `json:"type"`
	Source ImageSource `json:"source"`
}

type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type MessagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Client represents an Anthropic messages API client
type Client struct {
	apiKey string
	model  string
	prompt string
	client *http.Client
}

// NewClient creates a new Claude vision client. The prompt is sent alongside
// every image.
func NewClient(apiKey, model, prompt string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		prompt: prompt,
		client: &http.Client{},
	}
}

// SourceName identifies this provider in logs
func (c *Client) SourceName() string {
	return "Claude"
}

// AssessImage sends the image URL plus the fixed assessment prompt to the
// model and returns the raw reply text.
func (c *Client) AssessImage(ctx context.Context, imageURL string) (string, error) {
	reqBody := MessagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []Message{
			{
				Role: "user",
				Content: []any{
					ImageContent{
						Type:   "image",
						Source: ImageSource{Type: "url", URL: imageURL},
					},
					TextContent{
						Type: "text",
						Text: c.prompt,
					},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, messagesEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var msgResp MessagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	for _, block := range msgResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}
