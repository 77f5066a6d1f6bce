package llm

import "context"

// VisionClient abstracts a vision-capable inference provider.
// Implementations must be concurrency-safe if used across goroutines.
type VisionClient interface {
	// AssessImage sends an image URL plus the assessment prompt to the model
	// and returns the raw natural-language reply.
	AssessImage(ctx context.Context, imageURL string) (string, error)
	// SourceName returns a short provider label for logging (e.g., "Claude").
	SourceName() string
}

// ChatClient abstracts a text chat-completion provider.
type ChatClient interface {
	// Complete sends the user prompt under a fixed system prompt and returns
	// the raw reply text.
	Complete(ctx context.Context, prompt string) (string, error)
	// SourceName returns a short provider label for logging (e.g., "Groq").
	SourceName() string
}
