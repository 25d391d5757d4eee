package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for language model interaction.
type Provider interface {
	// Generate sends a prompt to the model and blocks until the full
	// response is available. When the request's Schema is set, the provider
	// uses its native structured output mechanism and Content is validated
	// JSON; otherwise Content is the raw response text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// StreamingProvider is implemented by providers that can deliver partial
// output while the model is still generating.
type StreamingProvider interface {
	Provider

	// GenerateStream behaves like Generate but calls onPartial with each
	// text fragment as it arrives, in order. The returned Response carries
	// the concatenated text. Schema is not supported in streaming mode.
	GenerateStream(ctx context.Context, req Request, onPartial func(fragment string)) (*Response, error)
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Sets the model's role and constraints.
	System string

	// Messages is the conversation history, oldest first. The last message
	// is the turn being answered.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When nil, the response Content is raw text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string

	// Images are attached to the message ahead of the text. Only user
	// messages may carry images.
	Images []Image
}

// Image is an inline image attachment.
type Image struct {
	MIMEType string
	Data     []byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (used as schema name for OpenAI and as the
	// cache key for compiled validators). Kebab-case, e.g. "translation".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output: validated JSON when a Schema was
	// provided, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Text returns the response content as plain text.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
