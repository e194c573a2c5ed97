// Package llm is a small provider-neutral client for chat models. Callers
// build a Request, optionally with a JSON Schema for structured output, and
// get back validated JSON regardless of which vendor served it.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is implemented by every model backend and by the middleware
// wrapping them.
type Provider interface {
	// Generate runs one completion. When req.Schema is set the returned
	// Content is JSON that validates against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backend ("anthropic", "openai", ...).
	Name() string

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Request describes one completion.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks for a JSON object conforming to it. Without a
	// schema the response Content is the raw model text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]; zero leaves the provider default.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "answer-explanation". It keys the compiled
	// schema cache and is sent as the schema name where a vendor wants one.
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
