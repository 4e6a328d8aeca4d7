// Package llm abstracts chat-completion providers behind a single
// interface so generation code does not care which vendor serves it.
// Providers return raw JSON validated against a caller-supplied schema;
// retry, logging and validation are layered on as decorators.
package llm

import (
	"context"
	"encoding/json"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a chat exchange.
type Message struct {
	Role    Role
	Content string
}

// Schema describes the JSON document a request expects back. Definition
// holds a draft 2020-12 JSON Schema as a generic map so each provider
// can translate it to its native structured-output format.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request is a provider-independent chat completion request.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Usage reports token consumption for one completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response is the provider's reply. Content holds the raw JSON document
// when the request carried a schema, otherwise the raw text.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Provider executes chat completion requests against one vendor.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the fully qualified model identifier requests run on.
	ModelID() string
}
