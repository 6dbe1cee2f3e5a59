package llm

import (
	"context"
	"encoding/json"
)

// Role constants shared across providers and the transcript store.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Message represents a chat message in a provider-agnostic format.
type Message struct {
	Role    string
	Content string

	// ToolCalls is set on assistant messages that request tool execution
	// instead of (or in addition to) final text.
	ToolCalls []ToolCall

	// ToolName is set on tool-role messages carrying an execution result.
	ToolName string
}

// ToolCall is a single invocation request emitted by the model.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// ToolSpec describes one callable function in the catalog handed to the
// model. Parameters is a JSON-schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// StreamResult is the outcome of one streamed model call.
type StreamResult struct {
	Content   string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend.
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the full response.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream sends history plus a tool catalog, invoking onToken for
	// every content delta as it arrives. Tool invocation requests are
	// collected into the result rather than streamed.
	ChatStream(ctx context.Context, history []Message, tools []ToolSpec, onToken func(token string), options ...Option) (*StreamResult, error)
}
