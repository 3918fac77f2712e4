package llm

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall // assistant turns that requested tools
	ToolCallID string     // tool turns, the call being answered
	Name       string     // tool turns, the tool that produced Content
}

// ToolCall is a model request to run a tool. Arguments is the raw JSON object.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDefinition describes a callable tool with a JSON schema for its arguments.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// ToolChoiceNone keeps the tools declared but forbids calling them, so a
// history that already holds tool turns stays valid for the provider.
const ToolChoiceNone = "none"

// Option allows for optional parameters like Temperature, Tools, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Tools       []ToolDefinition
	ToolChoice  string // empty lets the model decide
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithTools(tools ...ToolDefinition) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

func WithToolChoice(choice string) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// NewOptions applies opts over the defaults shared by every provider.
func NewOptions(opts ...Option) *Options {
	options := &Options{
		Temperature: 0.2,
		MaxTokens:   1024,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends the history and returns either text or tool calls.
	Chat(ctx context.Context, history []Message, options ...Option) (*Response, error)
}
