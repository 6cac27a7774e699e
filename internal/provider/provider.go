package provider

import (
	"context"

	"codeagent/internal/agent/model"
)

// Provider is the model-completion interface consumed by the agent loop.
// Implementations must distinguish tool calls from plain text and deliver
// tool arguments as a name/value mapping.
type Provider interface {
	// Generate sends the conversation history to the model and returns
	// either text or one-or-more tool calls.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// DefineTools registers the tool catalog with the provider. Called once
	// at startup, before the first Generate.
	DefineTools(tools []ToolDefinition)

	// Model returns the active model name.
	Model() string
}

// GenerateRequest encapsulates one completion call.
type GenerateRequest struct {
	// History contains the full ordered conversation
	History []model.Message
}

// GenerateResponse contains the model's response and metadata.
type GenerateResponse struct {
	Content  ResponseContent
	Metadata ResponseMetadata
}

// ResponseContent is a union type over the response kinds.
type ResponseContent struct {
	Type ResponseType

	// For Type = ResponseTypeText
	Text string

	// For Type = ResponseTypeToolCall, in the order the model issued them
	ToolCalls []model.ToolCall

	// For Type = ResponseTypeRefusal (safety block)
	RefusalReason string
}

// ResponseType indicates what the model produced.
type ResponseType string

const (
	ResponseTypeText     ResponseType = "text"
	ResponseTypeToolCall ResponseType = "tool_call"
	ResponseTypeRefusal  ResponseType = "refusal"
)

// ResponseMetadata carries token accounting for logging.
type ResponseMetadata struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	ModelUsed        string
}

// ToolDefinition defines a tool the model may invoke.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *ParameterSchema // nil means no parameters
}

// ParameterSchema maps directly to standard JSON Schema.
type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema defines a single parameter property.
type PropertySchema struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Enum        []string        `json:"enum,omitempty"`
	Items       *PropertySchema `json:"items,omitempty"`
}
