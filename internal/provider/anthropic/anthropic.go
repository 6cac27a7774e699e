// Package anthropic implements the Provider interface on the Anthropic
// Messages API. Claude is driven through a textual invocation protocol:
// the tool catalog is rendered into the system prompt and tool calls
// come back as marker lines in the reply text.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"codeagent/internal/agent/model"
	"codeagent/internal/provider"
)

// Options configures the Anthropic provider.
type Options struct {
	Token     string
	BaseURL   string
	Model     string
	MaxTokens int64
	System    string
}

// Anthropic implements provider.Provider for Claude models.
type Anthropic struct {
	api       *anthropicsdk.Client
	modelName string
	maxTokens int64
	system    string

	mu      sync.RWMutex
	catalog string
}

// New creates an Anthropic provider.
func New(opts Options) (*Anthropic, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, errors.New("missing token")
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(token),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(base, "/")))
	}
	client := anthropicsdk.NewClient(reqOpts...)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &Anthropic{
		api:       &client,
		modelName: strings.TrimSpace(opts.Model),
		maxTokens: maxTokens,
		system:    opts.System,
	}, nil
}

// Generate sends the conversation and decodes any tool invocation
// markers from the reply. Markers parse in line order, so multi-call
// replies preserve the order the model issued them.
func (p *Anthropic) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	params := p.buildMessageParams(req.History)

	msg, err := p.api.Messages.New(ctx, params)
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	reply := strings.TrimSpace(extractText(msg.Content))
	content := provider.ResponseContent{Type: provider.ResponseTypeText, Text: reply}

	if calls, rest := parseMarkers(reply); len(calls) > 0 {
		content = provider.ResponseContent{
			Type:      provider.ResponseTypeToolCall,
			Text:      rest,
			ToolCalls: calls,
		}
	}

	return &provider.GenerateResponse{
		Content: content,
		Metadata: provider.ResponseMetadata{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
			ModelUsed:        p.modelName,
		},
	}, nil
}

// DefineTools renders the catalog into the instruction block sent with
// every request.
func (p *Anthropic) DefineTools(tools []provider.ToolDefinition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.catalog = renderCatalog(tools)
}

// Model returns the active model name.
func (p *Anthropic) Model() string { return p.modelName }

func (p *Anthropic) buildMessageParams(history []model.Message) anthropicsdk.MessageNewParams {
	p.mu.RLock()
	catalog := p.catalog
	p.mu.RUnlock()

	var system []anthropicsdk.TextBlockParam
	if p.system != "" {
		system = append(system, anthropicsdk.TextBlockParam{Text: p.system})
	}
	if catalog != "" {
		system = append(system, anthropicsdk.TextBlockParam{Text: catalog})
	}

	var messages []anthropicsdk.MessageParam
	for _, msg := range history {
		text := renderMessage(msg)
		if text == "" {
			continue
		}
		switch msg.Role {
		case model.RoleModel:
			messages = append(messages, anthropicsdk.NewAssistantMessage(anthropicsdk.NewTextBlock(text)))
		default:
			messages = append(messages, anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(text)))
		}
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(p.modelName),
		MaxTokens: p.maxTokens,
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}
	return params
}

// renderMessage flattens a history turn to text. Assistant invocations
// are replayed in marker form; tool results become labeled user text.
func renderMessage(msg model.Message) string {
	var parts []string
	if strings.TrimSpace(msg.Content) != "" {
		parts = append(parts, strings.TrimSpace(msg.Content))
	}
	for _, call := range msg.ToolCalls {
		parts = append(parts, encodeMarker(call))
	}
	for _, result := range msg.ToolResults {
		parts = append(parts, fmt.Sprintf("Result of %s:\n%s", result.Name, result.Text()))
	}
	return strings.Join(parts, "\n")
}

// renderCatalog describes the available tools and the marker protocol.
func renderCatalog(tools []provider.ToolDefinition) string {
	if len(tools) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("You have access to the following tools. To invoke one, reply with a line of the exact form:\n\n")
	sb.WriteString("tool: tool_name({\"arg\": \"value\"})\n\n")
	sb.WriteString("Emit one line per invocation and nothing else on that line. ")
	sb.WriteString("You may issue several invocations in a single reply; they run in order. ")
	sb.WriteString("The results are returned to you before you answer the user.\n\nAvailable tools:\n")

	for _, tool := range tools {
		sb.WriteString(fmt.Sprintf("\n- %s: %s\n", tool.Name, tool.Description))
		if tool.Parameters != nil {
			if schema, err := json.Marshal(tool.Parameters); err == nil {
				sb.WriteString(fmt.Sprintf("  arguments schema: %s\n", schema))
			}
		}
	}
	return sb.String()
}

func extractText(blocks []anthropicsdk.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range blocks {
		switch v := block.AsAny().(type) {
		case anthropicsdk.TextBlock:
			sb.WriteString(v.Text)
		}
	}
	return sb.String()
}

// mapAnthropicError classifies SDK failures into provider errors.
func mapAnthropicError(err error) error {
	var apiErr *anthropicsdk.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeAuth,
				Message:    "authentication failed",
				Underlying: err,
			}
		case 429:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeRateLimit,
				Message:    "rate limit exceeded",
				Underlying: err,
				Retryable:  true,
			}
		case 400:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeInvalidRequest,
				Message:    "invalid request",
				Underlying: err,
			}
		case 500, 502, 503, 504, 529:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeUnavailable,
				Message:    "service unavailable",
				Underlying: err,
				Retryable:  true,
			}
		}
	}
	return &provider.ProviderError{
		Code:       provider.ErrorCodeNetwork,
		Message:    "network error",
		Underlying: err,
		Retryable:  true,
	}
}
