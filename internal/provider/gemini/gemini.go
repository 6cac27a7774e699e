// Package gemini implements the Provider interface on Google Gemini's
// native function calling.
package gemini

import (
	"context"
	"sync"

	"codeagent/internal/provider"
)

// Gemini implements provider.Provider for Google Gemini.
type Gemini struct {
	client    Client
	modelName string
	system    string

	mu    sync.RWMutex
	tools []provider.ToolDefinition
}

// New creates a Gemini provider with the specified client and model. The
// system instruction is sent with every request.
func New(client Client, modelName, system string) *Gemini {
	return &Gemini{
		client:    client,
		modelName: modelName,
		system:    system,
	}
}

// Generate sends the conversation to the Gemini API and returns either
// text or the model's tool calls in issue order.
func (p *Gemini) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	p.mu.RLock()
	model := p.modelName
	tools := p.tools
	p.mu.RUnlock()

	contents := toGeminiContents(req.History)
	config := toGeminiConfig(p.system)
	if len(tools) > 0 {
		config.Tools = toGeminiTools(tools)
	}

	resp, err := p.client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	return fromGeminiResponse(resp, model)
}

// DefineTools registers the tool catalog for native tool calling.
func (p *Gemini) DefineTools(tools []provider.ToolDefinition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tools = tools
}

// Model returns the active model name.
func (p *Gemini) Model() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modelName
}
