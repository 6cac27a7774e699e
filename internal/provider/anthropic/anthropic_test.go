package anthropic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeagent/internal/agent/model"
	"codeagent/internal/provider"
)

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Options{Model: "claude-sonnet-4-20250514"})
	assert.Error(t, err)

	p, err := New(Options{Token: "key", Model: "claude-sonnet-4-20250514"})
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", p.Model())
}

func TestRenderCatalog(t *testing.T) {
	catalog := renderCatalog([]provider.ToolDefinition{
		{
			Name:        "read_file",
			Description: "Reads a file.",
			Parameters: &provider.ParameterSchema{
				Type: "object",
				Properties: map[string]provider.PropertySchema{
					"path": {Type: "string"},
				},
				Required: []string{"path"},
			},
		},
		{Name: "list_files", Description: "Lists files."},
	})

	assert.Contains(t, catalog, "tool: tool_name(")
	assert.Contains(t, catalog, "read_file: Reads a file.")
	assert.Contains(t, catalog, "list_files: Lists files.")
	assert.Contains(t, catalog, `"required":["path"]`)
}

func TestRenderCatalogEmpty(t *testing.T) {
	assert.Empty(t, renderCatalog(nil))
}

func TestRenderMessage(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		got := renderMessage(model.Message{Role: model.RoleUser, Content: "hello"})
		assert.Equal(t, "hello", got)
	})

	t.Run("assistant turn with invocation", func(t *testing.T) {
		got := renderMessage(model.Message{
			Role:      model.RoleModel,
			Content:   "Checking.",
			ToolCalls: []model.ToolCall{{Name: "list_files", Args: map[string]any{}}},
		})
		lines := strings.Split(got, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Checking.", lines[0])
		assert.Equal(t, "tool: list_files({})", lines[1])
	})

	t.Run("tool results become labeled text", func(t *testing.T) {
		got := renderMessage(model.Message{
			Role: model.RoleTool,
			ToolResults: []model.ToolResult{
				{Name: "read_file", Content: "package main"},
				{Name: "list_files", Error: "access denied"},
			},
		})
		assert.Contains(t, got, "Result of read_file:\npackage main")
		assert.Contains(t, got, "Result of list_files:\nError: access denied")
	})
}
