package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"codeagent/internal/agent/model"
	"codeagent/internal/provider"
)

func TestToGeminiContents(t *testing.T) {
	history := []model.Message{
		{Role: model.RoleUser, Content: "list the files"},
		{Role: model.RoleModel, ToolCalls: []model.ToolCall{
			{ID: "1", Name: "list_files", Args: map[string]any{"path": "."}},
		}},
		{Role: model.RoleTool, ToolResults: []model.ToolResult{
			{ID: "1", Name: "list_files", Content: "a.txt"},
		}},
	}

	contents := toGeminiContents(history)
	require.Len(t, contents, 3)

	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "list the files", contents[0].Parts[0].Text)

	assert.Equal(t, "model", contents[1].Role)
	require.NotNil(t, contents[1].Parts[0].FunctionCall)
	assert.Equal(t, "list_files", contents[1].Parts[0].FunctionCall.Name)

	assert.Equal(t, "user", contents[2].Role)
	require.NotNil(t, contents[2].Parts[0].FunctionResponse)
	assert.Equal(t, map[string]any{"content": "a.txt"}, contents[2].Parts[0].FunctionResponse.Response)
}

func TestToGeminiContentsFailedResult(t *testing.T) {
	contents := toGeminiContents([]model.Message{
		{Role: model.RoleTool, ToolResults: []model.ToolResult{
			{Name: "read_file", Error: "access denied"},
		}},
	})
	require.Len(t, contents, 1)
	assert.Equal(t, map[string]any{"content": "Error: access denied"},
		contents[0].Parts[0].FunctionResponse.Response)
}

func TestToGeminiContentsSkipsEmptyMessages(t *testing.T) {
	contents := toGeminiContents([]model.Message{{Role: model.RoleUser}})
	assert.Empty(t, contents)
}

func TestToGeminiTools(t *testing.T) {
	tools := toGeminiTools([]provider.ToolDefinition{
		{
			Name:        "write_file",
			Description: "Writes a file.",
			Parameters: &provider.ParameterSchema{
				Type: "object",
				Properties: map[string]provider.PropertySchema{
					"path":    {Type: "string", Description: "target path"},
					"content": {Type: "string"},
				},
				Required: []string{"path", "content"},
			},
		},
	})

	require.Len(t, tools, 1)
	require.Len(t, tools[0].FunctionDeclarations, 1)

	fd := tools[0].FunctionDeclarations[0]
	assert.Equal(t, "write_file", fd.Name)
	require.NotNil(t, fd.Parameters)
	assert.Equal(t, genai.TypeObject, fd.Parameters.Type)
	assert.Equal(t, genai.TypeString, fd.Parameters.Properties["path"].Type)
	assert.Equal(t, []string{"path", "content"}, fd.Parameters.Required)
}

func TestToGeminiConfigSetsSystemAndSafety(t *testing.T) {
	cfg := toGeminiConfig("be helpful")
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be helpful", cfg.SystemInstruction.Parts[0].Text)
	assert.Len(t, cfg.SafetySettings, 4)
	for _, s := range cfg.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdOff, s.Threshold)
	}
}

func TestFromGeminiResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "done"}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     10,
			CandidatesTokenCount: 5,
			TotalTokenCount:      15,
		},
	}

	got, err := fromGeminiResponse(resp, "gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, provider.ResponseTypeText, got.Content.Type)
	assert.Equal(t, "done", got.Content.Text)
	assert.Equal(t, 15, got.Metadata.TotalTokens)
	assert.Equal(t, "gemini-2.0-flash", got.Metadata.ModelUsed)
}

func TestFromGeminiResponseToolCalls(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{FunctionCall: &genai.FunctionCall{Name: "read_file", Args: map[string]any{"path": "a.go"}}},
				{FunctionCall: &genai.FunctionCall{Name: "read_file", Args: map[string]any{"path": "b.go"}}},
			}},
		}},
	}

	got, err := fromGeminiResponse(resp, "gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, provider.ResponseTypeToolCall, got.Content.Type)
	require.Len(t, got.Content.ToolCalls, 2)
	assert.Equal(t, "a.go", got.Content.ToolCalls[0].Args["path"])
	assert.Equal(t, "b.go", got.Content.ToolCalls[1].Args["path"])
	assert.NotEmpty(t, got.Content.ToolCalls[0].ID)
	assert.NotEqual(t, got.Content.ToolCalls[0].ID, got.Content.ToolCalls[1].ID)
}

func TestFromGeminiResponseSafetyBlock(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonSafety,
		}},
	}

	got, err := fromGeminiResponse(resp, "gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, provider.ResponseTypeRefusal, got.Content.Type)
	assert.NotEmpty(t, got.Content.RefusalReason)
}

func TestFromGeminiResponseNoCandidates(t *testing.T) {
	_, err := fromGeminiResponse(&genai.GenerateContentResponse{}, "gemini-2.0-flash")
	require.Error(t, err)

	var perr *provider.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, provider.ErrorCodeInvalidRequest, perr.Code)
}
