package model

// Role values for conversation messages.
const (
	RoleUser  = "user"
	RoleModel = "model"
	RoleTool  = "tool"
)

// Message represents a single turn in the conversation history.
// History is append-only and owned by the agent loop; the ordered
// sequence is the context sent to the model on every completion call.
type Message struct {
	Role    string
	Content string

	// For model messages that requested tool calls
	ToolCalls []ToolCall

	// For tool messages carrying execution results
	ToolResults []ToolResult
}

// ToolCall represents a single tool invocation requested by the model.
// It is immutable once constructed and consumed exactly once.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any

	// ArgsError is set when the provider recognised a call but could not
	// decode its argument payload. The call still flows through dispatch
	// so the failure is reported back to the model as a result.
	ArgsError string
}

// ToolResult is the outcome of executing one tool call.
type ToolResult struct {
	ID      string // Matches ToolCall.ID
	Name    string // Tool name
	Content string // Result payload fed back to the model
	Error   string // Error text if the call was refused or failed
}

// Text returns the payload that becomes the tool-result turn content.
// Failed calls surface their error as conversational text so the model
// can react; they never terminate the loop.
func (r ToolResult) Text() string {
	if r.Error != "" {
		return "Error: " + r.Error
	}
	return r.Content
}
