package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"codeagent/internal/agent/model"
)

// markerPrefix introduces a textual tool invocation. Models without
// native tool calling are instructed to emit one marker per line:
//
//	tool: read_file({"path": "main.go"})
//
// Everything else in the reply is treated as plain text.
const markerPrefix = "tool: "

// parseMarkers scans a model reply for tool invocation markers and
// returns the calls in the order they appear, plus the reply text with
// marker lines removed. A marker whose argument payload is not valid
// JSON still yields a call, with ArgsError set, so the failure is
// reported back to the model instead of being silently dropped.
func parseMarkers(reply string) ([]model.ToolCall, string) {
	var calls []model.ToolCall
	var text []string

	for _, line := range strings.Split(reply, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, markerPrefix) {
			text = append(text, line)
			continue
		}

		call, err := parseMarkerLine(strings.TrimPrefix(trimmed, markerPrefix))
		if err != nil {
			call.ArgsError = err.Error()
		}
		calls = append(calls, call)
	}

	return calls, strings.TrimSpace(strings.Join(text, "\n"))
}

// parseMarkerLine decodes `name({json})` into a tool call.
func parseMarkerLine(body string) (model.ToolCall, error) {
	call := model.ToolCall{ID: uuid.NewString()}

	open := strings.Index(body, "(")
	end := strings.LastIndex(body, ")")
	if open < 1 || end < open {
		call.Name = strings.TrimSpace(body)
		return call, fmt.Errorf("malformed tool invocation %q: expected name({...})", body)
	}

	call.Name = strings.TrimSpace(body[:open])
	payload := strings.TrimSpace(body[open+1 : end])
	if payload == "" {
		payload = "{}"
	}

	args := make(map[string]any)
	if err := json.Unmarshal([]byte(payload), &args); err != nil {
		return call, fmt.Errorf("invalid JSON arguments for %s: %v", call.Name, err)
	}
	call.Args = args
	return call, nil
}

// encodeMarker renders a tool call back to its marker form, used when
// replaying assistant turns that contained invocations.
func encodeMarker(call model.ToolCall) string {
	payload, err := json.Marshal(call.Args)
	if err != nil || call.Args == nil {
		payload = []byte("{}")
	}
	return fmt.Sprintf("%s%s(%s)", markerPrefix, call.Name, payload)
}
