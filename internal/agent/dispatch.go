package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"codeagent/internal/agent/model"
	"codeagent/internal/tool"
)

// Dispatcher routes model-requested tool calls to registered handlers.
// Every call produces exactly one result; handler failures of any kind
// become result text, never a crash of the loop.
type Dispatcher struct {
	registry *tool.Registry
	log      *logrus.Entry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *tool.Registry, log *logrus.Entry) *Dispatcher {
	if registry == nil {
		panic("registry is required")
	}
	return &Dispatcher{registry: registry, log: log}
}

// Dispatch executes calls strictly in order and returns one result per
// call, in the same order. Later calls run even when earlier ones fail.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []model.ToolCall) []model.ToolResult {
	results := make([]model.ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, d.dispatchOne(ctx, call))
	}
	return results
}

func (d *Dispatcher) dispatchOne(ctx context.Context, call model.ToolCall) model.ToolResult {
	result := model.ToolResult{ID: call.ID, Name: call.Name}

	if call.ArgsError != "" {
		result.Error = call.ArgsError
		d.logFailure(call, tool.KindInvalidArguments, call.ArgsError)
		return result
	}

	t, ok := d.registry.Get(call.Name)
	if !ok {
		result.Error = fmt.Sprintf("unknown tool %q; available tools: %s",
			call.Name, strings.Join(d.registry.Names(), ", "))
		d.logFailure(call, tool.KindUnknownCapability, result.Error)
		return result
	}

	res, err := d.execute(ctx, t, call.Args)
	if err != nil {
		result.Error = err.Error()
		d.logFailure(call, tool.KindOf(err), result.Error)
		return result
	}

	result.Content = res.Output
	if d.log != nil {
		d.log.WithField("tool", call.Name).Debug("tool call completed")
	}
	return result
}

// execute runs a handler with panic containment. A panicking handler is
// reported as a failed call, not a process crash.
func (d *Dispatcher) execute(ctx context.Context, t tool.Tool, args map[string]any) (res *tool.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = tool.Errorf(tool.KindUnexpectedFailure, "tool %s panicked: %v", t.Name(), r)
		}
	}()
	return t.Execute(ctx, args)
}

func (d *Dispatcher) logFailure(call model.ToolCall, kind tool.Kind, msg string) {
	if d.log == nil {
		return
	}
	d.log.WithFields(logrus.Fields{
		"tool": call.Name,
		"kind": string(kind),
	}).Warn(msg)
}
