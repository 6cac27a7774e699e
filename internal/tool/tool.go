// Package tool defines the capability handlers a model may invoke and
// the registry that maps capability names to them.
package tool

import (
	"context"

	"github.com/mitchellh/mapstructure"

	"codeagent/internal/provider"
)

// Tool represents a capability the model can request.
// Each tool must be stateless and safe for concurrent use.
type Tool interface {
	// Name returns the unique identifier for this tool
	Name() string

	// Description returns a human-readable description
	Description() string

	// Definition returns the structured tool definition for the provider
	Definition() provider.ToolDefinition

	// Execute runs the tool with the argument mapping provided by the
	// model. Failures are returned as classified errors; they are folded
	// into result text at the dispatcher boundary.
	Execute(ctx context.Context, args map[string]any) (*Result, error)
}

// Validator is implemented by request types that support validation.
type Validator interface {
	Validate() error
}

// Handler executes a capability with a typed, validated request.
type Handler[Req any] func(ctx context.Context, req Req) (*Result, error)

// spec binds a capability name and argument schema to its handler. It
// centralizes argument decoding (mapstructure), request validation, and
// error classification so individual handlers stay typed.
type spec[Req any] struct {
	name        string
	description string
	definition  provider.ToolDefinition
	run         Handler[Req]
}

// NewSpec creates a registry entry from a (name, schema, handler) triple.
func NewSpec[Req any](
	name string,
	description string,
	params *provider.ParameterSchema,
	run Handler[Req],
) Tool {
	return &spec[Req]{
		name:        name,
		description: description,
		definition: provider.ToolDefinition{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
		run: run,
	}
}

func (s *spec[Req]) Name() string { return s.name }

func (s *spec[Req]) Description() string { return s.description }

func (s *spec[Req]) Definition() provider.ToolDefinition { return s.definition }

// Execute decodes the argument mapping into the typed request, validates
// it, and invokes the handler. Malformed arguments produce an
// InvalidArguments error, never a crash.
func (s *spec[Req]) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	var req Req

	if err := mapstructure.Decode(args, &req); err != nil {
		return nil, WrapError(KindInvalidArguments, err, "invalid arguments for %s: %v", s.name, err)
	}

	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, WrapError(KindInvalidArguments, err, "%s validation failed: %v", s.name, err)
		}
	}

	return s.run(ctx, req)
}
