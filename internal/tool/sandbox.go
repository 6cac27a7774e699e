package tool

import (
	"context"
	"errors"
	"fmt"

	"codeagent/internal/sandbox"
)

// SandboxRequest carries the arguments for run_in_sandbox. Image is
// optional and defaults to the configured sandbox image.
type SandboxRequest struct {
	Command string `mapstructure:"command"`
	Image   string `mapstructure:"image"`
}

func (r SandboxRequest) Validate() error {
	if r.Command == "" {
		return fmt.Errorf("command is required")
	}
	return nil
}

type sandboxRunner interface {
	Run(ctx context.Context, command string, image string) (*sandbox.RunResult, error)
}

// SandboxTool implements the run_in_sandbox capability by delegating to
// the container lifecycle executor.
type SandboxTool struct {
	sandbox sandboxRunner
}

// NewSandboxTool creates the sandboxed execution handler.
func NewSandboxTool(sbx sandboxRunner) *SandboxTool {
	if sbx == nil {
		panic("sandbox is required")
	}
	return &SandboxTool{sandbox: sbx}
}

// Execute runs the command in an isolated container. Environment
// failures (daemon down, missing image) are distinguished from command
// failures so the model gets an actionable diagnostic rather than a
// generic error.
func (t *SandboxTool) Execute(ctx context.Context, req SandboxRequest) (*Result, error) {
	res, err := t.sandbox.Run(ctx, req.Command, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, sandbox.ErrDaemonUnreachable):
			return nil, WrapError(KindSandboxUnavailable, err,
				"cannot connect to the container daemon; is it running? (%v)", err)
		case errors.Is(err, sandbox.ErrImageNotFound):
			return nil, WrapError(KindSandboxUnavailable, err,
				"sandbox image unavailable: %v", err)
		case errors.Is(err, sandbox.ErrRunTimeout):
			output := ""
			if res != nil {
				output = FormatCommandOutput(res.Stdout, res.Stderr, res.ExitCode)
			}
			return nil, WrapError(KindExecutionFailure, err,
				"sandboxed command timed out: %v\n%s", err, output)
		default:
			return nil, WrapError(KindExecutionFailure, err, "sandbox execution failed: %v", err)
		}
	}

	exitCode := res.ExitCode
	return &Result{
		OK:       true,
		Output:   FormatCommandOutput(res.Stdout, res.Stderr, res.ExitCode),
		ExitCode: &exitCode,
	}, nil
}
