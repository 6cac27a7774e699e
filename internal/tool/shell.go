package tool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"codeagent/internal/config"
	"codeagent/internal/executor"
	"codeagent/internal/policy"
)

// ShellRequest carries the arguments for execute_bash_command.
type ShellRequest struct {
	Command string `mapstructure:"command"`
}

func (r ShellRequest) Validate() error {
	if r.Command == "" {
		return fmt.Errorf("command is required")
	}
	return nil
}

type shellRunner interface {
	RunWithTimeout(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*executor.Result, error)
}

// ShellTool implements the execute_bash_command capability. The policy
// gate runs before any process is spawned; a denied command never forks.
type ShellTool struct {
	policy  *policy.CommandPolicy
	runner  shellRunner
	cfg     *config.Config
	workDir string
}

// NewShellTool creates the whitelisted host command handler rooted at
// workDir.
func NewShellTool(pol *policy.CommandPolicy, runner shellRunner, cfg *config.Config, workDir string) *ShellTool {
	if pol == nil {
		panic("policy is required")
	}
	if runner == nil {
		panic("runner is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &ShellTool{policy: pol, runner: runner, cfg: cfg, workDir: workDir}
}

// Execute checks the command against the whitelist and runs it through
// the system shell in the workspace root. A nonzero exit is a normal
// result with the code appended; only spawn failures are errors.
func (t *ShellTool) Execute(ctx context.Context, req ShellRequest) (*Result, error) {
	if err := t.policy.Check(req.Command); err != nil {
		var denied *policy.DeniedError
		if errors.As(err, &denied) {
			return nil, WrapError(KindPermissionDenied, err, "%s", denied.Error())
		}
		return nil, WrapError(KindPermissionDenied, err, "command not permitted: %v", err)
	}

	timeout := time.Duration(t.cfg.Tools.ShellTimeoutSeconds) * time.Second
	res, err := t.runner.RunWithTimeout(ctx, []string{"/bin/sh", "-c", req.Command}, t.workDir, os.Environ(), timeout)
	if err != nil {
		if errors.Is(err, executor.ErrTimeout) {
			output := ""
			if res != nil {
				output = FormatCommandOutput(res.Stdout, res.Stderr, res.ExitCode)
			}
			return nil, WrapError(KindExecutionFailure, err,
				"command timed out after %s\n%s", timeout, output)
		}
		return nil, WrapError(KindExecutionFailure, err, "error executing command: %v", err)
	}

	exitCode := res.ExitCode
	return &Result{
		OK:       true,
		Output:   FormatCommandOutput(res.Stdout, res.Stderr, res.ExitCode),
		ExitCode: &exitCode,
	}, nil
}
