// Package executor runs host commands with bounded output capture and
// timeout handling.
package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

// binarySampleSize is the number of leading bytes inspected for binary
// content before output is passed through.
const binarySampleSize = 8000

// Result represents the outcome of a command execution. Nonzero exit is
// reported here, never raised as an error.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// Options bound a single execution.
type Options struct {
	MaxOutputBytes   int64
	GracefulShutdown time.Duration
}

// OSCommandExecutor implements command execution using os/exec.
type OSCommandExecutor struct {
	opts Options
}

// NewOSCommandExecutor creates an executor with the given bounds.
func NewOSCommandExecutor(opts Options) *OSCommandExecutor {
	if opts.MaxOutputBytes < 1 {
		panic("MaxOutputBytes must be positive")
	}
	return &OSCommandExecutor{opts: opts}
}

// Run executes a command and returns the result, buffering output
// internally. Standard output and standard error are captured separately.
func (f *OSCommandExecutor) Run(ctx context.Context, command []string, dir string, env []string) (*Result, error) {
	if len(command) == 0 {
		return nil, os.ErrInvalid
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err}
	}

	stdoutStr, stderrStr, truncated := f.collectOutput(stdoutPipe, stderrPipe)

	err = cmd.Wait()
	exitCode := 0
	if err != nil {
		exitCode = f.getExitCode(err)
	}

	return &Result{
		Stdout:    stdoutStr,
		Stderr:    stderrStr,
		ExitCode:  exitCode,
		Truncated: truncated,
	}, nil
}

// RunWithTimeout executes a command with a timeout and graceful shutdown:
// interrupt first, kill after the grace period. A timed-out run reports
// ErrTimeout with whatever output was collected.
func (f *OSCommandExecutor) RunWithTimeout(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*Result, error) {
	if len(command) == 0 {
		return nil, os.ErrInvalid
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err}
	}

	// Collect output concurrently so it doesn't block the timeout select.
	var stdoutStr, stderrStr string
	var truncated bool
	collectDone := make(chan struct{})
	go func() {
		stdoutStr, stderrStr, truncated = f.collectOutput(stdoutPipe, stderrPipe)
		close(collectDone)
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var execErr error
	select {
	case err := <-done:
		execErr = err
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		execErr = ctx.Err()
	case <-time.After(timeout):
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case <-done:
			execErr = ErrTimeout
		case <-time.After(f.opts.GracefulShutdown):
			_ = cmd.Process.Kill()
			execErr = ErrTimeout
		}
	}

	<-collectDone

	exitCode := 0
	if execErr != nil {
		exitCode = f.getExitCode(execErr)
		if errors.Is(execErr, ErrTimeout) {
			exitCode = -1
		}
	}

	result := &Result{
		Stdout:    stdoutStr,
		Stderr:    stderrStr,
		ExitCode:  exitCode,
		Truncated: truncated,
	}

	if errors.Is(execErr, ErrTimeout) || errors.Is(execErr, context.Canceled) || errors.Is(execErr, context.DeadlineExceeded) {
		return result, execErr
	}
	// Command ran but exited nonzero - the exit code is in the result.
	return result, nil
}

func (f *OSCommandExecutor) collectOutput(stdout, stderr io.Reader) (string, string, bool) {
	maxBytes := int(f.opts.MaxOutputBytes)

	stdoutCollector := newCollector(maxBytes, binarySampleSize)
	stderrCollector := newCollector(maxBytes, binarySampleSize)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, _ = io.Copy(stdoutCollector, stdout)
	}()

	go func() {
		defer wg.Done()
		_, _ = io.Copy(stderrCollector, stderr)
	}()

	wg.Wait()

	truncated := stdoutCollector.Truncated() || stderrCollector.Truncated()
	return stdoutCollector.String(), stderrCollector.String(), truncated
}

func (f *OSCommandExecutor) getExitCode(err error) int {
	if err == nil {
		return 0
	}
	type exitCoder interface {
		ExitCode() int
	}
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}
