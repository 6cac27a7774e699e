// Package sandbox manages the lifecycle of isolated container runs for
// commands that must be contained rather than merely whitelisted.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"codeagent/internal/config"
	"codeagent/internal/executor"
)

// commandRunner abstracts host command execution for the docker CLI.
type commandRunner interface {
	Run(ctx context.Context, command []string, dir string, env []string) (*executor.Result, error)
	RunWithTimeout(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*executor.Result, error)
}

// RunResult captures one sandboxed run. Nonzero exit codes are reported,
// not raised.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	State    State
}

// Executor drives the per-invocation state machine
// Requested -> DaemonChecked -> ContainerCreated -> Running ->
// Completed|Failed -> Destroyed. The container is removed on every exit
// path, including timeout and command failure.
type Executor struct {
	runner    commandRunner
	cfg       *config.Config
	mountRoot string
	log       *logrus.Entry

	// stateHook observes lifecycle transitions; nil outside tests.
	stateHook func(State)
}

// NewExecutor creates a sandbox executor that bind-mounts mountRoot
// read-write at the container working directory.
func NewExecutor(runner commandRunner, cfg *config.Config, mountRoot string, log *logrus.Entry) *Executor {
	if runner == nil {
		panic("runner is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &Executor{
		runner:    runner,
		cfg:       cfg,
		mountRoot: mountRoot,
		log:       log,
	}
}

// NewSpec builds the per-run spec from configuration. An empty image
// selects the configured default.
func (e *Executor) NewSpec(image string) Spec {
	if image == "" {
		image = e.cfg.Sandbox.Image
	}
	return Spec{
		Image:            image,
		MountRoot:        e.mountRoot,
		WorkDir:          e.cfg.Sandbox.WorkDir,
		NetworkEnabled:   false,
		MemoryLimitBytes: parseMemory(e.cfg.Sandbox.Memory),
		CPULimit:         e.cfg.Sandbox.CPUs,
	}
}

// Run executes command inside a fresh container and blocks until the
// container exits or is forcibly torn down. Daemon-unreachable,
// image-not-found, and timeout conditions are returned as distinct
// errors; a nonzero command exit is a successful run with the code in
// the result.
func (e *Executor) Run(ctx context.Context, command string, image string) (*RunResult, error) {
	e.transition(StateRequested)

	if err := e.checkDaemon(ctx); err != nil {
		e.transition(StateFailed)
		e.transition(StateDestroyed)
		return nil, err
	}
	e.transition(StateDaemonChecked)

	spec := e.NewSpec(image)
	name := "codeagent-sbx-" + uuid.NewString()[:8]

	// Removal must happen on every path once the run command has been
	// issued, even when ctx is already cancelled.
	defer e.destroy(ctx, name)

	args := runArgs(name, spec, command)
	e.transition(StateContainerCreated)
	e.transition(StateRunning)

	timeout := time.Duration(e.cfg.Sandbox.TimeoutSeconds) * time.Second
	res, runErr := e.runner.RunWithTimeout(ctx, args, e.mountRoot, nil, timeout)
	if res == nil {
		res = &executor.Result{ExitCode: -1}
	}

	result := &RunResult{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}

	switch {
	case errors.Is(runErr, executor.ErrTimeout):
		e.transition(StateFailed)
		result.State = StateFailed
		return result, fmt.Errorf("%w after %s", ErrRunTimeout, timeout)
	case runErr != nil:
		e.transition(StateFailed)
		result.State = StateFailed
		return result, runErr
	case res.ExitCode != 0 && isImageNotFound(res):
		e.transition(StateFailed)
		result.State = StateFailed
		return result, fmt.Errorf("%w: %q", ErrImageNotFound, spec.Image)
	}

	e.transition(StateCompleted)
	result.State = StateCompleted
	return result, nil
}

// checkDaemon verifies the container runtime is reachable. No retry: an
// unreachable daemon is fatal for this call, not a transient condition.
func (e *Executor) checkDaemon(ctx context.Context) error {
	res, err := e.runner.Run(ctx, []string{"docker", "info"}, e.mountRoot, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: docker info exited with code %d", ErrDaemonUnreachable, res.ExitCode)
	}
	return nil
}

// destroy removes the container regardless of how the run ended. The
// removal context is detached from the caller's cancellation so an
// interrupt during Running still reaches Destroyed.
func (e *Executor) destroy(ctx context.Context, name string) {
	removeCtx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx),
		time.Duration(e.cfg.Sandbox.RemoveTimeoutSeconds)*time.Second,
	)
	defer cancel()

	if _, err := e.runner.Run(removeCtx, []string{"docker", "rm", "-f", name}, e.mountRoot, nil); err != nil {
		if e.log != nil {
			e.log.WithError(err).WithField("container", name).Warn("container removal failed")
		}
	}
	e.transition(StateDestroyed)
}

func (e *Executor) transition(s State) {
	if e.log != nil {
		e.log.WithField("state", string(s)).Debug("sandbox transition")
	}
	if e.stateHook != nil {
		e.stateHook(s)
	}
}

// runArgs builds the docker run invocation. Network access is disabled
// unconditionally and the memory/cpu ceilings are always applied.
func runArgs(name string, spec Spec, command string) []string {
	return []string{
		"docker", "run",
		"--name", name,
		"--network", "none",
		"--memory", strconv.FormatInt(spec.MemoryLimitBytes, 10),
		"--cpus", strconv.FormatFloat(spec.CPULimit, 'f', -1, 64),
		"-v", spec.MountRoot + ":" + spec.WorkDir,
		"-w", spec.WorkDir,
		spec.Image,
		"/bin/sh", "-c", command,
	}
}

// isImageNotFound classifies a failed docker run as a missing image.
// Exit code 125 is the daemon's own failure code; the stderr text
// distinguishes pull failures from other daemon errors.
func isImageNotFound(res *executor.Result) bool {
	if res.ExitCode != 125 {
		return false
	}
	stderr := strings.ToLower(res.Stderr)
	return strings.Contains(stderr, "no such image") ||
		strings.Contains(stderr, "unable to find image") ||
		strings.Contains(stderr, "pull access denied") ||
		strings.Contains(stderr, "not found")
}
