package sandbox

import "errors"

var (
	// ErrDaemonUnreachable means the container runtime did not answer the
	// readiness probe. Fatal for the current invocation only.
	ErrDaemonUnreachable = errors.New("docker daemon is not reachable")

	// ErrImageNotFound means the requested image is neither local nor
	// pullable.
	ErrImageNotFound = errors.New("sandbox image not found")

	// ErrRunTimeout means the command outlived its bounded wait and the
	// container was forcibly torn down.
	ErrRunTimeout = errors.New("sandbox command timed out")
)
