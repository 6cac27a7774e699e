package sandbox

import (
	units "github.com/docker/go-units"
)

// defaultMemory is applied when the configured limit cannot be parsed.
const defaultMemory = 512 * 1024 * 1024

// Spec describes one container run. It is constructed per invocation and
// owned by the Executor for the lifetime of that run.
type Spec struct {
	Image     string
	MountRoot string
	WorkDir   string

	// NetworkEnabled defaults to false and the executor disables network
	// access unconditionally; the field exists so a run's parameters can
	// be logged and asserted as a unit.
	NetworkEnabled bool

	MemoryLimitBytes int64
	CPULimit         float64
}

// State names a position in the per-invocation lifecycle.
type State string

const (
	StateRequested        State = "requested"
	StateDaemonChecked    State = "daemon_checked"
	StateContainerCreated State = "container_created"
	StateRunning          State = "running"
	StateCompleted        State = "completed"
	StateFailed           State = "failed"
	StateDestroyed        State = "destroyed"
)

// parseMemory converts a human-readable size ("512m") to bytes, falling
// back to the default ceiling on parse failure. Config validation rejects
// bad values up front, so the fallback only guards hand-built specs.
func parseMemory(size string) int64 {
	bytes, err := units.RAMInBytes(size)
	if err != nil || bytes < 1 {
		return defaultMemory
	}
	return bytes
}
