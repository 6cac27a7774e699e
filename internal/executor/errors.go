package executor

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a command exceeds its timeout.
var ErrTimeout = errors.New("command timeout")

// CommandError is returned when a command cannot be started.
type CommandError struct {
	Cmd   string
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed to start: %v", e.Cmd, e.Cause)
}
func (e *CommandError) Unwrap() error { return e.Cause }
