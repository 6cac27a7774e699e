package workspace

import (
	"errors"
	"fmt"
)

// RootError is returned when the workspace root is invalid.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid workspace root %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }

var (
	// ErrOutsideRoot is the denial verdict: the candidate path escapes the
	// allowed root, either lexically or through a symlink.
	ErrOutsideRoot = errors.New("path is outside the allowed root")

	// ErrRootNotSet guards against a resolver constructed without a root.
	ErrRootNotSet = errors.New("allowed root not set")

	ErrNotADirectory = errors.New("not a directory")
)
