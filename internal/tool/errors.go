package tool

import (
	"errors"
	"fmt"
)

// Kind classifies tool failures. Every kind is recovered at the
// dispatcher or handler boundary and surfaced as result text fed back to
// the model; none of them terminate the conversation loop.
type Kind string

const (
	KindPermissionDenied   Kind = "PermissionDenied"
	KindNotFound           Kind = "NotFound"
	KindInvalidArguments   Kind = "InvalidArguments"
	KindUnknownCapability  Kind = "UnknownCapability"
	KindExecutionFailure   Kind = "ExecutionFailure"
	KindSandboxUnavailable Kind = "SandboxUnavailable"
	KindUnexpectedFailure  Kind = "UnexpectedFailure"
)

// Error is a classified tool failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Errorf builds a classified error.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies an underlying cause.
func WrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the classification from err, defaulting to
// UnexpectedFailure for unclassified errors.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnexpectedFailure
}
