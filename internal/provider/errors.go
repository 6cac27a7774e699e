package provider

import "fmt"

// ErrorCode classifies provider transport failures.
type ErrorCode string

const (
	ErrorCodeAuth           ErrorCode = "auth"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
	ErrorCodeUnavailable    ErrorCode = "unavailable"
	ErrorCodeNetwork        ErrorCode = "network"
)

// ProviderError wraps an underlying API failure. Transport-level failures
// are the only errors that terminate the agent loop.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Underlying }
