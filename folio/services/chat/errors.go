package chat

import (
	"fmt"
	"math"
	"time"
)

// ValidationError means the request body is unusable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConfigurationError means upstream credentials are missing. Nothing was sent.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// QuotaExceededError means the session has used its allowance for the window.
type QuotaExceededError struct {
	SessionID    string
	MaxQuestions int
	// ResetsAt is when the current window ends and questions are allowed again.
	ResetsAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return "Question limit reached"
}

// UserMessage is the text shown to the visitor.
func (e *QuotaExceededError) UserMessage() string {
	return fmt.Sprintf("You've reached the limit of %d questions per session. Please come back later to ask more.", e.MaxQuestions)
}

// RetryAfter is the wait until ResetsAt in whole seconds, at least 1.
func (e *QuotaExceededError) RetryAfter(now time.Time) int {
	secs := int(math.Ceil(e.ResetsAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// UpstreamError carries a non-2xx reply from the completion service.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return "Error communicating with completion API"
}

// TransportError wraps a failure to reach the completion service or to read
// what it sent back.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "Internal server error"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
