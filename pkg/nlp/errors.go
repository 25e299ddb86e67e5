package nlp

import (
	"errors"
	"strings"
)

// Common LLM client errors
var (
	// ErrRateLimit indicates the rate limit has been exceeded
	ErrRateLimit = errors.New("rate limit exceeded, try again later")

	// ErrEmptyResponse indicates the LLM returned an empty response
	ErrEmptyResponse = errors.New("the LLM returned an empty response")
)

// RateLimitError represents a rate limit error with optional custom message.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return ErrRateLimit.Error()
	}
	return e.Message
}

// Is allows errors.Is(err, &RateLimitError{}) to match wrapped errors.
func (e *RateLimitError) Is(target error) bool {
	_, ok := target.(*RateLimitError)
	return ok
}

// NewRateLimitError creates a new rate limit error.
func NewRateLimitError(message string) *RateLimitError {
	return &RateLimitError{Message: message}
}

// IsRetriable reports whether an error from the chat API is worth retrying.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retriable := []string{
		"timeout",
		"connection",
		"internal server error",
		"service unavailable",
		"bad gateway",
		"gateway timeout",
	}
	for _, s := range retriable {
		if strings.Contains(errStr, s) {
			return true
		}
	}
	return false
}
