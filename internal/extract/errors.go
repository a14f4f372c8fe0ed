package extract

import (
	"fmt"
	"strconv"
	"time"
)

// MalformedOutputError indicates a batch response from the model could not be
// parsed into the invoice array contract. The whole batch response is
// unusable, so this is never silently defaulted.
type MalformedOutputError struct {
	Err error
	Raw string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v (raw: %s)", e.Err, e.Raw)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// NewMalformedOutputError creates a MalformedOutputError keeping a truncated
// copy of the response text for logs.
func NewMalformedOutputError(err error, raw string) *MalformedOutputError {
	return &MalformedOutputError{Err: err, Raw: truncate(raw, 500)}
}

// RateLimitError indicates a model provider throttled the request.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
