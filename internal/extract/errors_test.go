package extract_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"invomail/internal/extract"
)

func TestRateLimitError_ErrorString(t *testing.T) {
	underlying := fmt.Errorf("rate limited")
	rlErr := extract.NewRateLimitError("bedrock", underlying, 30)

	assert.Contains(t, rlErr.Error(), "bedrock")
	assert.Contains(t, rlErr.Error(), "rate limited")
	assert.Contains(t, rlErr.Error(), "30s")
}

func TestRateLimitError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	rlErr := extract.NewRateLimitError("anthropic", underlying, 60)

	assert.Equal(t, underlying, errors.Unwrap(rlErr))
}

func TestRateLimitError_ErrorsAs(t *testing.T) {
	underlying := fmt.Errorf("rate limited")
	rlErr := extract.NewRateLimitError("bedrock", underlying, 30)

	// Wrap it further
	wrapped := fmt.Errorf("submitting batch: %w", rlErr)

	var target *extract.RateLimitError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "bedrock", target.Provider)
	assert.Equal(t, 30*time.Second, target.RetryAfter)
}

func TestNewRateLimitError_DefaultRetryAfter(t *testing.T) {
	rlErr := extract.NewRateLimitError("anthropic", fmt.Errorf("err"), 0)

	assert.Equal(t, 60*time.Second, rlErr.RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, extract.ParseRetryAfterHeader(""))
	assert.Equal(t, 30, extract.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, extract.ParseRetryAfterHeader("invalid"))
	assert.Equal(t, 120, extract.ParseRetryAfterHeader("120"))
}

func TestMalformedOutputError_TruncatesRaw(t *testing.T) {
	raw := strings.Repeat("x", 600)
	mErr := extract.NewMalformedOutputError(fmt.Errorf("no JSON array found"), raw)

	assert.Contains(t, mErr.Error(), "no JSON array found")
	assert.Contains(t, mErr.Raw, "...")
	assert.Less(t, len(mErr.Raw), 600)
}

func TestMalformedOutputError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("invalid JSON")
	mErr := extract.NewMalformedOutputError(underlying, "raw text")

	assert.Equal(t, underlying, errors.Unwrap(mErr))
	assert.Equal(t, "raw text", mErr.Raw)
}
