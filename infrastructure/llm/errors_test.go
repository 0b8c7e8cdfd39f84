package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderError_Error(t *testing.T) {
	err := NewProviderError("openai", ErrorTypeRateLimit, 429, "quota exceeded", errors.New("wrapped"))

	msg := err.Error()
	assert.Contains(t, msg, "openai error")
	assert.Contains(t, msg, "HTTP 429")
	assert.Contains(t, msg, "rate_limit")
	assert.Contains(t, msg, "quota exceeded")
	assert.Contains(t, msg, "wrapped")
}

func TestProviderError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewProviderError("claude", ErrorTypeNetwork, 0, "failed", inner)
	assert.ErrorIs(t, err, inner)
}

func TestProviderError_IsRetryable(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    bool
	}{
		{ErrorTypeRateLimit, true},
		{ErrorTypeServerError, true},
		{ErrorTypeNetwork, true},
		{ErrorTypeAuthentication, false},
		{ErrorTypeBadRequest, false},
		{ErrorTypeNotFound, false},
		{ErrorTypeContentPolicy, false},
		{ErrorTypeParse, false},
	}

	for _, tt := range tests {
		err := NewProviderError("openai", tt.errType, 0, "", nil)
		assert.Equal(t, tt.want, err.IsRetryable(), "type %v", tt.errType)
	}
}

func TestErrorClassifier_ClassifyHTTPError(t *testing.T) {
	classifier := &ErrorClassifier{Provider: "claude"}

	tests := []struct {
		status int
		want   ErrorType
	}{
		{400, ErrorTypeBadRequest},
		{401, ErrorTypeAuthentication},
		{403, ErrorTypeAuthentication},
		{404, ErrorTypeNotFound},
		{418, ErrorTypeBadRequest},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{599, ErrorTypeServerError},
	}

	for _, tt := range tests {
		err := classifier.ClassifyHTTPError(tt.status, "claude-opus-4-20250514", "message", nil)
		assert.Equal(t, tt.want, err.Type, "status %d", tt.status)
		assert.Equal(t, tt.status, err.StatusCode)
		assert.Equal(t, "claude", err.Provider)
	}
}

func TestErrorClassifier_BadRequestNamesModel(t *testing.T) {
	classifier := &ErrorClassifier{Provider: "openai"}

	err := classifier.ClassifyHTTPError(400, "gpt-4o", "temperature must be between 0 and 2", nil)

	assert.Equal(t, ErrorTypeBadRequest, err.Type)
	assert.Contains(t, err.Message, `"gpt-4o"`)
	assert.Contains(t, err.Message, "temperature must be between 0 and 2")
}

func TestErrorClassifier_ClassifyModelNotFound(t *testing.T) {
	classifier := &ErrorClassifier{Provider: "gemini"}

	err := classifier.ClassifyModelNotFound("gemini-1.5-flsh", "vendor says no", nil)
	assert.Equal(t, ErrorTypeNotFound, err.Type)
	assert.Contains(t, err.Message, `"gemini-1.5-flsh" not found`)
	assert.Contains(t, err.Message, `try "gemini-1.5-flash" instead`)
	assert.Contains(t, err.Message, "vendor says no")
}

func TestErrorClassifier_ClassifyParseFailure_Truncates(t *testing.T) {
	classifier := &ErrorClassifier{Provider: "openai"}

	long := strings.Repeat("x", 500)
	err := classifier.ClassifyParseFailure(long, errors.New("bad json"))

	require.Equal(t, ErrorTypeParse, err.Type)
	assert.Contains(t, err.Message, strings.Repeat("x", 200)+"...")
	assert.Less(t, len(err.Message), 300)
}
