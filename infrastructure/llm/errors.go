package llm

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by providers.
var (
	// ErrEmptyAPIKey indicates that an API key was required but not provided.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
	// ErrEmptyResponse indicates the vendor returned an empty response body.
	ErrEmptyResponse = errors.New("empty response from API")
	// ErrNoResponseChoice indicates the vendor response contained no usable
	// content (no choices, no candidates, or empty text).
	ErrNoResponseChoice = errors.New("no response content returned")
)

// ErrorType classifies a provider failure so callers can choose the right
// remediation: fix configuration, wait and retry, or check connectivity.
type ErrorType int

const (
	// ErrorTypeUnknown indicates an error of an undetermined category.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuthentication indicates an invalid or insufficient API key.
	ErrorTypeAuthentication
	// ErrorTypeRateLimit indicates the vendor's quota was exceeded.
	ErrorTypeRateLimit
	// ErrorTypeBadRequest indicates a malformed request or unsupported parameter.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates an unknown or deprecated model identifier.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a failure on the vendor's side.
	ErrorTypeServerError
	// ErrorTypeContentPolicy indicates the vendor's safety filter blocked the request.
	ErrorTypeContentPolicy
	// ErrorTypeNoContent indicates the vendor replied but with no usable text.
	ErrorTypeNoContent
	// ErrorTypeParse indicates JSON repair could not produce parseable output.
	ErrorTypeParse
	// ErrorTypeNetwork indicates a transport-level failure (DNS, refused, timeout).
	ErrorTypeNetwork
)

// ProviderError normalizes vendor-specific failures into one shape while
// retaining enough vendor context to keep configuration errors, vendor
// errors, and transient network errors distinguishable.
type ProviderError struct {
	// Type classifies the error into a standard category.
	Type ErrorType
	// Provider names the vendor that produced the error.
	Provider string
	// StatusCode holds the vendor HTTP status, if applicable.
	StatusCode int
	// Message is the user-facing message.
	Message string
	// WrappedError is the underlying error for chaining.
	WrappedError error
}

// Error satisfies the error interface.
func (e *ProviderError) Error() string {
	base := fmt.Sprintf("%s error", e.Provider)
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}

	if ts := e.typeString(); ts != "" {
		base += fmt.Sprintf(" [%s]", ts)
	}

	if e.Message != "" {
		base += ": " + e.Message
	}

	if e.WrappedError != nil {
		base += fmt.Sprintf(": %v", e.WrappedError)
	}

	return base
}

// Unwrap returns the underlying error for errors.Is/As inspection.
func (e *ProviderError) Unwrap() error { return e.WrappedError }

// IsRetryable reports whether the failure is transient. Callers own
// backoff; adapters never retry internally.
func (e *ProviderError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

func (e *ProviderError) typeString() string {
	switch e.Type {
	case ErrorTypeAuthentication:
		return "authentication"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeBadRequest:
		return "bad_request"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeServerError:
		return "server_error"
	case ErrorTypeContentPolicy:
		return "content_policy"
	case ErrorTypeNoContent:
		return "no_content"
	case ErrorTypeParse:
		return "parse_failure"
	case ErrorTypeNetwork:
		return "network"
	default:
		return ""
	}
}

// NewProviderError builds a standardized ProviderError.
func NewProviderError(provider string, errType ErrorType, statusCode int, message string, wrapped error) *ProviderError {
	return &ProviderError{
		Type:         errType,
		Provider:     provider,
		StatusCode:   statusCode,
		Message:      message,
		WrappedError: wrapped,
	}
}

// ErrorClassifier turns vendor-specific errors into ProviderError values
// using HTTP status codes and context state.
type ErrorClassifier struct {
	// Provider is the vendor name this classifier reports.
	Provider string
}

// ClassifyHTTPError maps a vendor HTTP status to a ProviderError. Bad
// requests name the model that triggered the rejection alongside the
// vendor message; 404s go through ClassifyModelNotFound for a suggested
// replacement.
func (ec *ErrorClassifier) ClassifyHTTPError(statusCode int, model, message string, err error) *ProviderError {
	var errType ErrorType
	userMessage := message

	switch statusCode {
	case 401, 403:
		errType = ErrorTypeAuthentication
		userMessage = fmt.Sprintf("%s authentication failed: %s", ec.Provider, message)
	case 429:
		errType = ErrorTypeRateLimit
		userMessage = fmt.Sprintf("%s rate limit exceeded: %s", ec.Provider, message)
	case 400:
		errType = ErrorTypeBadRequest
		userMessage = fmt.Sprintf("%s rejected the request for model %q: %s", ec.Provider, model, message)
	case 404:
		errType = ErrorTypeNotFound
	case 500, 502, 503, 504:
		errType = ErrorTypeServerError
	default:
		if statusCode >= 400 && statusCode < 500 {
			errType = ErrorTypeBadRequest
		} else if statusCode >= 500 {
			errType = ErrorTypeServerError
		} else {
			errType = ErrorTypeUnknown
		}
	}

	return NewProviderError(ec.Provider, errType, statusCode, userMessage, err)
}

// ClassifyModelNotFound builds the 404 error for an unknown model,
// embedding both the offending model name and a suggested replacement.
func (ec *ErrorClassifier) ClassifyModelNotFound(model, vendorMessage string, err error) *ProviderError {
	message := fmt.Sprintf("model %q not found", model)
	if suggestion := SuggestModel(ec.Provider, model); suggestion != "" {
		message += fmt.Sprintf(" (try %q instead)", suggestion)
	}
	if vendorMessage != "" {
		message += ": " + vendorMessage
	}
	return NewProviderError(ec.Provider, ErrorTypeNotFound, 404, message, err)
}

// ClassifyContextError maps context cancellation and deadline expiry to
// network-type failures, since vendor APIs do not guarantee bounded latency.
func (ec *ErrorClassifier) ClassifyContextError(err error) *ProviderError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewProviderError(ec.Provider, ErrorTypeNetwork, 0, "request timed out", err)
	case errors.Is(err, context.Canceled):
		return NewProviderError(ec.Provider, ErrorTypeNetwork, 0, "request canceled", err)
	default:
		return NewProviderError(ec.Provider, ErrorTypeUnknown, 0, "", err)
	}
}

// ClassifyParseFailure builds the error for content that survived repair
// but still failed to parse. The excerpt is truncated for diagnosis.
func (ec *ErrorClassifier) ClassifyParseFailure(content string, err error) *ProviderError {
	return NewProviderError(ec.Provider, ErrorTypeParse, 0,
		fmt.Sprintf("response is not valid JSON after repair: %s", TruncateForDiagnostics(content)), err)
}
