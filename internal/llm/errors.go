package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

// LLM error codes follow the service-wide coded error pattern.
const (
	ErrProviderNotFound     types.ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	ErrProviderUnavailable  types.ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
	ErrProviderUnauthorized types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrProviderRateLimited  types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"
	ErrInvalidRequest       types.ErrorCode = "LLM_INVALID_REQUEST"
	ErrCompletionFailed     types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrEmptyResponse        types.ErrorCode = "LLM_EMPTY_RESPONSE"
	ErrTimeoutExceeded      types.ErrorCode = "LLM_TIMEOUT_EXCEEDED"
	ErrNetworkFailed        types.ErrorCode = "LLM_NETWORK_FAILED"
)

// NewAuthError creates an authentication error for a provider.
func NewAuthError(provider string, cause error) *types.SprintError {
	return &types.SprintError{
		Code:    ErrProviderUnauthorized,
		Message: fmt.Sprintf("provider '%s' authentication failed", provider),
		Cause:   cause,
	}
}

// NewProviderUnavailableError creates a retryable error for a provider that
// is temporarily unavailable.
func NewProviderUnavailableError(provider string, cause error) *types.SprintError {
	return &types.SprintError{
		Code:      ErrProviderUnavailable,
		Message:   "provider temporarily unavailable: " + provider,
		Retryable: true,
		Cause:     cause,
	}
}

// NewRateLimitError creates a retryable error for rate limiting.
func NewRateLimitError(provider string) *types.SprintError {
	return &types.SprintError{
		Code:      ErrProviderRateLimited,
		Message:   "rate limit exceeded for provider: " + provider,
		Retryable: true,
	}
}

// NewCompletionError creates an error for completion failures. The upstream
// failure detail is preserved in the wrapped cause.
func NewCompletionError(message string, cause error) *types.SprintError {
	return types.WrapError(ErrCompletionFailed, message, cause)
}

// NewEmptyResponseError creates an error for completions that returned no
// usable text.
func NewEmptyResponseError(provider string) *types.SprintError {
	return types.NewError(ErrEmptyResponse, "provider returned no usable text: "+provider)
}

// NewInvalidRequestError creates an error for invalid requests.
func NewInvalidRequestError(message string) *types.SprintError {
	return types.NewError(ErrInvalidRequest, message)
}

// NewNetworkError creates a retryable error for network failures.
func NewNetworkError(message string, cause error) *types.SprintError {
	return &types.SprintError{
		Code:      ErrNetworkFailed,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// NewTimeoutError creates a retryable error for timeout failures.
func NewTimeoutError(message string) *types.SprintError {
	return &types.SprintError{
		Code:      ErrTimeoutExceeded,
		Message:   message,
		Retryable: true,
	}
}

// IsRetryable determines if an error is transient and may succeed on retry.
// The orchestration core never retries, but callers can use this to decide
// whether a failed sprint is worth re-creating.
func IsRetryable(err error) bool {
	var sprintErr *types.SprintError
	if !errors.As(err, &sprintErr) {
		return false
	}

	if sprintErr.Retryable {
		return true
	}

	switch sprintErr.Code {
	case ErrNetworkFailed, ErrTimeoutExceeded, ErrProviderRateLimited, ErrProviderUnavailable:
		return true
	default:
		return false
	}
}

// TranslateError translates generic provider errors into coded errors based
// on error message content.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var sprintErr *types.SprintError
	if errors.As(err, &sprintErr) {
		return err
	}

	errMsg := err.Error()
	lowerMsg := strings.ToLower(errMsg)

	switch {
	case strings.Contains(lowerMsg, "unauthorized") || strings.Contains(lowerMsg, "authentication") || strings.Contains(lowerMsg, "api key"):
		return NewAuthError(provider, err)
	case strings.Contains(lowerMsg, "rate limit") || strings.Contains(lowerMsg, "too many requests"):
		return NewRateLimitError(provider)
	case strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline"):
		return NewTimeoutError(errMsg)
	case strings.Contains(lowerMsg, "network") || strings.Contains(lowerMsg, "connection"):
		return NewNetworkError(errMsg, err)
	default:
		return NewCompletionError("completion failed for provider "+provider, err)
	}
}
