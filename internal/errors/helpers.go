package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error creators for frequent use cases

// NewValidationError creates a validation error with field context
func NewValidationError(field, message string) *AppError {
	return New(ErrCodeValidationFailed, message).
		WithContext("field", field).
		WithUserMessage(fmt.Sprintf("Invalid %s: %s", field, message))
}

// NewBadRequestError creates an invalid-input error with the message the
// caller should see verbatim in the response body.
func NewBadRequestError(message string) *AppError {
	return New(ErrCodeInvalidInput, message).WithUserMessage(message)
}

// NewDatabaseError creates a database error with operation context
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithContext("operation", operation).
		WithUserMessage("Database operation failed")
}

// NewProviderError creates an error for a failed outbound provider call.
// 5xx, 429 and 408 responses are considered retryable.
func NewProviderError(endpoint string, statusCode int, err error) *AppError {
	retryable := statusCode >= 500 || statusCode == http.StatusTooManyRequests || statusCode == http.StatusRequestTimeout

	appErr := Wrap(err, ErrCodeProviderAPI, "provider API call failed").
		WithContext("endpoint", endpoint).
		WithUserMessage("Failed to reach messaging provider")
	if statusCode > 0 {
		appErr = appErr.WithContext("status_code", statusCode)
	}
	appErr.Retryable = retryable
	return appErr
}

// NewUpstreamRejectedError wraps an application-level rejection from the
// provider. The upstream message is surfaced to the caller verbatim.
func NewUpstreamRejectedError(endpoint, upstreamMessage string) *AppError {
	return New(ErrCodeUpstreamRejected, "provider rejected the request").
		WithContext("endpoint", endpoint).
		WithContext("upstream_error", upstreamMessage).
		WithUserMessage(fmt.Sprintf("Message send failed: %s", upstreamMessage))
}

// HTTPStatus maps an error to the status code its response should carry.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case ErrCodeInvalidInput, ErrCodeValidationFailed, ErrCodeMediaUpload:
		return http.StatusBadRequest
	case ErrCodeAuthentication:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeProviderAPI, ErrCodeUpstreamRejected:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
