package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeDatabaseConnection, "cannot reach store")

	assert.Contains(t, err.Error(), "DATABASE_CONNECTION")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestNewBadRequestError_UserMessageVerbatim(t *testing.T) {
	err := NewBadRequestError("phone not found")
	assert.Equal(t, "phone not found", GetUserMessage(err))
	assert.Equal(t, ErrCodeInvalidInput, GetCode(err))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestNewProviderError_Retryability(t *testing.T) {
	tests := []struct {
		statusCode int
		retryable  bool
	}{
		{500, true},
		{502, true},
		{http.StatusTooManyRequests, true},
		{http.StatusRequestTimeout, true},
		{400, false},
		{403, false},
		{0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.statusCode), func(t *testing.T) {
			err := NewProviderError("/messages/text", tt.statusCode, errors.New("boom"))
			assert.Equal(t, tt.retryable, IsRetryable(err))
			assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
		})
	}
}

func TestNewUpstreamRejectedError_SurfacesUpstreamMessage(t *testing.T) {
	err := NewUpstreamRejectedError("/messages/text", "number not on whatsapp")
	assert.Contains(t, GetUserMessage(err), "number not on whatsapp")
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
	assert.False(t, IsRetryable(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("phone", "must be numeric"), http.StatusBadRequest},
		{"auth", New(ErrCodeAuthentication, "bad signature"), http.StatusUnauthorized},
		{"not found", New(ErrCodeNotFound, "missing"), http.StatusNotFound},
		{"timeout", New(ErrCodeTimeout, "deadline"), http.StatusGatewayTimeout},
		{"database", NewDatabaseError("insert", errors.New("locked")), http.StatusInternalServerError},
		{"plain error", errors.New("anything"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", NewBadRequestError("bad")), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestGetUserMessage_FallsBackForUnknownErrors(t *testing.T) {
	assert.Equal(t, "An internal error occurred", GetUserMessage(errors.New("internal detail")))
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeProviderAPI, "call failed").
		WithContext("endpoint", "/messages/text").
		WithContext("status_code", 502)

	require.NotNil(t, err.Context)
	assert.Equal(t, "/messages/text", err.Context["endpoint"])
	assert.Equal(t, 502, err.Context["status_code"])
}
