package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := NewError(ErrValidation, "duration not supported")
	assert.Equal(t, "[VALIDATION] duration not supported", err.Error())

	cause := errors.New("boom")
	err = NewError(ErrProvider, "submit failed").WithCause(cause)
	assert.Equal(t, "[PROVIDER] submit failed: boom", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewError(ErrProvider, "remote call failed").WithCause(cause)

	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("attempt 2: %w", err)
	var e *Error
	assert.True(t, errors.As(wrapped, &e))
	assert.Equal(t, ErrProvider, e.Code)
}

func TestError_DefaultRetryability(t *testing.T) {
	// 仅 PROVIDER / TIMEOUT 默认可重试
	assert.True(t, NewError(ErrProvider, "x").Retryable)
	assert.True(t, NewError(ErrTimeout, "x").Retryable)
	assert.False(t, NewError(ErrValidation, "x").Retryable)
	assert.False(t, NewError(ErrConfiguration, "x").Retryable)
	assert.False(t, NewError(ErrCreditDenied, "x").Retryable)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError(ErrProvider, "x")))
	assert.False(t, IsRetryable(NewError(ErrProvider, "x").WithRetryable(false)))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrTimeout, GetErrorCode(NewError(ErrTimeout, "x")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusSubmitted.Terminal())
	assert.False(t, StatusPolling.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusTimedOut.Terminal())
}
