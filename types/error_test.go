package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	err := NewError(ErrPlanUnavailable, "curator timed out")
	assert.Equal(t, "[PLAN_UNAVAILABLE] curator timed out", err.Error())

	cause := errors.New("dial tcp: connection refused")
	wrapped := WrapError(ErrStoreUnavailable, "search failed", cause)
	assert.Contains(t, wrapped.Error(), "STORE_UNAVAILABLE")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	err := NewError(ErrResolverUnavailable, "entity store down").WithCause(cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIsErrorCode(t *testing.T) {
	t.Parallel()

	inner := NewError(ErrEntityConflict, "duplicate canonical_name")
	outer := WrapError(ErrResolverUnavailable, "resolve failed", inner)
	wrapped := fmt.Errorf("request aborted: %w", outer)

	assert.True(t, IsErrorCode(wrapped, ErrResolverUnavailable))
	assert.True(t, IsErrorCode(wrapped, ErrEntityConflict))
	assert.False(t, IsErrorCode(wrapped, ErrInvalidMemory))
	assert.False(t, IsErrorCode(nil, ErrInvalidMemory))
}

func TestGetErrorCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ErrTierSourceFailure, GetErrorCode(NewError(ErrTierSourceFailure, "episodic fetch failed")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain error")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(nil))
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	retryable := NewError(ErrStoreUnavailable, "timeout").WithRetryable(true)
	assert.True(t, IsRetryable(retryable))
	assert.False(t, IsRetryable(NewError(ErrInvalidMemory, "bad importance")))
	assert.False(t, IsRetryable(errors.New("plain")))
}
