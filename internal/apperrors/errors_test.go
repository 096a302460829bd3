package apperrors_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnavailable(t *testing.T) {
	err := apperrors.Unavailable("get account", context.DeadlineExceeded)

	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Code)
	assert.Equal(t, "get account", appErr.Message)
}

func TestCooldownErrorMatchesSentinel(t *testing.T) {
	err := error(&apperrors.CooldownError{Scope: "global"})
	assert.ErrorIs(t, err, apperrors.ErrCooldownActive)
	assert.NotErrorIs(t, err, apperrors.ErrValidation)
}
