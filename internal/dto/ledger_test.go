package dto_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCooldownErrorResponse(t *testing.T) {
	next := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	err := fmt.Errorf("claim: %w", errors.Join(
		&apperrors.CooldownError{Scope: "community:g1", NextEligibleAt: next},
		&apperrors.CooldownError{Scope: "global", NextEligibleAt: next.Add(time.Hour)},
	))

	resp := dto.ToCooldownErrorResponse(err)
	assert.Equal(t, apperrors.ErrCooldownActive.Error(), resp.Error)
	require.Len(t, resp.Cooldowns, 2)
	assert.Equal(t, dto.CooldownEntry{Scope: "community:g1", NextEligibleAt: next}, resp.Cooldowns[0])
	assert.Equal(t, "global", resp.Cooldowns[1].Scope)
}

func TestToCooldownErrorResponse_NoCooldowns(t *testing.T) {
	resp := dto.ToCooldownErrorResponse(errors.New("other"))
	assert.NotNil(t, resp.Cooldowns)
	assert.Empty(t, resp.Cooldowns)
}
