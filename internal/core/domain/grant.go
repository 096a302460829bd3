package domain

import (
	"errors"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
)

const (
	// DefaultCommunityDailyBonus is credited to the community scope per window.
	DefaultCommunityDailyBonus int64 = 1000
	// DefaultGlobalDailyBonus is credited to the global scope per window.
	DefaultGlobalDailyBonus int64 = 500
	// DefaultDailyCooldown is the length of a grant window.
	DefaultDailyCooldown = 24 * time.Hour
)

// GrantOutcome is the result of evaluating one scope of a daily claim.
type GrantOutcome struct {
	Scope          Scope     `json:"scope"`
	Granted        bool      `json:"granted"`
	Amount         int64     `json:"amount,omitempty"`
	Balance        int64     `json:"balance"`
	NextEligibleAt time.Time `json:"nextEligibleAt"`
}

// Err returns a *apperrors.CooldownError when the scope was not granted.
func (g GrantOutcome) Err() error {
	if g.Granted {
		return nil
	}
	return &apperrors.CooldownError{Scope: g.Scope.String(), NextEligibleAt: g.NextEligibleAt}
}

// DailyClaim holds the independent outcomes of both scopes.
type DailyClaim struct {
	OwnerID   string       `json:"ownerID"`
	Community GrantOutcome `json:"community"`
	Global    GrantOutcome `json:"global"`
}

// AnyGranted reports whether at least one scope was credited.
func (d DailyClaim) AnyGranted() bool {
	return d.Community.Granted || d.Global.Granted
}

// Err returns nil if any scope was granted, otherwise both cooldown errors joined.
func (d DailyClaim) Err() error {
	if d.AnyGranted() {
		return nil
	}
	return errors.Join(d.Community.Err(), d.Global.Err())
}
