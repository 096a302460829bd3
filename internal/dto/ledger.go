package dto

import (
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
)

// BalancesResponse defines an owner's balances in one community and globally.
type BalancesResponse struct {
	OwnerID          string `json:"ownerID"`
	CommunityID      string `json:"communityID"`
	CommunityBalance int64  `json:"communityBalance"`
	GlobalBalance    int64  `json:"globalBalance"`
}

// GrantOutcomeResponse is one scope of a daily claim.
type GrantOutcomeResponse struct {
	Scope          string    `json:"scope"`
	Granted        bool      `json:"granted"`
	Amount         int64     `json:"amount"`
	Balance        int64     `json:"balance"`
	NextEligibleAt time.Time `json:"nextEligibleAt"`
}

// DailyClaimResponse reports both scopes of a daily claim.
type DailyClaimResponse struct {
	OwnerID   string               `json:"ownerID"`
	Community GrantOutcomeResponse `json:"community"`
	Global    GrantOutcomeResponse `json:"global"`
}

// TransferRequest defines the data needed to move coins to another owner.
// The amount is checked by the ledger so that zero and negative values get the same error.
type TransferRequest struct {
	ToOwnerID string `json:"toOwnerID" binding:"required,max=128"`
	Scope     string `json:"scope" binding:"required,ledgerscope"` // community | global
	Amount    int64  `json:"amount"`
}

// TransferResponse defines the data returned after a transfer.
type TransferResponse struct {
	Scope       string `json:"scope"`
	FromOwnerID string `json:"fromOwnerID"`
	ToOwnerID   string `json:"toOwnerID"`
	Amount      int64  `json:"amount"`
	FromBalance int64  `json:"fromBalance"`
	ToBalance   int64  `json:"toBalance"`
}

// CooldownEntry names a scope whose grant is not yet available.
type CooldownEntry struct {
	Scope          string    `json:"scope"`
	NextEligibleAt time.Time `json:"nextEligibleAt"`
}

// CooldownErrorResponse is returned with 429 when no scope could be granted.
type CooldownErrorResponse struct {
	Error     string          `json:"error"`
	Cooldowns []CooldownEntry `json:"cooldowns"`
}

// PartialDailyClaimResponse is the 503 body of a daily claim where one scope
// failed after the other scope was already granted.
type PartialDailyClaimResponse struct {
	Error string             `json:"error"`
	Claim DailyClaimResponse `json:"claim"`
}

// ErrorResponse is the body of every other failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToBalancesResponse converts domain.Balances to BalancesResponse
func ToBalancesResponse(b *domain.Balances) BalancesResponse {
	return BalancesResponse{
		OwnerID:          b.OwnerID,
		CommunityID:      b.CommunityID,
		CommunityBalance: b.CommunityBalance,
		GlobalBalance:    b.GlobalBalance,
	}
}

func toGrantOutcomeResponse(g domain.GrantOutcome) GrantOutcomeResponse {
	return GrantOutcomeResponse{
		Scope:          string(g.Scope.Kind),
		Granted:        g.Granted,
		Amount:         g.Amount,
		Balance:        g.Balance,
		NextEligibleAt: g.NextEligibleAt,
	}
}

// ToDailyClaimResponse converts domain.DailyClaim to DailyClaimResponse
func ToDailyClaimResponse(d *domain.DailyClaim) DailyClaimResponse {
	return DailyClaimResponse{
		OwnerID:   d.OwnerID,
		Community: toGrantOutcomeResponse(d.Community),
		Global:    toGrantOutcomeResponse(d.Global),
	}
}

// ToTransferResponse converts domain.TransferResult to TransferResponse
func ToTransferResponse(t *domain.TransferResult) TransferResponse {
	return TransferResponse{
		Scope:       string(t.Scope.Kind),
		FromOwnerID: t.FromOwnerID,
		ToOwnerID:   t.ToOwnerID,
		Amount:      t.Amount,
		FromBalance: t.FromBalance,
		ToBalance:   t.ToBalance,
	}
}

// ToCooldownErrorResponse lists every *apperrors.CooldownError found in err.
func ToCooldownErrorResponse(err error) CooldownErrorResponse {
	resp := CooldownErrorResponse{Error: apperrors.ErrCooldownActive.Error(), Cooldowns: []CooldownEntry{}}
	collectCooldowns(err, &resp.Cooldowns)
	return resp
}

func collectCooldowns(err error, out *[]CooldownEntry) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *apperrors.CooldownError:
		*out = append(*out, CooldownEntry{Scope: e.Scope, NextEligibleAt: e.NextEligibleAt})
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			collectCooldowns(inner, out)
		}
	case interface{ Unwrap() error }:
		collectCooldowns(e.Unwrap(), out)
	}
}
