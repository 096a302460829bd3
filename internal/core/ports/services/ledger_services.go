package services

import (
	"context"
	"time"

	"github.com/SscSPs/guild_economy/internal/core/domain"
)

// LedgerReaderSvc defines read operations on balances
type LedgerReaderSvc interface {
	// GetBalances returns the owner's community and global balances.
	GetBalances(ctx context.Context, ownerID string, communityID string) (*domain.Balances, error)
}

// LedgerGrantSvc defines the time-gated daily bonus
type LedgerGrantSvc interface {
	// ClaimDaily evaluates the community and global grants independently.
	ClaimDaily(ctx context.Context, ownerID string, communityID string, now time.Time) (*domain.DailyClaim, error)
}

// LedgerTransferSvc defines value movement between owners
type LedgerTransferSvc interface {
	// Transfer moves amount from one owner to another inside scope. All or nothing.
	Transfer(ctx context.Context, fromOwnerID string, toOwnerID string, scope domain.Scope, amount int64) (*domain.TransferResult, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerGrantSvc
	LedgerTransferSvc
}
