package repositories

import (
	"context"

	"github.com/SscSPs/guild_economy/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// GetAccount returns the account for key, creating the default record if absent.
	GetAccount(ctx context.Context, key domain.AccountKey) (*domain.Account, error)

	// TopAccounts returns up to limit accounts in scope ordered by balance descending,
	// ties broken by owner id ascending.
	TopAccounts(ctx context.Context, scope domain.Scope, limit int) ([]domain.Account, error)
}

// AccountWriter defines the single mutation primitive for account data
type AccountWriter interface {
	// Adjust applies adj atomically and returns the resulting account.
	// It fails with apperrors.ErrInsufficientFunds if the balance would go negative
	// and apperrors.ErrPreconditionFailed if the LastGrantAt guard does not hold.
	// Either way nothing is written. The record is created if absent.
	Adjust(ctx context.Context, adj domain.Adjustment) (*domain.Account, error)
}

// AccountStore combines all account-related repository interfaces
type AccountStore interface {
	AccountReader
	AccountWriter
}

// AtomicAccountStore is implemented by stores that can apply several adjustments
// as one unit. Implementations lock accounts in ascending key order and either
// apply every adjustment or none. Results are returned in the caller's order.
type AtomicAccountStore interface {
	AccountStore
	AdjustAll(ctx context.Context, adjs []domain.Adjustment) ([]domain.Account, error)
}
