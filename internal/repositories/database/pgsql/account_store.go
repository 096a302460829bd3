package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ensureAccountSQL = `INSERT INTO accounts (scope, owner_id, balance, last_grant_at, updated_at)
		VALUES ($1, $2, 0, $3, $3)
		ON CONFLICT (scope, owner_id) DO NOTHING`

	selectAccountSQL = `SELECT balance, last_grant_at, updated_at
		FROM accounts WHERE scope = $1 AND owner_id = $2`

	// A single statement, so the guard, the funds check and the write happen atomically.
	guardedAdjustSQL = `UPDATE accounts SET
			balance = balance + $3,
			last_grant_at = CASE WHEN $5::timestamptz IS NOT NULL AND $5::timestamptz > last_grant_at
				THEN $5::timestamptz ELSE last_grant_at END,
			updated_at = $6
		WHERE scope = $1 AND owner_id = $2
			AND balance + $3 >= 0
			AND ($4::timestamptz IS NULL OR last_grant_at = $4::timestamptz)
		RETURNING balance, last_grant_at, updated_at`

	writeAccountSQL = `UPDATE accounts SET balance = $3, last_grant_at = $4, updated_at = $5
		WHERE scope = $1 AND owner_id = $2`

	topAccountsSQL = `SELECT owner_id, balance, last_grant_at, updated_at
		FROM accounts WHERE scope = $1
		ORDER BY balance DESC, owner_id COLLATE "C" ASC
		LIMIT $2`
)

// PgxAccountStore keeps balances in the accounts table, one row per (scope, owner).
type PgxAccountStore struct {
	BaseRepository
	clock func() time.Time
}

func newPgxAccountStore(pool *pgxpool.Pool) *PgxAccountStore {
	return &PgxAccountStore{BaseRepository: BaseRepository{Pool: pool}, clock: time.Now}
}

var _ portsrepo.AtomicAccountStore = (*PgxAccountStore)(nil)

// rowQuerier is satisfied by both the pool and a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PgxAccountStore) GetAccount(ctx context.Context, key domain.AccountKey) (*domain.Account, error) {
	acc, err := r.selectAccount(ctx, r.Pool, key, false)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err = r.Pool.Exec(ctx, ensureAccountSQL, key.Scope.String(), key.OwnerID, domain.Epoch); err != nil {
			return nil, classifyPgError("failed to create account", err)
		}
		acc, err = r.selectAccount(ctx, r.Pool, key, false)
	}
	if err != nil {
		return nil, classifyPgError("failed to get account", err)
	}
	return acc, nil
}

func (r *PgxAccountStore) Adjust(ctx context.Context, adj domain.Adjustment) (*domain.Account, error) {
	key := adj.Key
	if _, err := r.Pool.Exec(ctx, ensureAccountSQL, key.Scope.String(), key.OwnerID, domain.Epoch); err != nil {
		return nil, classifyPgError("failed to create account", err)
	}

	acc := domain.Account{Key: key}
	err := r.Pool.QueryRow(ctx, guardedAdjustSQL,
		key.Scope.String(), key.OwnerID, adj.Delta,
		adj.ExpectLastGrantAt, adj.SetLastGrantAt, r.clock().UTC(),
	).Scan(&acc.Balance, &acc.LastGrantAt, &acc.UpdatedAt)
	if err == nil {
		normalizeAccount(&acc)
		return &acc, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if isPgCode(err, pgCheckViolation) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrInsufficientFunds, key)
		}
		return nil, classifyPgError("failed to adjust account", err)
	}

	// No row matched: find out which condition rejected the update.
	current, err := r.selectAccount(ctx, r.Pool, key, false)
	if err != nil {
		return nil, classifyPgError("failed to get account", err)
	}
	return nil, rejection(adj, *current)
}

// AdjustAll locks every affected row in ascending key order inside one
// transaction, stages the adjustments, and writes them only if all pass.
func (r *PgxAccountStore) AdjustAll(ctx context.Context, adjs []domain.Adjustment) (results []domain.Account, err error) {
	if len(adjs) == 0 {
		return nil, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(context.WithoutCancel(ctx), tx)
		}
	}()

	staged := make(map[domain.AccountKey]domain.Account)
	order := make([]domain.AccountKey, 0, len(adjs))
	for _, adj := range domain.SortAdjustments(adjs) {
		if _, seen := staged[adj.Key]; seen {
			continue
		}
		if _, err = tx.Exec(ctx, ensureAccountSQL, adj.Key.Scope.String(), adj.Key.OwnerID, domain.Epoch); err != nil {
			return nil, classifyPgError("failed to create account", err)
		}
		acc, selErr := r.selectAccount(ctx, tx, adj.Key, true)
		if selErr != nil {
			err = classifyPgError("failed to lock account", selErr)
			return nil, err
		}
		staged[adj.Key] = *acc
		order = append(order, adj.Key)
	}

	now := r.clock().UTC()
	for _, adj := range adjs {
		next, fundsOK, guardOK := adj.Apply(staged[adj.Key], now)
		if !guardOK || !fundsOK {
			err = rejection(adj, staged[adj.Key])
			return nil, err
		}
		staged[adj.Key] = next
	}

	for _, key := range order {
		acc := staged[key]
		if _, err = tx.Exec(ctx, writeAccountSQL, key.Scope.String(), key.OwnerID, acc.Balance, acc.LastGrantAt, acc.UpdatedAt); err != nil {
			if isPgCode(err, pgCheckViolation) {
				err = fmt.Errorf("%w: %s", apperrors.ErrInsufficientFunds, key)
				return nil, err
			}
			err = classifyPgError("failed to write account", err)
			return nil, err
		}
	}
	if err = r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	results = make([]domain.Account, len(adjs))
	for i, adj := range adjs {
		results[i] = staged[adj.Key]
		normalizeAccount(&results[i])
	}
	return results, nil
}

// TopAccounts relies on statement-level snapshot isolation: a committed
// AdjustAll is seen whole or not at all.
func (r *PgxAccountStore) TopAccounts(ctx context.Context, scope domain.Scope, limit int) ([]domain.Account, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.Pool.Query(ctx, topAccountsSQL, scope.String(), limitArg)
	if err != nil {
		return nil, classifyPgError("failed to query leaderboard", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		acc := domain.Account{Key: domain.AccountKey{Scope: scope}}
		if err := rows.Scan(&acc.Key.OwnerID, &acc.Balance, &acc.LastGrantAt, &acc.UpdatedAt); err != nil {
			return nil, classifyPgError("failed to scan leaderboard row", err)
		}
		normalizeAccount(&acc)
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError("failed to iterate leaderboard rows", err)
	}
	return accounts, nil
}

func (r *PgxAccountStore) selectAccount(ctx context.Context, q rowQuerier, key domain.AccountKey, forUpdate bool) (*domain.Account, error) {
	query := selectAccountSQL
	if forUpdate {
		query += " FOR UPDATE"
	}
	acc := domain.Account{Key: key}
	if err := q.QueryRow(ctx, query, key.Scope.String(), key.OwnerID).Scan(&acc.Balance, &acc.LastGrantAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}
	normalizeAccount(&acc)
	return &acc, nil
}

// rejection explains why adj cannot apply to acc. When acc would in fact
// accept adj (it changed after the failed write) the guard is blamed if one
// was set, since only a guard can fail for a credit.
func rejection(adj domain.Adjustment, acc domain.Account) error {
	_, fundsOK, guardOK := adj.Apply(acc, acc.UpdatedAt)
	switch {
	case !guardOK:
		return fmt.Errorf("%w: last grant of %s changed", apperrors.ErrPreconditionFailed, adj.Key)
	case !fundsOK:
		return fmt.Errorf("%w: %s has %d, needs %d", apperrors.ErrInsufficientFunds, adj.Key, acc.Balance, -adj.Delta)
	case adj.ExpectLastGrantAt != nil:
		return fmt.Errorf("%w: last grant of %s changed", apperrors.ErrPreconditionFailed, adj.Key)
	default:
		return fmt.Errorf("%w: %s", apperrors.ErrInsufficientFunds, adj.Key)
	}
}

func normalizeAccount(acc *domain.Account) {
	acc.LastGrantAt = acc.LastGrantAt.UTC()
	acc.UpdatedAt = acc.UpdatedAt.UTC()
}
