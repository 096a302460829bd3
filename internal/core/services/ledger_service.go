package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/guild_economy/internal/core/ports/services"
	"github.com/SscSPs/guild_economy/internal/platform/metrics"
	"golang.org/x/sync/errgroup"
)

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	accounts       portsrepo.AccountStore
	communityBonus int64
	globalBonus    int64
	cooldown       time.Duration
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerService)

// WithDailyBonus overrides the per-scope grant amounts. Non-positive values keep the defaults.
func WithDailyBonus(community, global int64) LedgerOption {
	return func(s *ledgerService) {
		if community > 0 {
			s.communityBonus = community
		}
		if global > 0 {
			s.globalBonus = global
		}
	}
}

// WithDailyCooldown overrides the grant window length.
func WithDailyCooldown(d time.Duration) LedgerOption {
	return func(s *ledgerService) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithLedgerStorageTimeout bounds each storage call made by the ledger.
func WithLedgerStorageTimeout(d time.Duration) LedgerOption {
	return func(s *ledgerService) {
		s.StorageTimeout = d
	}
}

// NewLedgerService creates a new ledger service on top of an account store
func NewLedgerService(accounts portsrepo.AccountStore, options ...LedgerOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		accounts:       accounts,
		communityBonus: domain.DefaultCommunityDailyBonus,
		globalBonus:    domain.DefaultGlobalDailyBonus,
		cooldown:       domain.DefaultDailyCooldown,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetBalances(ctx context.Context, ownerID string, communityID string) (*domain.Balances, error) {
	if err := validateOwnerID(ownerID); err != nil {
		return nil, err
	}
	community := domain.CommunityScope(communityID)
	if err := community.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	var communityAcc, globalAcc *domain.Account
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		acc, err := s.getAccount(gctx, domain.NewAccountKey(ownerID, community))
		communityAcc = acc
		return err
	})
	g.Go(func() error {
		acc, err := s.getAccount(gctx, domain.NewAccountKey(ownerID, domain.GlobalScope()))
		globalAcc = acc
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to read balances",
			slog.String("owner_id", ownerID),
			slog.String("community_id", communityID))
		return nil, err
	}

	return &domain.Balances{
		OwnerID:          ownerID,
		CommunityID:      communityID,
		CommunityBalance: communityAcc.Balance,
		GlobalBalance:    globalAcc.Balance,
	}, nil
}

// ClaimDaily evaluates both scopes concurrently. The scopes do not cancel each
// other: if one fails with a storage error the other scope's outcome is still
// filled in on the returned claim alongside the error.
func (s *ledgerService) ClaimDaily(ctx context.Context, ownerID string, communityID string, now time.Time) (*domain.DailyClaim, error) {
	if err := validateOwnerID(ownerID); err != nil {
		return nil, err
	}
	community := domain.CommunityScope(communityID)
	if err := community.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	now = normalizeTime(now)

	claim := &domain.DailyClaim{OwnerID: ownerID}
	var g errgroup.Group
	g.Go(func() error {
		out, err := s.grant(ctx, domain.NewAccountKey(ownerID, community), s.communityBonus, now)
		claim.Community = out
		return err
	})
	g.Go(func() error {
		out, err := s.grant(ctx, domain.NewAccountKey(ownerID, domain.GlobalScope()), s.globalBonus, now)
		claim.Global = out
		return err
	})
	err := g.Wait()
	metrics.RecordOperation("claim_daily", errors.Join(err, claim.Err()))
	if err != nil {
		s.LogError(ctx, err, "Daily claim failed",
			slog.String("owner_id", ownerID),
			slog.String("community_id", communityID))
		return claim, err
	}

	s.LogInfo(ctx, "Daily claim evaluated",
		slog.String("owner_id", ownerID),
		slog.String("community_id", communityID),
		slog.Bool("community_granted", claim.Community.Granted),
		slog.Bool("global_granted", claim.Global.Granted))
	return claim, nil
}

// grant credits one scope if its window has elapsed. A concurrent claim that
// advanced LastGrantAt first makes the guard fail, which is reported as "not
// granted" without retrying.
func (s *ledgerService) grant(ctx context.Context, key domain.AccountKey, bonus int64, now time.Time) (domain.GrantOutcome, error) {
	out := domain.GrantOutcome{Scope: key.Scope}

	acc, err := s.getAccount(ctx, key)
	if err != nil {
		return out, err
	}
	if !acc.GrantEligible(now, s.cooldown) {
		out.Balance = acc.Balance
		out.NextEligibleAt = acc.NextGrantAt(s.cooldown)
		return out, nil
	}

	observed := acc.LastGrantAt
	updated, err := s.adjust(ctx, domain.Adjustment{
		Key:               key,
		Delta:             bonus,
		ExpectLastGrantAt: &observed,
		SetLastGrantAt:    &now,
	})
	if errors.Is(err, apperrors.ErrPreconditionFailed) {
		s.LogDebug(ctx, "Grant lost race to a concurrent claim", slog.String("account", key.String()))
		current, rerr := s.getAccount(ctx, key)
		if rerr != nil {
			return out, rerr
		}
		out.Balance = current.Balance
		out.NextEligibleAt = current.NextGrantAt(s.cooldown)
		return out, nil
	}
	if err != nil {
		return out, err
	}

	metrics.RecordGrant(string(key.Scope.Kind), bonus)
	out.Granted = true
	out.Amount = bonus
	out.Balance = updated.Balance
	out.NextEligibleAt = updated.NextGrantAt(s.cooldown)
	return out, nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromOwnerID string, toOwnerID string, scope domain.Scope, amount int64) (result *domain.TransferResult, err error) {
	defer func() { metrics.RecordOperation("transfer", err) }()

	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if err := validateOwnerID(fromOwnerID); err != nil {
		return nil, err
	}
	if err := validateOwnerID(toOwnerID); err != nil {
		return nil, err
	}
	if fromOwnerID == toOwnerID {
		return nil, apperrors.ErrSelfTransferNotAllowed
	}
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	debit := domain.Adjustment{Key: domain.NewAccountKey(fromOwnerID, scope), Delta: -amount}
	credit := domain.Adjustment{Key: domain.NewAccountKey(toOwnerID, scope), Delta: amount}

	var fromAcc, toAcc *domain.Account
	if atomic, ok := s.accounts.(portsrepo.AtomicAccountStore); ok {
		fromAcc, toAcc, err = s.transferAtomic(ctx, atomic, debit, credit)
	} else {
		fromAcc, toAcc, err = s.transferCompensated(ctx, debit, credit)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			s.LogWarn(ctx, "Transfer rejected: insufficient funds",
				slog.String("from_owner_id", fromOwnerID),
				slog.String("scope", scope.String()),
				slog.Int64("amount", amount))
		} else {
			s.LogError(ctx, err, "Transfer failed",
				slog.String("from_owner_id", fromOwnerID),
				slog.String("to_owner_id", toOwnerID),
				slog.String("scope", scope.String()))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transfer applied",
		slog.String("from_owner_id", fromOwnerID),
		slog.String("to_owner_id", toOwnerID),
		slog.String("scope", scope.String()),
		slog.Int64("amount", amount))
	return &domain.TransferResult{
		Scope:       scope,
		FromOwnerID: fromOwnerID,
		ToOwnerID:   toOwnerID,
		Amount:      amount,
		FromBalance: fromAcc.Balance,
		ToBalance:   toAcc.Balance,
	}, nil
}

// transferAtomic lets the store apply both sides as one unit with ordered locks.
func (s *ledgerService) transferAtomic(ctx context.Context, store portsrepo.AtomicAccountStore, debit, credit domain.Adjustment) (*domain.Account, *domain.Account, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	accs, err := store.AdjustAll(sctx, []domain.Adjustment{debit, credit})
	if err != nil {
		return nil, nil, classifyStorageErr(err)
	}
	if len(accs) != 2 {
		return nil, nil, fmt.Errorf("adjust all returned %d accounts, want 2", len(accs))
	}
	return &accs[0], &accs[1], nil
}

// transferCompensated debits then credits with single-key primitives. If the
// credit cannot be applied the debit is reverted before returning.
func (s *ledgerService) transferCompensated(ctx context.Context, debit, credit domain.Adjustment) (*domain.Account, *domain.Account, error) {
	fromAcc, err := s.adjust(ctx, debit)
	if err != nil {
		return nil, nil, err
	}

	toAcc, err := s.adjust(ctx, credit)
	if err == nil {
		return fromAcc, toAcc, nil
	}

	metrics.RecordCompensation()
	// The revert must run even if the caller has gone away.
	if _, cerr := s.adjust(context.WithoutCancel(ctx), debit.Inverse()); cerr != nil {
		s.LogError(ctx, cerr, "Compensation failed, debit remains applied",
			slog.String("account", debit.Key.String()),
			slog.Int64("amount", -debit.Delta))
		return nil, nil, fmt.Errorf("%w: credit failed: %w; compensation failed: %w", apperrors.ErrStorageUnavailable, err, cerr)
	}
	s.LogWarn(ctx, "Transfer credit failed, debit reverted",
		slog.String("from", debit.Key.String()),
		slog.String("to", credit.Key.String()),
		slog.String("error", err.Error()))
	return nil, nil, fmt.Errorf("transfer credit failed, debit reverted: %w", err)
}

func (s *ledgerService) getAccount(ctx context.Context, key domain.AccountKey) (*domain.Account, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	acc, err := s.accounts.GetAccount(sctx, key)
	return acc, classifyStorageErr(err)
}

func (s *ledgerService) adjust(ctx context.Context, adj domain.Adjustment) (*domain.Account, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	acc, err := s.accounts.Adjust(sctx, adj)
	return acc, classifyStorageErr(err)
}

func validateOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: owner id is required", apperrors.ErrValidation)
	}
	return nil
}

// normalizeTime drops sub-microsecond precision so every backend stores the
// same instant it was given.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
