package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/guild_economy/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLeaderboardLimit is used when the caller does not ask for a size.
	DefaultLeaderboardLimit = 10
	// DefaultLeaderboardMaxLimit caps the size of a single board.
	DefaultLeaderboardMaxLimit = 100
)

type leaderboardService struct {
	BaseService
	accounts portsrepo.AccountReader
	maxLimit int
}

// LeaderboardOption is a functional option for configuring the leaderboard service
type LeaderboardOption func(*leaderboardService)

// WithMaxLimit caps how many rows a single board may return.
func WithMaxLimit(max int) LeaderboardOption {
	return func(s *leaderboardService) {
		if max > 0 {
			s.maxLimit = max
		}
	}
}

// WithLeaderboardStorageTimeout bounds each storage call made by the leaderboard.
func WithLeaderboardStorageTimeout(d time.Duration) LeaderboardOption {
	return func(s *leaderboardService) {
		s.StorageTimeout = d
	}
}

// NewLeaderboardService creates a read-only ranking service
func NewLeaderboardService(accounts portsrepo.AccountReader, options ...LeaderboardOption) portssvc.LeaderboardSvc {
	svc := &leaderboardService{accounts: accounts, maxLimit: DefaultLeaderboardMaxLimit}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LeaderboardSvc = (*leaderboardService)(nil)

func (s *leaderboardService) Top(ctx context.Context, scope domain.Scope, limit int) (*domain.Leaderboard, error) {
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	accounts, err := s.accounts.TopAccounts(sctx, scope, limit)
	if err != nil {
		err = classifyStorageErr(err)
		s.LogError(ctx, err, "Failed to load leaderboard", slog.String("scope", scope.String()))
		return nil, err
	}

	board := &domain.Leaderboard{Scope: scope, Entries: make([]domain.LeaderboardEntry, 0, len(accounts))}
	for i, acc := range accounts {
		board.Entries = append(board.Entries, domain.LeaderboardEntry{
			Rank:    i + 1,
			OwnerID: acc.Key.OwnerID,
			Balance: acc.Balance,
		})
	}
	return board, nil
}

func (s *leaderboardService) Boards(ctx context.Context, communityID string, limit int) (*domain.Leaderboard, *domain.Leaderboard, error) {
	var community, global *domain.Leaderboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		board, err := s.Top(gctx, domain.CommunityScope(communityID), limit)
		community = board
		return err
	})
	g.Go(func() error {
		board, err := s.Top(gctx, domain.GlobalScope(), limit)
		global = board
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return community, global, nil
}
