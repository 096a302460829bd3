package services

import (
	"context"

	"github.com/SscSPs/guild_economy/internal/core/domain"
)

// LeaderboardSvc defines read-only ranking views
type LeaderboardSvc interface {
	// Top ranks accounts in scope by balance. A non-positive limit means the default.
	Top(ctx context.Context, scope domain.Scope, limit int) (*domain.Leaderboard, error)

	// Boards returns the community board and the global board together.
	Boards(ctx context.Context, communityID string, limit int) (community *domain.Leaderboard, global *domain.Leaderboard, err error)
}
