package services

import (
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/guild_economy/internal/core/ports/services"
	"github.com/SscSPs/guild_economy/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(
		repos.AccountStore,
		WithDailyBonus(cfg.CommunityDailyBonus, cfg.GlobalDailyBonus),
		WithDailyCooldown(cfg.DailyCooldown),
		WithLedgerStorageTimeout(cfg.StorageTimeout),
	)

	container.Shop = NewShopService(
		repos.ShopCatalog,
		repos.AccountStore,
		WithShopStorageTimeout(cfg.StorageTimeout),
	)

	container.Leaderboard = NewLeaderboardService(
		repos.AccountStore,
		WithMaxLimit(cfg.LeaderboardMaxLimit),
		WithLeaderboardStorageTimeout(cfg.StorageTimeout),
	)

	return container
}
