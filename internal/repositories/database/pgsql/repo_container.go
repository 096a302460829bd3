package pgsql

import (
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountStore: newPgxAccountStore(dbPool),
		ShopCatalog:  newPgxShopCatalog(dbPool),
	}
}
