package redisstore

import (
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	"github.com/go-redis/redis/v8"
)

func NewRepositoryProvider(rdb redis.UniversalClient, prefix string) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountStore: NewAccountStore(rdb, prefix),
		ShopCatalog:  NewShopCatalog(rdb, prefix),
	}
}
