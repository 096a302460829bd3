package memory

import (
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
)

func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountStore: NewAccountStore(),
		ShopCatalog:  NewShopCatalog(),
	}
}
