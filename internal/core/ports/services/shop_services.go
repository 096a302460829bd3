package services

import (
	"context"

	"github.com/SscSPs/guild_economy/internal/core/domain"
)

// ShopCatalogSvc defines catalog management
type ShopCatalogSvc interface {
	// AddItem creates a new item in the community catalog.
	AddItem(ctx context.Context, communityID string, name string, price int64, description string) (*domain.ShopItem, error)

	// ListItems returns the community catalog ordered by price ascending.
	ListItems(ctx context.Context, communityID string) ([]domain.ShopItem, error)
}

// ShopPurchaseSvc defines buying catalog items against a community balance
type ShopPurchaseSvc interface {
	Purchase(ctx context.Context, ownerID string, communityID string, name string) (*domain.PurchaseResult, error)
}

// ShopSvcFacade combines all shop service interfaces
type ShopSvcFacade interface {
	ShopCatalogSvc
	ShopPurchaseSvc
}
