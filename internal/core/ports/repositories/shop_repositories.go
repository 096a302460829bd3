package repositories

import (
	"context"

	"github.com/SscSPs/guild_economy/internal/core/domain"
)

// ShopReader defines read operations for catalog data
type ShopReader interface {
	// FindItem returns the item by name, or apperrors.ErrItemNotFound.
	FindItem(ctx context.Context, communityID string, name string) (*domain.ShopItem, error)

	// ListItems returns every item of a community ordered by price, then name.
	ListItems(ctx context.Context, communityID string) ([]domain.ShopItem, error)
}

// ShopWriter defines write operations for catalog data
type ShopWriter interface {
	// SaveItem inserts a new item, or fails with apperrors.ErrDuplicateItem.
	SaveItem(ctx context.Context, item domain.ShopItem) error
}

// ShopCatalog combines all catalog repository interfaces
type ShopCatalog interface {
	ShopReader
	ShopWriter
}
