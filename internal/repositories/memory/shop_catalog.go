package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
)

// ShopCatalog keeps items per community, keyed by case-insensitive name.
type ShopCatalog struct {
	mu    sync.RWMutex
	items map[string]map[string]domain.ShopItem
}

// NewShopCatalog creates an empty catalog.
func NewShopCatalog() *ShopCatalog {
	return &ShopCatalog{items: make(map[string]map[string]domain.ShopItem)}
}

var _ portsrepo.ShopCatalog = (*ShopCatalog)(nil)

func (c *ShopCatalog) SaveItem(ctx context.Context, item domain.ShopItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	community, ok := c.items[item.CommunityID]
	if !ok {
		community = make(map[string]domain.ShopItem)
		c.items[item.CommunityID] = community
	}
	key := domain.ItemLookupKey(item.Name)
	if _, exists := community[key]; exists {
		return fmt.Errorf("%w: %q in community %s", apperrors.ErrDuplicateItem, item.Name, item.CommunityID)
	}
	community[key] = item
	return nil
}

func (c *ShopCatalog) FindItem(ctx context.Context, communityID string, name string) (*domain.ShopItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[communityID][domain.ItemLookupKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q in community %s", apperrors.ErrItemNotFound, name, communityID)
	}
	return &item, nil
}

func (c *ShopCatalog) ListItems(ctx context.Context, communityID string) ([]domain.ShopItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	items := make([]domain.ShopItem, 0, len(c.items[communityID]))
	for _, item := range c.items[communityID] {
		items = append(items, item)
	}
	c.mu.RUnlock()

	domain.SortItems(items)
	return items, nil
}
