package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	"github.com/go-redis/redis/v8"
)

// ShopCatalog stores each community's items in one hash keyed by lowercased name.
type ShopCatalog struct {
	rdb  redis.UniversalClient
	keys keyspace
}

// NewShopCatalog creates a catalog writing under prefix.
func NewShopCatalog(rdb redis.UniversalClient, prefix string) *ShopCatalog {
	return &ShopCatalog{rdb: rdb, keys: keyspace{prefix: prefix}}
}

var _ portsrepo.ShopCatalog = (*ShopCatalog)(nil)

func (c *ShopCatalog) SaveItem(ctx context.Context, item domain.ShopItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to encode shop item", err)
	}
	created, err := c.rdb.HSetNX(ctx, c.keys.shop(item.CommunityID), domain.ItemLookupKey(item.Name), payload).Result()
	if err != nil {
		return classifyRedisError("failed to save shop item", err)
	}
	if !created {
		return fmt.Errorf("%w: %q in community %s", apperrors.ErrDuplicateItem, item.Name, item.CommunityID)
	}
	return nil
}

func (c *ShopCatalog) FindItem(ctx context.Context, communityID string, name string) (*domain.ShopItem, error) {
	raw, err := c.rdb.HGet(ctx, c.keys.shop(communityID), domain.ItemLookupKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %q in community %s", apperrors.ErrItemNotFound, name, communityID)
		}
		return nil, classifyRedisError("failed to find shop item", err)
	}
	var item domain.ShopItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to decode shop item", err)
	}
	return &item, nil
}

func (c *ShopCatalog) ListItems(ctx context.Context, communityID string) ([]domain.ShopItem, error) {
	values, err := c.rdb.HVals(ctx, c.keys.shop(communityID)).Result()
	if err != nil {
		return nil, classifyRedisError("failed to list shop items", err)
	}
	items := make([]domain.ShopItem, 0, len(values))
	for _, raw := range values {
		var item domain.ShopItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to decode shop item", err)
		}
		items = append(items, item)
	}
	domain.SortItems(items)
	return items, nil
}
