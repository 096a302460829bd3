package services_test

import (
	"context"

	"github.com/SscSPs/guild_economy/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore is a mock type for the single-key AccountStore interface.
// It has no AdjustAll, so transfers take the compensating path.
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) GetAccount(ctx context.Context, key domain.AccountKey) (*domain.Account, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountStore) Adjust(ctx context.Context, adj domain.Adjustment) (*domain.Account, error) {
	args := m.Called(ctx, adj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountStore) TopAccounts(ctx context.Context, scope domain.Scope, limit int) ([]domain.Account, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// MockShopCatalog is a mock type for the ShopCatalog interface
type MockShopCatalog struct {
	mock.Mock
}

func (m *MockShopCatalog) FindItem(ctx context.Context, communityID string, name string) (*domain.ShopItem, error) {
	args := m.Called(ctx, communityID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShopItem), args.Error(1)
}

func (m *MockShopCatalog) ListItems(ctx context.Context, communityID string) ([]domain.ShopItem, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShopItem), args.Error(1)
}

func (m *MockShopCatalog) SaveItem(ctx context.Context, item domain.ShopItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// withDelta matches an adjustment of key by delta.
func withDelta(key domain.AccountKey, delta int64) interface{} {
	return mock.MatchedBy(func(adj domain.Adjustment) bool {
		return adj.Key == key && adj.Delta == delta
	})
}
