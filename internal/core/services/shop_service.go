package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/guild_economy/internal/core/ports/services"
	"github.com/SscSPs/guild_economy/internal/platform/metrics"
)

const (
	// MaxItemNameLength bounds shop item names, in characters.
	MaxItemNameLength = 100
	// MaxItemDescriptionLength bounds shop item descriptions, in characters.
	MaxItemDescriptionLength = 1000
)

// shopService implements the ShopSvcFacade interface
type shopService struct {
	BaseService
	catalog  portsrepo.ShopCatalog
	accounts portsrepo.AccountStore
	clock    func() time.Time
}

// ShopOption is a functional option for configuring the shop service
type ShopOption func(*shopService)

// WithShopStorageTimeout bounds each storage call made by the shop.
func WithShopStorageTimeout(d time.Duration) ShopOption {
	return func(s *shopService) {
		s.StorageTimeout = d
	}
}

// WithShopClock replaces the clock used for item creation times.
func WithShopClock(clock func() time.Time) ShopOption {
	return func(s *shopService) {
		s.clock = clock
	}
}

// NewShopService creates a new shop service
func NewShopService(catalog portsrepo.ShopCatalog, accounts portsrepo.AccountStore, options ...ShopOption) portssvc.ShopSvcFacade {
	svc := &shopService{
		catalog:  catalog,
		accounts: accounts,
		clock:    time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ShopSvcFacade = (*shopService)(nil)

func (s *shopService) AddItem(ctx context.Context, communityID string, name string, price int64, description string) (item *domain.ShopItem, err error) {
	defer func() { metrics.RecordOperation("add_item", err) }()

	if err := domain.CommunityScope(communityID).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxItemNameLength {
		return nil, fmt.Errorf("%w: item name exceeds %d characters", apperrors.ErrValidation, MaxItemNameLength)
	}
	if utf8.RuneCountInString(description) > MaxItemDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", apperrors.ErrValidation, MaxItemDescriptionLength)
	}
	if price <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	newItem := domain.ShopItem{
		CommunityID: communityID,
		Name:        name,
		Price:       price,
		Description: description,
		CreatedAt:   normalizeTime(s.clock()),
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	if err := classifyStorageErr(s.catalog.SaveItem(sctx, newItem)); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, "Shop item already exists",
				slog.String("community_id", communityID),
				slog.String("item_name", name))
		} else {
			s.LogError(ctx, err, "Failed to save shop item",
				slog.String("community_id", communityID),
				slog.String("item_name", name))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Shop item added",
		slog.String("community_id", communityID),
		slog.String("item_name", name),
		slog.Int64("price", price))
	return &newItem, nil
}

func (s *shopService) ListItems(ctx context.Context, communityID string) ([]domain.ShopItem, error) {
	if err := domain.CommunityScope(communityID).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	items, err := s.catalog.ListItems(sctx, communityID)
	if err != nil {
		err = classifyStorageErr(err)
		s.LogError(ctx, err, "Failed to list shop items", slog.String("community_id", communityID))
		return nil, err
	}
	return items, nil
}

// Purchase debits the price captured at lookup time. The catalog is not
// consulted again after the debit; the deduction is the durable effect.
func (s *shopService) Purchase(ctx context.Context, ownerID string, communityID string, name string) (result *domain.PurchaseResult, err error) {
	defer func() { metrics.RecordOperation("purchase", err) }()

	if err := validateOwnerID(ownerID); err != nil {
		return nil, err
	}
	scope := domain.CommunityScope(communityID)
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", apperrors.ErrValidation)
	}

	item, err := s.findItem(ctx, communityID, name)
	if err != nil {
		return nil, err
	}
	price := item.Price

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	acc, err := s.accounts.Adjust(sctx, domain.Adjustment{
		Key:   domain.NewAccountKey(ownerID, scope),
		Delta: -price,
	})
	if err != nil {
		err = classifyStorageErr(err)
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			s.LogWarn(ctx, "Purchase rejected: insufficient funds",
				slog.String("owner_id", ownerID),
				slog.String("item_name", name),
				slog.Int64("price", price))
		} else {
			s.LogError(ctx, err, "Purchase debit failed",
				slog.String("owner_id", ownerID),
				slog.String("item_name", name))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Shop item purchased",
		slog.String("owner_id", ownerID),
		slog.String("community_id", communityID),
		slog.String("item_name", name),
		slog.Int64("price", price),
		slog.Int64("new_balance", acc.Balance))
	return &domain.PurchaseResult{
		OwnerID:    ownerID,
		Item:       *item,
		PricePaid:  price,
		NewBalance: acc.Balance,
	}, nil
}

func (s *shopService) findItem(ctx context.Context, communityID, name string) (*domain.ShopItem, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	item, err := s.catalog.FindItem(sctx, communityID, name)
	if err != nil {
		err = classifyStorageErr(err)
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up shop item",
				slog.String("community_id", communityID),
				slog.String("item_name", name))
		}
		return nil, err
	}
	return item, nil
}
