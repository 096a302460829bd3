package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portsrepo "github.com/SscSPs/guild_economy/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxShopCatalog stores items in shop_items, unique on (community_id, name_key).
type PgxShopCatalog struct {
	BaseRepository
}

func newPgxShopCatalog(pool *pgxpool.Pool) *PgxShopCatalog {
	return &PgxShopCatalog{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ShopCatalog = (*PgxShopCatalog)(nil)

func (r *PgxShopCatalog) SaveItem(ctx context.Context, item domain.ShopItem) error {
	query := `
		INSERT INTO shop_items (community_id, name_key, name, price, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		item.CommunityID, domain.ItemLookupKey(item.Name), item.Name,
		item.Price, item.Description, item.CreatedAt,
	)
	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return fmt.Errorf("%w: %q in community %s", apperrors.ErrDuplicateItem, item.Name, item.CommunityID)
		}
		if isPgCode(err, pgCheckViolation) {
			return fmt.Errorf("%w: price %d", apperrors.ErrInvalidAmount, item.Price)
		}
		return classifyPgError("failed to save shop item", err)
	}
	return nil
}

func (r *PgxShopCatalog) FindItem(ctx context.Context, communityID string, name string) (*domain.ShopItem, error) {
	query := `
		SELECT community_id, name, price, description, created_at
		FROM shop_items
		WHERE community_id = $1 AND name_key = $2;
	`
	var item domain.ShopItem
	err := r.Pool.QueryRow(ctx, query, communityID, domain.ItemLookupKey(name)).Scan(
		&item.CommunityID, &item.Name, &item.Price, &item.Description, &item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q in community %s", apperrors.ErrItemNotFound, name, communityID)
		}
		return nil, classifyPgError("failed to find shop item", err)
	}
	item.CreatedAt = item.CreatedAt.UTC()
	return &item, nil
}

func (r *PgxShopCatalog) ListItems(ctx context.Context, communityID string) ([]domain.ShopItem, error) {
	query := `
		SELECT community_id, name, price, description, created_at
		FROM shop_items
		WHERE community_id = $1
		ORDER BY price ASC, name COLLATE "C" ASC;
	`
	rows, err := r.Pool.Query(ctx, query, communityID)
	if err != nil {
		return nil, classifyPgError("failed to list shop items", err)
	}
	defer rows.Close()

	items := make([]domain.ShopItem, 0)
	for rows.Next() {
		var item domain.ShopItem
		if err := rows.Scan(&item.CommunityID, &item.Name, &item.Price, &item.Description, &item.CreatedAt); err != nil {
			return nil, classifyPgError("failed to scan shop item", err)
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError("failed to iterate shop items", err)
	}
	return items, nil
}
