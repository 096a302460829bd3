package dto

import (
	"time"

	"github.com/SscSPs/guild_economy/internal/core/domain"
)

// CreateShopItemRequest defines the data needed to add an item to a community shop.
type CreateShopItemRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Price       int64  `json:"price"`
	Description string `json:"description" binding:"max=1000"`
}

// PurchaseRequest names the item to buy. Matching is case-insensitive.
type PurchaseRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ShopItemResponse defines the data returned for a shop item.
type ShopItemResponse struct {
	CommunityID string    `json:"communityID"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListShopItemsResponse is a community catalog ordered by price.
type ListShopItemsResponse struct {
	Items []ShopItemResponse `json:"items"`
}

// PurchaseResponse defines the data returned after a purchase.
type PurchaseResponse struct {
	OwnerID    string           `json:"ownerID"`
	Item       ShopItemResponse `json:"item"`
	PricePaid  int64            `json:"pricePaid"`
	NewBalance int64            `json:"newBalance"`
}

// ToShopItemResponse converts a domain.ShopItem to ShopItemResponse
func ToShopItemResponse(item domain.ShopItem) ShopItemResponse {
	return ShopItemResponse{
		CommunityID: item.CommunityID,
		Name:        item.Name,
		Price:       item.Price,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
	}
}

// ToListShopItemsResponse converts a catalog slice to ListShopItemsResponse
func ToListShopItemsResponse(items []domain.ShopItem) ListShopItemsResponse {
	resp := ListShopItemsResponse{Items: make([]ShopItemResponse, len(items))}
	for i, item := range items {
		resp.Items[i] = ToShopItemResponse(item)
	}
	return resp
}

// ToPurchaseResponse converts domain.PurchaseResult to PurchaseResponse
func ToPurchaseResponse(p *domain.PurchaseResult) PurchaseResponse {
	return PurchaseResponse{
		OwnerID:    p.OwnerID,
		Item:       ToShopItemResponse(p.Item),
		PricePaid:  p.PricePaid,
		NewBalance: p.NewBalance,
	}
}
