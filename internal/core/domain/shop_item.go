package domain

import (
	"sort"
	"strings"
	"time"
)

// ShopItem is a purchasable catalog entry, unique by name within a community.
type ShopItem struct {
	CommunityID string    `json:"communityID"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ItemLookupKey is the case-insensitive identity of an item name within a community.
func ItemLookupKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SortItems orders items by price ascending, then name.
func SortItems(items []ShopItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Price != items[j].Price {
			return items[i].Price < items[j].Price
		}
		return items[i].Name < items[j].Name
	})
}

// PurchaseResult reports the item bought and the buyer's community balance afterwards.
type PurchaseResult struct {
	OwnerID    string   `json:"ownerID"`
	Item       ShopItem `json:"item"`
	PricePaid  int64    `json:"pricePaid"`
	NewBalance int64    `json:"newBalance"`
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	OwnerID string `json:"ownerID"`
	Balance int64  `json:"balance"`
}

// Leaderboard is a ranked view over one scope.
type Leaderboard struct {
	Scope   Scope              `json:"scope"`
	Entries []LeaderboardEntry `json:"entries"`
}
