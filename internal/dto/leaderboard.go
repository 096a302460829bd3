package dto

import "github.com/SscSPs/guild_economy/internal/core/domain"

// LeaderboardQuery holds the query parameters of the leaderboard endpoints.
type LeaderboardQuery struct {
	Scope string `form:"scope" binding:"omitempty"` // "global" or "community:<id>"
	Limit int    `form:"limit" binding:"omitempty,min=1"`
}

// LeaderboardEntryResponse is one ranked row.
type LeaderboardEntryResponse struct {
	Rank    int    `json:"rank"`
	OwnerID string `json:"ownerID"`
	Balance int64  `json:"balance"`
}

// LeaderboardResponse is a ranking over one scope.
type LeaderboardResponse struct {
	Scope   string                     `json:"scope"`
	Entries []LeaderboardEntryResponse `json:"entries"`
}

// CommunityBoardsResponse holds the community and global rankings side by side.
type CommunityBoardsResponse struct {
	Community LeaderboardResponse `json:"community"`
	Global    LeaderboardResponse `json:"global"`
}

// ToLeaderboardResponse converts a domain.Leaderboard to LeaderboardResponse
func ToLeaderboardResponse(lb *domain.Leaderboard) LeaderboardResponse {
	resp := LeaderboardResponse{
		Scope:   lb.Scope.String(),
		Entries: make([]LeaderboardEntryResponse, len(lb.Entries)),
	}
	for i, e := range lb.Entries {
		resp.Entries[i] = LeaderboardEntryResponse{Rank: e.Rank, OwnerID: e.OwnerID, Balance: e.Balance}
	}
	return resp
}
