package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portssvc "github.com/SscSPs/guild_economy/internal/core/ports/services"
	"github.com/SscSPs/guild_economy/internal/dto"
	"github.com/SscSPs/guild_economy/internal/middleware"
	"github.com/gin-gonic/gin"
)

type leaderboardHandler struct {
	leaderboardService portssvc.LeaderboardSvc
}

func newLeaderboardHandler(ls portssvc.LeaderboardSvc) *leaderboardHandler {
	return &leaderboardHandler{leaderboardService: ls}
}

// registerLeaderboardRoutes registers the scope leaderboard on v1 and the
// combined boards under /communities/:communityID.
func registerLeaderboardRoutes(v1 *gin.RouterGroup, community *gin.RouterGroup, leaderboardService portssvc.LeaderboardSvc) {
	h := newLeaderboardHandler(leaderboardService)

	v1.GET("/leaderboard", h.getLeaderboard)
	community.GET("/leaderboard", h.getCommunityBoards)
}

// getLeaderboard godoc
// @Summary Rank owners in one scope
// @Description Ranks accounts by balance descending, ties by owner id. The limit is capped by configuration.
// @Tags leaderboard
// @Produce json
// @Param scope query string false "global (default) or community:<id>"
// @Param limit query int false "Number of entries (default 10)"
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid scope or limit"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /leaderboard [get]
func (h *leaderboardHandler) getLeaderboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.LeaderboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err)
		return
	}
	scope := domain.GlobalScope()
	if q.Scope != "" {
		parsed, err := domain.ParseScope(q.Scope)
		if err != nil {
			respondError(c, logger, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error()), "Failed to get leaderboard")
			return
		}
		scope = parsed
	}

	board, err := h.leaderboardService.Top(c.Request.Context(), scope, q.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to get leaderboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToLeaderboardResponse(board))
}

// getCommunityBoards godoc
// @Summary Rank owners in a community and globally
// @Description Returns the community leaderboard and the global leaderboard side by side.
// @Tags leaderboard
// @Produce json
// @Param communityID path string true "Community ID"
// @Param limit query int false "Number of entries per board (default 10)"
// @Success 200 {object} dto.CommunityBoardsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid limit"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /communities/{communityID}/leaderboard [get]
func (h *leaderboardHandler) getCommunityBoards(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.LeaderboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err)
		return
	}

	community, global, err := h.leaderboardService.Boards(c.Request.Context(), c.Param("communityID"), q.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to get leaderboards")
		return
	}
	c.JSON(http.StatusOK, dto.CommunityBoardsResponse{
		Community: dto.ToLeaderboardResponse(community),
		Global:    dto.ToLeaderboardResponse(global),
	})
}
