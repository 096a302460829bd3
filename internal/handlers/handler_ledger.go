package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/SscSPs/guild_economy/internal/core/domain"
	portssvc "github.com/SscSPs/guild_economy/internal/core/ports/services"
	"github.com/SscSPs/guild_economy/internal/dto"
	"github.com/SscSPs/guild_economy/internal/middleware"
	"github.com/gin-gonic/gin"
)

// selfAlias in an owner path parameter stands for the caller.
const selfAlias = "me"

// ledgerHandler handles HTTP requests for balances, daily claims and transfers.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	clock         func() time.Time
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls, clock: time.Now}
}

// registerLedgerRoutes registers ledger routes under /communities/:communityID.
func registerLedgerRoutes(community *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	community.GET("/balances/:ownerID", h.getBalances)
	community.POST("/daily", h.claimDaily)
	community.POST("/transfers", h.transfer)
}

// getBalances godoc
// @Summary Get an owner's balances
// @Description Returns the owner's balance in the community and in the global scope. Accounts are created on first access.
// @Tags ledger
// @Produce json
// @Param communityID path string true "Community ID"
// @Param ownerID path string true "Owner ID, or 'me' for the caller"
// @Success 200 {object} dto.BalancesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid owner or community"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /communities/{communityID}/balances/{ownerID} [get]
func (h *ledgerHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller owner ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	communityID := c.Param("communityID")
	ownerID := c.Param("ownerID")
	if ownerID == selfAlias {
		ownerID = callerID
	}

	balances, err := h.ledgerService.GetBalances(c.Request.Context(), ownerID, communityID)
	if err != nil {
		respondError(c, logger, err, "Failed to get balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalancesResponse(balances))
}

// claimDaily godoc
// @Summary Claim the daily bonus
// @Description Grants the community and global daily bonus independently. Succeeds if at least one scope was granted.
// @Tags ledger
// @Produce json
// @Param communityID path string true "Community ID"
// @Success 200 {object} dto.DailyClaimResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid community"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 429 {object} dto.CooldownErrorResponse "Both scopes are cooling down"
// @Failure 503 {object} dto.PartialDailyClaimResponse "Storage unavailable; claim holds any scope already granted"
// @Security BearerAuth
// @Router /communities/{communityID}/daily [post]
func (h *ledgerHandler) claimDaily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller owner ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	claim, err := h.ledgerService.ClaimDaily(c.Request.Context(), callerID, c.Param("communityID"), h.clock())
	if err != nil {
		if claim != nil && claim.AnyGranted() && errors.Is(err, apperrors.ErrStorageUnavailable) {
			logger.Error("Daily claim partially applied",
				slog.String("error", err.Error()),
				slog.Bool("community_granted", claim.Community.Granted),
				slog.Bool("global_granted", claim.Global.Granted))
			c.Header("Retry-After", "1")
			c.JSON(http.StatusServiceUnavailable, dto.PartialDailyClaimResponse{
				Error: "Storage temporarily unavailable, please retry",
				Claim: dto.ToDailyClaimResponse(claim),
			})
			return
		}
		respondError(c, logger, err, "Failed to claim daily bonus")
		return
	}
	if cerr := claim.Err(); cerr != nil {
		respondError(c, logger, cerr, "Failed to claim daily bonus")
		return
	}
	c.JSON(http.StatusOK, dto.ToDailyClaimResponse(claim))
}

// transfer godoc
// @Summary Transfer coins to another owner
// @Description Moves coins from the caller to another owner within the community or the global scope. All or nothing.
// @Tags ledger
// @Accept json
// @Produce json
// @Param communityID path string true "Community ID"
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount, self transfer or malformed request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /communities/{communityID}/transfers [post]
func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller owner ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	scope, err := domain.ResolveScope(req.Scope, c.Param("communityID"))
	if err != nil {
		respondError(c, logger, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error()), "Failed to transfer")
		return
	}

	logger.Info("Received transfer request",
		slog.String("to_owner_id", req.ToOwnerID),
		slog.String("scope", scope.String()),
		slog.Int64("amount", req.Amount))

	result, err := h.ledgerService.Transfer(c.Request.Context(), callerID, req.ToOwnerID, scope, req.Amount)
	if err != nil {
		respondError(c, logger, err, "Failed to transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(result))
}
