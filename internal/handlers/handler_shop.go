package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	portssvc "github.com/SscSPs/guild_economy/internal/core/ports/services"
	"github.com/SscSPs/guild_economy/internal/dto"
	"github.com/SscSPs/guild_economy/internal/middleware"
	"github.com/gin-gonic/gin"
)

// shopHandler handles HTTP requests for community shops.
type shopHandler struct {
	shopService portssvc.ShopSvcFacade
}

func newShopHandler(ss portssvc.ShopSvcFacade) *shopHandler {
	return &shopHandler{shopService: ss}
}

// registerShopRoutes registers shop routes under /communities/:communityID.
func registerShopRoutes(community *gin.RouterGroup, shopService portssvc.ShopSvcFacade) {
	h := newShopHandler(shopService)

	shop := community.Group("/shop")
	{
		shop.GET("/items", h.listItems)
		shop.POST("/items", h.addItem)
		shop.POST("/purchases", h.purchase)
	}
}

// listItems godoc
// @Summary List shop items
// @Description Lists the community's items ordered by price ascending, then name.
// @Tags shop
// @Produce json
// @Param communityID path string true "Community ID"
// @Success 200 {object} dto.ListShopItemsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /communities/{communityID}/shop/items [get]
func (h *shopHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	items, err := h.shopService.ListItems(c.Request.Context(), c.Param("communityID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list shop items")
		return
	}
	c.JSON(http.StatusOK, dto.ToListShopItemsResponse(items))
}

// addItem godoc
// @Summary Add a shop item
// @Description Adds an item to the community shop. Requires the community in the token's manage claim.
// @Tags shop
// @Accept json
// @Produce json
// @Param communityID path string true "Community ID"
// @Param item body dto.CreateShopItemRequest true "Item details"
// @Success 201 {object} dto.ShopItemResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid name or price"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Caller does not manage the community"
// @Failure 409 {object} dto.ErrorResponse "An item with that name already exists"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /communities/{communityID}/shop/items [post]
func (h *shopHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	communityID := c.Param("communityID")

	if !middleware.CanManageCommunity(c, communityID) {
		respondError(c, logger, fmt.Errorf("%w: caller does not manage community %s", apperrors.ErrForbidden, communityID), "Failed to add shop item")
		return
	}

	var req dto.CreateShopItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	item, err := h.shopService.AddItem(c.Request.Context(), communityID, req.Name, req.Price, req.Description)
	if err != nil {
		respondError(c, logger, err, "Failed to add shop item")
		return
	}

	logger.Info("Shop item added", slog.String("community_id", communityID), slog.String("item", item.Name))
	c.JSON(http.StatusCreated, dto.ToShopItemResponse(*item))
}

// purchase godoc
// @Summary Buy a shop item
// @Description Debits the item's price from the caller's community balance.
// @Tags shop
// @Accept json
// @Produce json
// @Param communityID path string true "Community ID"
// @Param purchase body dto.PurchaseRequest true "Item to buy"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Failure 409 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /communities/{communityID}/shop/purchases [post]
func (h *shopHandler) purchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller owner ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	result, err := h.shopService.Purchase(c.Request.Context(), callerID, c.Param("communityID"), req.Name)
	if err != nil {
		respondError(c, logger, err, "Failed to purchase item")
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseResponse(result))
}
