package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/group/ticketmachine/internal/application"
)

// PurchaseHandler handles HTTP requests from the ticket kiosk.
type PurchaseHandler struct {
	purchases *application.PurchaseService
	cards     *application.CardService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchases *application.PurchaseService, cards *application.CardService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, cards: cards}
}

// RegisterRoutes registers the kiosk routes on the given router group.
func (h *PurchaseHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/destinations", h.ListDestinations)
	r.POST("/quotes", h.Quote)
	r.POST("/purchases", h.Purchase)
	r.GET("/cards/:number/balance", h.CardBalance)
}

// ListDestinations handles GET /api/v1/destinations
func (h *PurchaseHandler) ListDestinations(c *gin.Context) {
	dtos, err := h.purchases.ListDestinations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, dtos)
}

// Quote handles POST /api/v1/quotes
func (h *PurchaseHandler) Quote(c *gin.Context) {
	var req application.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	dto, err := h.purchases.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, dto)
}

// Purchase handles POST /api/v1/purchases. A declined payment is still a 200
// with ok=false in the body.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	var req application.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	dto, err := h.purchases.Purchase(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if dto.OK {
		respondCreated(c, dto)
		return
	}
	respondSuccess(c, dto)
}

// CardBalance handles GET /api/v1/cards/:number/balance
func (h *PurchaseHandler) CardBalance(c *gin.Context) {
	dto, err := h.cards.Balance(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !dto.Found {
		respondNotFound(c, "card not found")
		return
	}

	respondSuccess(c, dto)
}
