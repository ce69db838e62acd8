package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/group/ticketmachine/internal/application"
)

// OfferHandler handles HTTP requests for special offer operations.
type OfferHandler struct {
	service *application.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(service *application.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

// RegisterRoutes registers all offer routes.
func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup, sessions SessionDecoder) {
	offers := r.Group("/offers")
	{
		offers.GET("", h.ListOffers)
		offers.GET("/search", h.SearchOffers)
		offers.POST("", AuthMiddleware(sessions), h.CreateOffer)
		offers.DELETE("/:id", AuthMiddleware(sessions), h.DeleteOffer)
	}
}

// CreateOffer handles POST /api/v1/offers.
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Error: "unauthorized"})
		return
	}

	var req application.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddOffer(c.Request.Context(), session, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, result)
}

// ListOffers handles GET /api/v1/offers.
func (h *OfferHandler) ListOffers(c *gin.Context) {
	result, err := h.service.ListOffers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, result)
}

// SearchOffers handles GET /api/v1/offers/search?station=.
func (h *OfferHandler) SearchOffers(c *gin.Context) {
	result, err := h.service.SearchByStation(c.Request.Context(), c.Query("station"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, result)
}

// DeleteOffer handles DELETE /api/v1/offers/:id. The id may be a full id or a
// unique prefix such as the short id.
func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Error: "unauthorized"})
		return
	}

	deleted, err := h.service.DeleteByAnyIdentifier(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondNotFound(c, "offer not found or identifier is ambiguous")
		return
	}

	respondSuccess(c, gin.H{"deleted": true})
}
