package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/group/ticketmachine/internal/application"
)

// AdminHandler handles admin login and reporting requests.
type AdminHandler struct {
	auth      *application.AuthService
	purchases *application.PurchaseService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(auth *application.AuthService, purchases *application.PurchaseService) *AdminHandler {
	return &AdminHandler{auth: auth, purchases: purchases}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.POST("/login", h.Login)

	protected := admin.Group("")
	protected.Use(AuthMiddleware(h.auth))
	{
		protected.GET("/tickets", h.ListTickets)
		protected.GET("/stats/sales", h.SalesStats)
	}
}

// Login handles POST /api/v1/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	dto, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, dto)
}

// ListTickets handles GET /api/v1/admin/tickets.
func (h *AdminHandler) ListTickets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	tickets, err := h.purchases.RecentTickets(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, tickets)
}

// SalesStats handles GET /api/v1/admin/stats/sales.
func (h *AdminHandler) SalesStats(c *gin.Context) {
	stats, err := h.purchases.SalesByDestination(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, stats)
}
