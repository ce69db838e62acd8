package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/group/ticketmachine/internal/application"
)

// Services bundles the application services the router exposes.
type Services struct {
	Offers    *application.OfferService
	Purchases *application.PurchaseService
	Cards     *application.CardService
	Auth      *application.AuthService

	// Origin is the station the machine sells tickets from.
	Origin string
}

// NewRouter builds the gin engine with global middleware and every route.
func NewRouter(svc Services, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "ticketmachine", "origin": svc.Origin})
	})

	apiV1 := router.Group("/api/v1")
	NewOfferHandler(svc.Offers).RegisterRoutes(apiV1, svc.Auth)
	NewPurchaseHandler(svc.Purchases, svc.Cards).RegisterRoutes(apiV1)
	NewAdminHandler(svc.Auth, svc.Purchases).RegisterRoutes(apiV1)

	return router
}
