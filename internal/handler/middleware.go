package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/group/ticketmachine/internal/domain/admin"
)

const (
	requestIDHeader = "X-Request-ID"
	sessionKey      = "admin_session"
)

// SessionDecoder turns a bearer token into an admin session.
type SessionDecoder interface {
	SessionFromToken(token string) (admin.Session, error)
}

// RequestIDMiddleware propagates or assigns a request id.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// LoggerMiddleware logs each request with its latency and any handler errors.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDHeader)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			logger.Error("request failed", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// RecoveryMiddleware turns panics into 500 responses.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{Error: "internal server error"})
	})
}

// AuthMiddleware requires a valid admin bearer token and stores the session.
func AuthMiddleware(decoder SessionDecoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Error: "missing bearer token"})
			return
		}
		session, err := decoder.SessionFromToken(strings.TrimSpace(token))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// GetSession returns the session stored by AuthMiddleware.
func GetSession(c *gin.Context) (admin.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return admin.Session{}, false
	}
	s, ok := v.(admin.Session)
	return s, ok
}
