package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/group/ticketmachine/internal/domain"
)

// envelope is the JSON body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{Error: message})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, envelope{Error: message})
}

// respondError maps domain error categories onto HTTP status codes. Anything
// unclassified is reported as an internal error without its detail.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var domErr *domain.DomainError
	if errors.As(err, &domErr) {
		message = domErr.Message
		switch {
		case errors.Is(err, domain.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrConflict):
			status = http.StatusConflict
		}
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, envelope{Error: message})
}
