package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/group/ticketmachine/internal/domain"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", domain.NewValidationError("bad date"), http.StatusBadRequest, "bad date"},
		{"not found", domain.NewNotFoundError("destination", "9"), http.StatusNotFound, "destination 9 not found"},
		{"unauthorized", domain.NewUnauthorizedError("no session"), http.StatusUnauthorized, "no session"},
		{"wrapped conflict", fmt.Errorf("failed to save offer: %w", domain.NewConflictError("offer x already exists")), http.StatusConflict, "offer x already exists"},
		{"storage failure", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}
