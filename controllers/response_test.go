package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/services"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{"validation", services.ValidationError("VALIDATION_ERROR", "Name is required"), http.StatusBadRequest, "VALIDATION_ERROR", "Name is required"},
		{"not found", services.NotFoundError("ORDER_NOT_FOUND", "Order not found"), http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found"},
		{"unauthorized", services.UnauthorizedError("INVALID_CREDENTIALS", "Invalid email or password"), http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"},
		{"forbidden", services.ForbiddenError("FORBIDDEN", "Nope"), http.StatusForbidden, "FORBIDDEN", "Nope"},
		{"conflict", services.ConflictError("ORDER_ALREADY_PAID", "Order has already been paid"), http.StatusConflict, "ORDER_ALREADY_PAID", "Order has already been paid"},
		{"payment failed", services.PaymentFailedError("Your card was declined.", errors.New("card_declined")), http.StatusPaymentRequired, "PAYMENT_FAILED", "Your card was declined."},
		{"unavailable", services.UnavailableError("STORAGE_UNAVAILABLE", "Image storage is not configured"), http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured"},
		{"wrapped service error", fmt.Errorf("outer: %w", services.NotFoundError("USER_NOT_FOUND", "User not found")), http.StatusNotFound, "USER_NOT_FOUND", "User not found"},
		{"unexpected", errors.New("pq: relation \"orders\" does not exist"), http.StatusInternalServerError, "INTERNAL_ERROR", internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/fail", func(c *gin.Context) { respondError(c, tt.err) })

			w, response := performRequest(t, router, http.MethodGet, "/fail", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, false, response["success"])
			assert.Equal(t, tt.expectedMessage, response["message"])
			assert.Equal(t, tt.expectedCode, errorCodeOf(response))
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestIDParam(t *testing.T) {
	router := setupTestRouter()
	router.GET("/items/:id", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		respondData(c, http.StatusOK, id)
	})

	for _, path := range []string{"/items/abc", "/items/0", "/items/-3"} {
		w, response := performRequest(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "INVALID_ID", errorCodeOf(response))
	}

	w, response := performRequest(t, router, http.MethodGet, "/items/12", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), response["data"])
}

func TestRespondListNeverNull(t *testing.T) {
	router := setupTestRouter()
	router.GET("/empty", func(c *gin.Context) { respondList[string](c, nil) })

	w, response := performRequest(t, router, http.MethodGet, "/empty", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), response["count"])
	assert.Equal(t, []interface{}{}, response["data"])
}
