package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/services"
)

const internalErrorMessage = "An error occurred. Please try again later."

var statusByKind = map[services.ErrorKind]int{
	services.KindValidation:    http.StatusBadRequest,
	services.KindNotFound:      http.StatusNotFound,
	services.KindUnauthorized:  http.StatusUnauthorized,
	services.KindForbidden:     http.StatusForbidden,
	services.KindConflict:      http.StatusConflict,
	services.KindPaymentFailed: http.StatusPaymentRequired,
	services.KindUnavailable:   http.StatusServiceUnavailable,
}

// respondError writes the failure envelope for err. Unexpected errors are
// logged in full and answered with a generic message.
func respondError(c *gin.Context, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", internalErrorMessage)
		return
	}

	status, known := statusByKind[se.Kind]
	if !known {
		status = http.StatusInternalServerError
	}
	if se.Err != nil {
		slog.WarnContext(c.Request.Context(), "request rejected",
			slog.String("code", se.Code),
			slog.String("error", se.Err.Error()),
		)
	}
	writeError(c, status, se.Code, se.Message)
}

// respondBindingError answers a request body or form that failed to bind
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request data",
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// idParam parses a positive numeric path parameter; on failure it has
// already written a 400 response
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		writeError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
