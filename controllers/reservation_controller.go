package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/middleware"
	"github.com/kgn-corner/restaurant-api/services"
)

// CreateReservation handles POST /api/reservations - books a table for a guest or the signed-in user
func CreateReservation(c *gin.Context) {
	var req services.CreateReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	reservation, err := services.CreateReservation(c.Request.Context(), config.GetDB(), middleware.CurrentUserOrNil(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Reservation created successfully", reservation)
}

// ListReservations handles GET /api/reservations?status=&startDate=&endDate= (admin)
func ListReservations(c *gin.Context) {
	filter := services.ReservationFilter{
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	reservations, err := services.ListReservations(c.Request.Context(), config.GetDB(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, reservations)
}

// ListMyReservations handles GET /api/reservations/user/my
func ListMyReservations(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	reservations, err := services.ListUserReservations(c.Request.Context(), config.GetDB(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, reservations)
}

// GetReservation handles GET /api/reservations/:id
func GetReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	reservation, err := services.GetReservation(c.Request.Context(), config.GetDB(), middleware.CurrentUserOrNil(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, reservation)
}

// UpdateReservation handles PUT /api/reservations/:id (admin)
func UpdateReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	reservation, err := services.UpdateReservation(c.Request.Context(), config.GetDB(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Reservation updated", reservation)
}

// CancelReservation handles PUT /api/reservations/:id/cancel. Cancelling twice is not an error.
func CancelReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	reservation, err := services.CancelReservation(c.Request.Context(), config.GetDB(), middleware.CurrentUserOrNil(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Reservation cancelled", reservation)
}

// DeleteReservation handles DELETE /api/reservations/:id (admin)
func DeleteReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteReservation(c.Request.Context(), config.GetDB(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Reservation deleted", nil)
}
