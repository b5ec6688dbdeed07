package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/services"
)

// GetRestaurant handles GET /api/restaurant
func GetRestaurant(c *gin.Context) {
	settings, err := services.GetSettings(c.Request.Context(), config.GetDB())
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, settings)
}

// UpdateRestaurant handles PUT /api/restaurant (admin)
func UpdateRestaurant(c *gin.Context) {
	var req services.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	settings, err := services.UpdateSettings(c.Request.Context(), config.GetDB(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Restaurant settings updated", settings)
}
