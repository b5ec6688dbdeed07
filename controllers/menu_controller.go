package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/services"
)

// ListMenu handles GET /api/menu?category=&available=
func ListMenu(c *gin.Context) {
	filter := services.MenuFilter{Category: c.Query("category")}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "available must be true or false")
			return
		}
		filter.Available = &available
	}

	items, err := services.ListMenu(c.Request.Context(), config.GetDB(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, items)
}

// ListRecommendations handles GET /api/menu/recommendations
func ListRecommendations(c *gin.Context) {
	items, err := services.ListRecommendations(c.Request.Context(), config.GetDB())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, items)
}

// GetMenuItem handles GET /api/menu/:id
func GetMenuItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	item, err := services.GetMenuItem(c.Request.Context(), config.GetDB(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, item)
}

// CreateMenuItem handles POST /api/menu (admin)
func CreateMenuItem(c *gin.Context) {
	var req services.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	item, err := services.CreateMenuItem(c.Request.Context(), config.GetDB(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem handles PUT /api/menu/:id (admin)
func UpdateMenuItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req services.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	item, err := services.UpdateMenuItem(c.Request.Context(), config.GetDB(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem handles DELETE /api/menu/:id (admin)
func DeleteMenuItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteMenuItem(c.Request.Context(), config.GetDB(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Menu item deleted", nil)
}
