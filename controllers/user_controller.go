package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/middleware"
	"github.com/kgn-corner/restaurant-api/models"
	"github.com/kgn-corner/restaurant-api/services"
)

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/auth/register - creates a customer account
func Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := services.RegisterUser(c.Request.Context(), config.GetDB(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := services.IssueToken(config.GetConfig(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Registration successful", AuthResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login - exchanges credentials for a token
func Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := services.Authenticate(c.Request.Context(), config.GetDB(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := services.IssueToken(config.GetConfig(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Login successful", AuthResponse{Token: token, User: user})
}

// GetMyProfile handles GET /api/auth/me
func GetMyProfile(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	respondData(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/auth/update
func UpdateMyProfile(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	updated, err := services.UpdateProfile(c.Request.Context(), config.GetDB(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Profile updated", updated)
}

// ListUsers handles GET /api/auth/users (admin)
func ListUsers(c *gin.Context) {
	users, err := services.ListUsers(c.Request.Context(), config.GetDB())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, users)
}

// DeleteUser handles DELETE /api/auth/users/:id (admin)
func DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentUserOrNil(c)
	if err := services.DeleteUser(c.Request.Context(), config.GetDB(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "User deleted", nil)
}
