package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/middleware"
	"github.com/kgn-corner/restaurant-api/services"
)

// CreateContact handles POST /api/contact - stores a contact form message
func CreateContact(c *gin.Context) {
	var req services.CreateContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	contact, err := services.CreateContact(c.Request.Context(), config.GetDB(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Thank you for contacting us! We will get back to you soon.", contact)
}

// ListContacts handles GET /api/contact?status= (admin)
func ListContacts(c *gin.Context) {
	contacts, err := services.ListContacts(c.Request.Context(), config.GetDB(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, contacts)
}

// GetContact handles GET /api/contact/:id (admin)
func GetContact(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	contact, err := services.GetContact(c.Request.Context(), config.GetDB(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, contact)
}

// UpdateContact handles PUT /api/contact/:id (admin) - marks read or records a reply
func UpdateContact(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	contact, err := services.UpdateContact(c.Request.Context(), config.GetDB(), middleware.CurrentUserOrNil(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Contact updated", contact)
}
