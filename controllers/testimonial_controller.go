package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/services"
)

// ListTestimonials handles GET /api/testimonials - approved only
func ListTestimonials(c *gin.Context) {
	listTestimonials(c, false)
}

// ListAllTestimonials handles GET /api/testimonials/all (admin)
func ListAllTestimonials(c *gin.Context) {
	listTestimonials(c, true)
}

func listTestimonials(c *gin.Context, all bool) {
	testimonials, err := services.ListTestimonials(c.Request.Context(), config.GetDB(), all)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, testimonials)
}

// SubmitTestimonial handles POST /api/testimonials - held for approval
func SubmitTestimonial(c *gin.Context) {
	var req services.TestimonialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	testimonial, err := services.SubmitTestimonial(c.Request.Context(), config.GetDB(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Thank you! Your review will appear once approved.", testimonial)
}

// UpdateTestimonial handles PUT /api/testimonials/:id (admin)
func UpdateTestimonial(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req services.TestimonialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	testimonial, err := services.UpdateTestimonial(c.Request.Context(), config.GetDB(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Testimonial updated", testimonial)
}

// DeleteTestimonial handles DELETE /api/testimonials/:id (admin)
func DeleteTestimonial(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteTestimonial(c.Request.Context(), config.GetDB(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Testimonial deleted", nil)
}
