package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/services"
	"github.com/kgn-corner/restaurant-api/utils"
)

// multipart overhead allowed on top of the image itself
const uploadEnvelopeBytes = 1 << 20

// UploadMenuImage handles POST /api/menu/:id/image (admin) - stores an image for a dish
func UploadMenuImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxFileSize+uploadEnvelopeBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "An image file is required in the \"image\" field")
		return
	}

	item, err := services.UploadMenuImage(c.Request.Context(), config.GetDB(), id, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Image uploaded", item)
}
