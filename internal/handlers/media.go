package handlers

import (
	"net/http"

	"goddit/internal/services"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	media *services.MediaService
}

func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadURL hands the client a pre-signed PUT URL plus the object key to
// reference when creating the image post.
func (h *MediaHandler) UploadURL(c *gin.Context) {
	contentType := c.Query("content_type")
	if contentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content_type is required", "field": "content_type"})
		return
	}

	uploadURL, key, err := h.media.UploadURL(contentType)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload_url": uploadURL, "key": key})
}
