package handlers

import (
	"errors"
	"log"
	"net/http"

	"goddit/internal/services"

	"github.com/gin-gonic/gin"
)

// RespondError maps the service failure taxonomy onto HTTP in one place:
// validation 400, credentials 401, forbidden 403, not found 404, conflict
// 409. Forbidden and not found stay distinct on purpose.
func RespondError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var cErr *services.ConflictError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
	case errors.As(err, &cErr):
		c.JSON(http.StatusConflict, gin.H{"error": cErr.Error(), "field": cErr.Field})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// BindJSON wraps gin's binding so malformed input surfaces through the same
// taxonomy as service-level validation.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
