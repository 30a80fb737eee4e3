package handlers

import (
	"net/http"
	"strings"

	"goddit/internal/services"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	subs  *services.SubService
	users *services.UserService
}

func NewSearchHandler(subs *services.SubService, users *services.UserService) *SearchHandler {
	return &SearchHandler{subs: subs, users: users}
}

// Search backs the search-as-you-type box: sub names and usernames, ten of
// each.
func (h *SearchHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must not be empty", "field": "q"})
		return
	}

	subs, err := h.subs.Search(term)
	if err != nil {
		RespondError(c, err)
		return
	}
	users, err := h.users.Search(term)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subs": subs, "users": users})
}
