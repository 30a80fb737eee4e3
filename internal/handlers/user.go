package handlers

import (
	"net/http"

	"goddit/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
	posts *services.PostService
}

func NewUserHandler(users *services.UserService, posts *services.PostService) *UserHandler {
	return &UserHandler{users: users, posts: posts}
}

// Profile is the public page for a username: who they are, what they
// posted, what they said.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.users.ByUsername(c.Param("username"))
	if err != nil {
		RespondError(c, err)
		return
	}

	posts, err := h.posts.ByUser(user.ID, 50)
	if err != nil {
		RespondError(c, err)
		return
	}
	comments, err := h.users.CommentsByUser(user.ID, 50)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     gin.H{"id": user.ID, "username": user.Username, "created_at": user.CreatedAt},
		"posts":    posts,
		"comments": comments,
	})
}
