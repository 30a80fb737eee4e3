package handlers

import (
	"net/http"

	"goddit/internal/middleware"
	"goddit/internal/services"
	"goddit/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
	posts *services.PostService
}

func NewVoteHandler(votes *services.VoteService, posts *services.PostService) *VoteHandler {
	return &VoteHandler{votes: votes, posts: posts}
}

type castVoteRequest struct {
	Value int `json:"value" binding:"required,oneof=-1 1"`
}

// Cast applies the toggle/switch vote semantics and returns the post's
// resulting point total.
func (h *VoteHandler) Cast(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req castVoteRequest
	if !BindJSON(c, &req) {
		return
	}

	post, err := h.posts.ByPid(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.votes.CastVote(user.ID, post.ID, req.Value); err != nil {
		RespondError(c, err)
		return
	}

	utils.GetCache().Delete(listCacheKey)

	// Re-read for the fresh totals after the committed transaction.
	post, err = h.posts.ByPid(post.Pid)
	if err != nil {
		RespondError(c, err)
		return
	}
	callerVote, err := h.votes.UserVote(user.ID, post.ID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"points":      post.Points,
		"caller_vote": callerVote,
	})
}
