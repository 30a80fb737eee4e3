package handlers

import (
	"net/http"

	"goddit/internal/middleware"
	"goddit/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
	posts    *services.PostService
}

func NewCommentHandler(comments *services.CommentService, posts *services.PostService) *CommentHandler {
	return &CommentHandler{comments: comments, posts: posts}
}

type createCommentRequest struct {
	Message string `json:"message" binding:"required"`
}

// Create adds a top-level comment on /api/posts/:id/comments.
func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createCommentRequest
	if !BindJSON(c, &req) {
		return
	}

	post, err := h.posts.ByPid(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	comment, err := h.comments.Create(user.ID, post.ID, req.Message)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

type createReplyRequest struct {
	Message string `json:"message" binding:"required"`
	PostID  string `json:"post_id" binding:"required"`
}

// Reply adds a nested comment on /api/comments/:id/replies. The request
// names the post so the same-post invariant is checked, not assumed.
func (h *CommentHandler) Reply(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createReplyRequest
	if !BindJSON(c, &req) {
		return
	}

	parent, err := h.comments.ByCid(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	post, err := h.posts.ByPid(req.PostID)
	if err != nil {
		RespondError(c, err)
		return
	}

	comment, err := h.comments.Reply(user.ID, parent.ID, post.ID, req.Message)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

type editCommentRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *CommentHandler) Edit(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req editCommentRequest
	if !BindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Edit(user.ID, c.Param("id"), req.Message)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.comments.Delete(user.ID, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Replies expands one level of a thread past the eager depth bound.
func (h *CommentHandler) Replies(c *gin.Context) {
	replies, err := h.comments.Replies(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}
