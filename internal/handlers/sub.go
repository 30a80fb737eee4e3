package handlers

import (
	"net/http"

	"goddit/internal/middleware"
	"goddit/internal/services"

	"github.com/gin-gonic/gin"
)

type SubHandler struct {
	subs *services.SubService
}

func NewSubHandler(subs *services.SubService) *SubHandler {
	return &SubHandler{subs: subs}
}

type createSubRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (h *SubHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createSubRequest
	if !BindJSON(c, &req) {
		return
	}

	sub, err := h.subs.Create(user.ID, req.Name, req.Description)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sub": sub})
}

func (h *SubHandler) Subscribe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.subs.Subscribe(user.ID, c.Param("name")); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *SubHandler) Unsubscribe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.subs.Unsubscribe(user.ID, c.Param("name")); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
