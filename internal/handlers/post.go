package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"goddit/internal/middleware"
	"goddit/internal/models"
	"goddit/internal/services"
	"goddit/internal/utils"

	"github.com/gin-gonic/gin"
)

const listCacheTTL = time.Minute
const listCacheKey = "posts:front"

type PostHandler struct {
	posts    *services.PostService
	comments *services.CommentService
	votes    *services.VoteService
	subs     *services.SubService
	media    *services.MediaService
}

func NewPostHandler(posts *services.PostService, comments *services.CommentService,
	votes *services.VoteService, subs *services.SubService, media *services.MediaService) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, votes: votes, subs: subs, media: media}
}

type postPage struct {
	Items      []models.Post `json:"items"`
	NextCursor *time.Time    `json:"next_cursor,omitempty"`
}

func parseCursor(c *gin.Context) (*time.Time, error) {
	raw := c.Query("cursor")
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, &services.ValidationError{Field: "cursor", Message: "cursor must be an RFC 3339 timestamp"}
	}
	return &t, nil
}

func parseLimit(c *gin.Context) int {
	n, _ := strconv.Atoi(c.Query("limit"))
	return n
}

// List serves the front page, newest-first. Only the uncursored first page
// is cached; it is by far the hottest read.
func (h *PostHandler) List(c *gin.Context) {
	cursor, err := parseCursor(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	limit := parseLimit(c)

	cacheable := cursor == nil && limit == 0
	if cacheable {
		if cached := utils.GetCache().Get(listCacheKey); cached != nil {
			if page, ok := cached.(postPage); ok {
				h.respondPage(c, page)
				return
			}
		}
	}

	items, next, err := h.posts.List(cursor, limit)
	if err != nil {
		RespondError(c, err)
		return
	}

	page := postPage{Items: items, NextCursor: next}
	if cacheable {
		utils.GetCache().Set(listCacheKey, page, listCacheTTL)
	}
	h.respondPage(c, page)
}

// Feed serves posts from the caller's subscribed subs.
func (h *PostHandler) Feed(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cursor, err := parseCursor(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	items, next, err := h.posts.Feed(user.ID, cursor, parseLimit(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	h.respondPage(c, postPage{Items: items, NextCursor: next})
}

type createPostRequest struct {
	Title   string  `json:"title" binding:"required"`
	Text    *string `json:"text"`
	Image   *string `json:"image"`
	NSFW    bool    `json:"nsfw"`
	SubName string  `json:"sub_name" binding:"required"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createPostRequest
	if !BindJSON(c, &req) {
		return
	}

	post, err := h.posts.Create(user.ID, services.CreatePostInput{
		Title:   req.Title,
		Text:    req.Text,
		Image:   req.Image,
		NSFW:    req.NSFW,
		SubName: req.SubName,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.GetCache().Delete(listCacheKey)
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// Detail returns the post, its rendered body, the comment tree and the
// caller's vote state.
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := h.posts.ByPid(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	post.CommentCount = h.comments.CountForPost(post.ID)

	if user := middleware.CurrentUser(c); user != nil {
		vote, err := h.votes.UserVote(user.ID, post.ID)
		if err != nil {
			RespondError(c, err)
			return
		}
		post.CallerVote = vote
	}

	var bodyHTML template.HTML
	var imageURL string
	if post.Text != nil {
		bodyHTML = utils.RenderMarkdown(*post.Text)
	} else if post.Image != nil {
		imageURL = h.media.PublicURL(*post.Image)
	}

	tree, err := h.comments.TreeForPost(post.ID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":      post,
		"text_html": bodyHTML,
		"image_url": imageURL,
		"comments":  tree,
	})
}

type updatePostRequest struct {
	Title string  `json:"title" binding:"required"`
	Text  *string `json:"text"`
}

func (h *PostHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req updatePostRequest
	if !BindJSON(c, &req) {
		return
	}

	post, err := h.posts.Update(user.ID, c.Param("id"), req.Title, req.Text)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.GetCache().Delete(listCacheKey)
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.posts.Delete(user.ID, c.Param("id"), h.subs.IsModerator); err != nil {
		RespondError(c, err)
		return
	}

	utils.GetCache().Delete(listCacheKey)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BySub lists a community's posts.
func (h *PostHandler) BySub(c *gin.Context) {
	cursor, err := parseCursor(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	items, next, err := h.posts.BySub(c.Param("name"), cursor, parseLimit(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	h.respondPage(c, postPage{Items: items, NextCursor: next})
}

// respondPage stamps the logged-in caller's vote onto a private copy of the
// page. The cached page itself is never written to, so shared pages stay
// user-agnostic and cache hits can marshal concurrently.
func (h *PostHandler) respondPage(c *gin.Context, page postPage) {
	items := make([]models.Post, len(page.Items))
	copy(items, page.Items)

	if user := middleware.CurrentUser(c); user != nil {
		ids := make([]uint, len(items))
		for i, p := range items {
			ids[i] = p.ID
		}
		votes, err := h.votes.UserVotes(user.ID, ids)
		if err != nil {
			RespondError(c, err)
			return
		}
		for i := range items {
			items[i].CallerVote = votes[items[i].ID]
		}
	}

	c.JSON(http.StatusOK, postPage{Items: items, NextCursor: page.NextCursor})
}
