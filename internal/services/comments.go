package services

import (
	"errors"
	"html/template"
	"sort"
	"strings"

	"goddit/internal/models"
	"goddit/internal/utils"

	"gorm.io/gorm"
)

// CommentService owns the comment tree of a post: creation, replies, owner
// edits and cascading deletes, plus depth-bounded tree assembly.
type CommentService struct {
	db       *gorm.DB
	maxDepth int
}

func NewCommentService(database *gorm.DB, maxDepth int) *CommentService {
	if maxDepth < 1 {
		maxDepth = 3
	}
	return &CommentService{db: database, maxDepth: maxDepth}
}

// CommentNode is one rendered node of the tree sent to clients.
type CommentNode struct {
	models.Comment
	MessageHTML template.HTML  `json:"message_html"`
	Replies     []*CommentNode `json:"replies"`
	// HasMore marks nodes whose replies were cut off by the depth bound;
	// clients fetch them through the replies endpoint.
	HasMore bool `json:"has_more"`
}

// Create adds a top-level comment to a post.
func (s *CommentService) Create(userID, postID uint, message string) (*models.Comment, error) {
	return s.create(userID, postID, nil, message)
}

// Reply adds a comment under parentID. The parent must belong to postID;
// the denormalized PostID on every node is what keeps by-post queries flat,
// so a mismatch is rejected rather than silently repaired.
func (s *CommentService) Reply(userID, parentID, postID uint, message string) (*models.Comment, error) {
	var parent models.Comment
	if err := s.db.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if parent.PostID != postID {
		return nil, &ValidationError{Field: "post_id", Message: "parent comment belongs to a different post"}
	}
	return s.create(userID, postID, &parent.ID, message)
}

func (s *CommentService) create(userID, postID uint, parentID *uint, message string) (*models.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Field: "message", Message: "message must not be empty"}
	}

	var post models.Post
	if err := s.db.Select("id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		Cid:      utils.RandString(8),
		PostID:   postID,
		UserID:   userID,
		ParentID: parentID,
		Message:  message,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	s.db.Preload("User").First(&comment, comment.ID)
	return &comment, nil
}

// Edit replaces the message verbatim and sets the edited flag. Only the
// author may edit; anyone else gets ErrForbidden, distinct from ErrNotFound.
func (s *CommentService) Edit(userID uint, cid, message string) (*models.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Field: "message", Message: "message must not be empty"}
	}

	var comment models.Comment
	if err := s.db.Where("cid = ?", cid).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	comment.Message = message
	comment.Edited = true
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}
	s.db.Preload("User").First(&comment, comment.ID)
	return &comment, nil
}

// Delete removes a comment and its whole reply subtree in one transaction.
// Cascade was chosen over tombstoning: the API has no orphan representation.
func (s *CommentService) Delete(userID uint, cid string) error {
	var comment models.Comment
	if err := s.db.Where("cid = ?", cid).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		ids := []uint{comment.ID}
		frontier := []uint{comment.ID}
		for len(frontier) > 0 {
			var children []uint
			if err := tx.Model(&models.Comment{}).
				Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
}

// TreeForPost loads the post's whole forest in one query and assembles it:
// roots newest-first, replies in creation order, nesting cut off at the
// configured depth with HasMore set on the truncated nodes.
func (s *CommentService) TreeForPost(postID uint) ([]*CommentNode, error) {
	var comments []models.Comment
	if err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	nodes := make(map[uint]*CommentNode, len(comments))
	children := make(map[uint][]*CommentNode, len(comments))
	var roots []*CommentNode

	for i := range comments {
		c := comments[i]
		node := &CommentNode{
			Comment:     c,
			MessageHTML: utils.RenderMarkdown(c.Message),
			Replies:     []*CommentNode{},
		}
		nodes[c.ID] = node
		if c.ParentID == nil {
			roots = append(roots, node)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], node)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].CreatedAt.Equal(roots[j].CreatedAt) {
			return roots[i].Comment.ID > roots[j].Comment.ID
		}
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})

	for _, root := range roots {
		s.attach(root, children, 1)
	}
	return roots, nil
}

func (s *CommentService) attach(node *CommentNode, children map[uint][]*CommentNode, depth int) {
	kids := children[node.Comment.ID]
	if len(kids) == 0 {
		return
	}
	if depth >= s.maxDepth {
		node.HasMore = true
		return
	}
	node.Replies = kids
	for _, kid := range kids {
		s.attach(kid, children, depth+1)
	}
}

// Replies is the lazy expansion point past the depth bound: one level of
// direct children, oldest first.
func (s *CommentService) Replies(cid string) ([]*CommentNode, error) {
	var parent models.Comment
	if err := s.db.Where("cid = ?", cid).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var comments []models.Comment
	if err := s.db.Preload("User").
		Where("parent_id = ?", parent.ID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	out := make([]*CommentNode, 0, len(comments))
	for i := range comments {
		c := comments[i]
		var grandchildren int64
		s.db.Model(&models.Comment{}).Where("parent_id = ?", c.ID).Count(&grandchildren)
		out = append(out, &CommentNode{
			Comment:     c,
			MessageHTML: utils.RenderMarkdown(c.Message),
			Replies:     []*CommentNode{},
			HasMore:     grandchildren > 0,
		})
	}
	return out, nil
}

// ByCid resolves a public comment id.
func (s *CommentService) ByCid(cid string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Where("cid = ?", cid).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// CountForPost is used to fill Post.CommentCount on detail pages.
func (s *CommentService) CountForPost(postID uint) int {
	var count int64
	s.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count)
	return int(count)
}
