package services

import (
	"errors"
	"strings"
	"time"

	"goddit/internal/models"
	"goddit/internal/utils"

	"gorm.io/gorm"
)

const defaultPageSize = 30

type PostService struct {
	db *gorm.DB
}

func NewPostService(database *gorm.DB) *PostService {
	return &PostService{db: database}
}

type CreatePostInput struct {
	Title   string
	Text    *string
	Image   *string
	NSFW    bool
	SubName string
}

// Create validates the text-XOR-image invariant, then creates the post and
// the creator's automatic upvote in one transaction. Points starts at 1 so
// the aggregate matches the vote rows from the first moment.
func (s *PostService) Create(userID uint, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	hasText := in.Text != nil && strings.TrimSpace(*in.Text) != ""
	hasImage := in.Image != nil && *in.Image != ""
	if hasText == hasImage {
		return nil, &ValidationError{Field: "text", Message: "exactly one of text or image must be set"}
	}

	var sub models.Sub
	if err := s.db.Where("name = ?", in.SubName).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	post := models.Post{
		Pid:     utils.RandString(8),
		UserID:  userID,
		Title:   in.Title,
		NSFW:    in.NSFW,
		SubName: sub.Name,
		Points:  1, // creator's auto-upvote
	}
	if hasText {
		post.Text = in.Text
	} else {
		post.Image = in.Image
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		vote := models.Vote{UserID: userID, PostID: post.ID, Value: 1}
		return tx.Create(&vote).Error
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("User").First(&post, post.ID)
	return &post, nil
}

// List pages posts newest-first. The cursor is the created_at of the last
// item of the previous page; nil means the first page.
func (s *PostService) List(cursor *time.Time, limit int) ([]models.Post, *time.Time, error) {
	return s.page(s.db, cursor, limit)
}

// Feed is List restricted to subs the user subscribed to.
func (s *PostService) Feed(userID uint, cursor *time.Time, limit int) ([]models.Post, *time.Time, error) {
	query := s.db.
		Joins("JOIN sub_subscribers ON sub_subscribers.sub_name = posts.sub_name AND sub_subscribers.user_id = ?", userID)
	return s.page(query, cursor, limit)
}

// BySub returns a sub's posts newest-first.
func (s *PostService) BySub(name string, cursor *time.Time, limit int) ([]models.Post, *time.Time, error) {
	var sub models.Sub
	if err := s.db.Where("name = ?", name).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return s.page(s.db.Where("posts.sub_name = ?", sub.Name), cursor, limit)
}

func (s *PostService) page(query *gorm.DB, cursor *time.Time, limit int) ([]models.Post, *time.Time, error) {
	if limit < 1 || limit > 100 {
		limit = defaultPageSize
	}
	if cursor != nil {
		query = query.Where("posts.created_at < ?", *cursor)
	}

	var posts []models.Post
	// Fetch one extra row to know whether a next page exists.
	if err := query.Model(&models.Post{}).
		Preload("User").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit + 1).
		Find(&posts).Error; err != nil {
		return nil, nil, err
	}

	var next *time.Time
	if len(posts) > limit {
		posts = posts[:limit]
		t := posts[len(posts)-1].CreatedAt
		next = &t
	}
	s.fillCommentCounts(posts)
	return posts, next, nil
}

// fillCommentCounts batches the per-post comment counts into one query.
func (s *PostService) fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

// ByPid resolves a public post id.
func (s *PostService) ByPid(pid string) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("User").Where("pid = ?", pid).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Update lets the creator change title and text. Image posts keep their
// image; only the title is editable for those.
func (s *PostService) Update(userID uint, pid, title string, text *string) (*models.Post, error) {
	post, err := s.ByPid(pid)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if text != nil && post.Image != nil {
		return nil, &ValidationError{Field: "text", Message: "image posts cannot gain a text body"}
	}

	post.Title = title
	if text != nil {
		post.Text = text
	}
	if err := s.db.Save(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post with its votes and comments. Allowed for the
// creator and for moderators of the post's sub.
func (s *PostService) Delete(userID uint, pid string, isModerator func(userID uint, subName string) bool) error {
	post, err := s.ByPid(pid)
	if err != nil {
		return err
	}
	if post.UserID != userID && !isModerator(userID, post.SubName) {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
}

// ByUser lists a user's posts for the public profile.
func (s *PostService) ByUser(userID uint, limit int) ([]models.Post, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var posts []models.Post
	if err := s.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	s.fillCommentCounts(posts)
	return posts, nil
}
