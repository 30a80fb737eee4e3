package services

import (
	"errors"

	"goddit/internal/models"

	"gorm.io/gorm"
)

// VoteService keeps one vote per (user, post) and Post.Points equal to the
// sum of that post's vote values. Points is never recomputed from the vote
// rows on the hot path; every mutation adjusts it in the same transaction.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(database *gorm.DB) *VoteService {
	return &VoteService{db: database}
}

// CastVote applies toggle/switch semantics:
//   - no existing vote: create it, points += value
//   - same direction again: retract it, points -= value
//   - opposite direction: flip it, points += 2*value
func (s *VoteService) CastVote(userID, postID uint, value int) error {
	if value != 1 && value != -1 {
		return &ValidationError{Field: "value", Message: "vote value must be +1 or -1"}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var vote models.Vote
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&vote).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = models.Vote{UserID: userID, PostID: postID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			return adjustPoints(tx, postID, value)

		case err != nil:
			return err

		case vote.Value == value:
			// Re-clicking the same direction retracts the vote.
			if err := tx.Where("user_id = ? AND post_id = ?", userID, postID).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			return adjustPoints(tx, postID, -vote.Value)

		default:
			// One unit cancels the old vote, one unit applies the new.
			if err := tx.Model(&models.Vote{}).
				Where("user_id = ? AND post_id = ?", userID, postID).
				Update("value", value).Error; err != nil {
				return err
			}
			return adjustPoints(tx, postID, 2*value)
		}
	})
}

// adjustPoints moves the aggregate inside the database so concurrent votes
// on the same post never read-modify-write each other.
func adjustPoints(tx *gorm.DB, postID uint, delta int) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).Error
}

// UserVote returns the caller's current vote value for a post, 0 when none.
func (s *VoteService) UserVote(userID, postID uint) (int, error) {
	var vote models.Vote
	err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return vote.Value, nil
}

// UserVotes loads the caller's votes for a set of posts in one query, keyed
// by post id. Posts the caller never voted on are absent from the map.
func (s *VoteService) UserVotes(userID uint, postIDs []uint) (map[uint]int, error) {
	votes := make(map[uint]int, len(postIDs))
	if len(postIDs) == 0 {
		return votes, nil
	}

	var rows []models.Vote
	if err := s.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, v := range rows {
		votes[v.PostID] = v.Value
	}
	return votes, nil
}

// ReconcilePoints recomputes every post's points from its vote rows. Not
// used on the request path; an operator audit for the aggregate invariant.
func (s *VoteService) ReconcilePoints() error {
	return s.db.Exec(
		"UPDATE posts SET points = (SELECT COALESCE(SUM(value), 0) FROM votes WHERE votes.post_id = posts.id)",
	).Error
}
