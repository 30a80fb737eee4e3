package services

import (
	"errors"
	"strings"

	"goddit/internal/models"

	"gorm.io/gorm"
)

type SubService struct {
	db *gorm.DB
}

func NewSubService(database *gorm.DB) *SubService {
	return &SubService{db: database}
}

// Create makes a new community. The name collision is detected by an
// explicit pre-check inside the transaction, not by catching the unique
// violation after the fact. The creator becomes the first moderator and
// subscriber.
func (s *SubService) Create(userID uint, name, description string) (*models.Sub, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name must not be empty"}
	}
	if strings.TrimSpace(description) == "" {
		return nil, &ValidationError{Field: "description", Message: "description must not be empty"}
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	sub := models.Sub{Name: name, Description: description}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Sub{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "sub name"}
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		if err := tx.Model(&sub).Association("Moderators").Append(&user); err != nil {
			return err
		}
		return tx.Model(&sub).Association("Subscribers").Append(&user)
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ByName resolves a sub, ErrNotFound when missing.
func (s *SubService) ByName(name string) (*models.Sub, error) {
	var sub models.Sub
	if err := s.db.Where("name = ?", name).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *SubService) Subscribe(userID uint, name string) error {
	sub, err := s.ByName(name)
	if err != nil {
		return err
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}
	return s.db.Model(sub).Association("Subscribers").Append(&user)
}

func (s *SubService) Unsubscribe(userID uint, name string) error {
	sub, err := s.ByName(name)
	if err != nil {
		return err
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}
	return s.db.Model(sub).Association("Subscribers").Delete(&user)
}

// IsModerator reports whether the user moderates the sub. Used by post
// deletion to extend the owner-only rule.
func (s *SubService) IsModerator(userID uint, name string) bool {
	var count int64
	s.db.Table("sub_moderators").
		Where("sub_name = ? AND user_id = ?", name, userID).
		Count(&count)
	return count > 0
}

// Search matches sub names case-insensitively, capped at 10 like the
// search-as-you-type box expects.
func (s *SubService) Search(term string) ([]models.Sub, error) {
	var subs []models.Sub
	pattern := "%" + strings.TrimSpace(term) + "%"
	err := s.db.Select("name").
		Where("LOWER(name) LIKE LOWER(?)", pattern).
		Limit(10).
		Find(&subs).Error
	return subs, err
}
