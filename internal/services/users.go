package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"goddit/internal/models"
	"goddit/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type UserService struct {
	db      *gorm.DB
	mail    *MailService
	siteURL string
}

func NewUserService(database *gorm.DB, mail *MailService, siteURL string) *UserService {
	return &UserService{db: database, mail: mail, siteURL: siteURL}
}

// Register creates a user. Username and email collisions are pre-checked
// separately so the caller learns which field conflicted.
func (s *UserService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "username must not be empty"}
	}
	if !strings.Contains(email, "@") {
		return nil, &ValidationError{Field: "email", Message: "email is not valid"}
	}
	if len(password) < 3 {
		return nil, &ValidationError{Field: "password", Message: "password cannot be less than 3 characters"}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{Username: username, Email: email, Password: hash}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "username"}
		}
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "email"}
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate checks credentials. The same error covers unknown usernames
// and wrong passwords.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// ByID loads a user for the auth middleware.
func (s *UserService) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ByUsername loads a public profile.
func (s *UserService) ByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ForgotPassword issues a single-use reset token and mails it. It reports
// success for unknown emails too, to not reveal which addresses exist.
func (s *UserService) ForgotPassword(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	reset := models.PasswordReset{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.db.Create(&reset).Error; err != nil {
		return err
	}

	link := fmt.Sprintf("%s/forgot-password/%s", strings.TrimSuffix(s.siteURL, "/"), reset.Token)
	s.mail.SendPasswordResetEmail(user.Email, link)
	return nil
}

// ResetPassword consumes a token and replaces the password hash in one
// transaction. Expired and unknown tokens fail the same way.
func (s *UserService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < 3 {
		return &ValidationError{Field: "password", Message: "password cannot be less than 3 characters"}
	}

	var reset models.PasswordReset
	if err := s.db.Where("token = ?", token).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if time.Now().After(reset.ExpiresAt) {
		s.db.Delete(&reset)
		return ErrNotFound
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", reset.UserID).
			Update("password", hash).Error; err != nil {
			return err
		}
		return tx.Delete(&reset).Error
	})
}

// CommentsByUser lists a user's comments for the public profile.
func (s *UserService) CommentsByUser(userID uint, limit int) ([]models.Comment, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var comments []models.Comment
	err := s.db.Preload("Post").Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// Search matches usernames case-insensitively, capped at 10.
func (s *UserService) Search(term string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + strings.TrimSpace(term) + "%"
	err := s.db.Select("id, username").
		Where("LOWER(username) LIKE LOWER(?)", pattern).
		Limit(10).
		Find(&users).Error
	return users, err
}
