package services

import (
	"testing"

	"goddit/internal/db"
	"goddit/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory SQLite database per test. A single
// connection keeps all queries on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))
	return database
}

func createTestUser(t *testing.T, database *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	require.NoError(t, database.Create(user).Error)
	return user
}

func createTestSub(t *testing.T, database *gorm.DB, name string) *models.Sub {
	t.Helper()
	sub := &models.Sub{Name: name, Description: "test community"}
	require.NoError(t, database.Create(sub).Error)
	return sub
}

// createTestPost goes through PostService.Create so the auto self-upvote
// invariant holds for every fixture.
func createTestPost(t *testing.T, database *gorm.DB, userID uint, subName, title string) *models.Post {
	t.Helper()
	text := "some body text"
	post, err := NewPostService(database).Create(userID, CreatePostInput{
		Title:   title,
		Text:    &text,
		SubName: subName,
	})
	require.NoError(t, err)
	return post
}

// sumVotes recomputes the aggregate the slow way, for invariant checks.
func sumVotes(t *testing.T, database *gorm.DB, postID uint) int {
	t.Helper()
	var sum int
	require.NoError(t, database.Model(&models.Vote{}).
		Where("post_id = ?", postID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&sum).Error)
	return sum
}

func postPoints(t *testing.T, database *gorm.DB, postID uint) int {
	t.Helper()
	var post models.Post
	require.NoError(t, database.First(&post, postID).Error)
	return post.Points
}
