package services

import (
	"fmt"
	"testing"
	"time"

	"goddit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostTextXorImage(t *testing.T) {
	database := newTestDB(t)
	posts := NewPostService(database)
	alice := createTestUser(t, database, "alice")
	createTestSub(t, database, "golang")

	text := "a body"
	image := "abc123.png"
	var vErr *ValidationError

	// Neither set.
	_, err := posts.Create(alice.ID, CreatePostInput{Title: "t", SubName: "golang"})
	assert.ErrorAs(t, err, &vErr)

	// Both set.
	_, err = posts.Create(alice.ID, CreatePostInput{Title: "t", Text: &text, Image: &image, SubName: "golang"})
	assert.ErrorAs(t, err, &vErr)

	// Empty title.
	_, err = posts.Create(alice.ID, CreatePostInput{Title: "  ", Text: &text, SubName: "golang"})
	assert.ErrorAs(t, err, &vErr)

	// Unknown sub.
	_, err = posts.Create(alice.ID, CreatePostInput{Title: "t", Text: &text, SubName: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	// Text post.
	textPost, err := posts.Create(alice.ID, CreatePostInput{Title: "text post", Text: &text, SubName: "golang"})
	require.NoError(t, err)
	assert.NotNil(t, textPost.Text)
	assert.Nil(t, textPost.Image)

	// Image post.
	imagePost, err := posts.Create(alice.ID, CreatePostInput{Title: "image post", Image: &image, NSFW: true, SubName: "golang"})
	require.NoError(t, err)
	assert.Nil(t, imagePost.Text)
	assert.NotNil(t, imagePost.Image)
	assert.True(t, imagePost.NSFW)
}

func TestCreatePostSelfUpvote(t *testing.T) {
	database := newTestDB(t)
	alice := createTestUser(t, database, "alice")
	createTestSub(t, database, "golang")

	post := createTestPost(t, database, alice.ID, "golang", "hello")

	// Points starts at 1 and the creator's vote row backs it.
	assert.Equal(t, 1, post.Points)
	assert.Equal(t, 1, sumVotes(t, database, post.ID))

	var vote models.Vote
	require.NoError(t, database.Where("user_id = ? AND post_id = ?", alice.ID, post.ID).First(&vote).Error)
	assert.Equal(t, 1, vote.Value)
}

func TestListCursorPagination(t *testing.T) {
	database := newTestDB(t)
	posts := NewPostService(database)
	alice := createTestUser(t, database, "alice")
	createTestSub(t, database, "golang")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		post := createTestPost(t, database, alice.ID, "golang", fmt.Sprintf("post %d", i))
		require.NoError(t, database.Model(&models.Post{}).Where("id = ?", post.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	page1, next, err := posts.List(nil, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, next)
	assert.Equal(t, "post 4", page1[0].Title)
	assert.Equal(t, "post 3", page1[1].Title)

	page2, next2, err := posts.List(next, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotNil(t, next2)
	assert.Equal(t, "post 2", page2[0].Title)
	assert.Equal(t, "post 1", page2[1].Title)

	page3, next3, err := posts.List(next2, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "post 0", page3[0].Title)
	assert.Nil(t, next3)
}

func TestListFillsCommentCounts(t *testing.T) {
	database := newTestDB(t)
	posts := NewPostService(database)
	comments := NewCommentService(database, 3)
	alice := createTestUser(t, database, "alice")
	createTestSub(t, database, "golang")

	post := createTestPost(t, database, alice.ID, "golang", "hello")
	_, err := comments.Create(alice.ID, post.ID, "one")
	require.NoError(t, err)
	_, err = comments.Create(alice.ID, post.ID, "two")
	require.NoError(t, err)

	items, _, err := posts.List(nil, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].CommentCount)
}

func TestUpdatePostAuthorization(t *testing.T) {
	database := newTestDB(t)
	posts := NewPostService(database)
	alice := createTestUser(t, database, "alice")
	bob := createTestUser(t, database, "bob")
	createTestSub(t, database, "golang")
	post := createTestPost(t, database, alice.ID, "golang", "hello")

	_, err := posts.Update(bob.ID, post.Pid, "hijacked", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	newText := "updated body"
	updated, err := posts.Update(alice.ID, post.Pid, "new title", &newText)
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "updated body", *updated.Text)

	_, err = posts.Update(alice.ID, "missing1", "x", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePostOwnerAndModerator(t *testing.T) {
	database := newTestDB(t)
	posts := NewPostService(database)
	comments := NewCommentService(database, 3)
	subs := NewSubService(database)
	votes := NewVoteService(database)

	modUser := createTestUser(t, database, "mod")
	alice := createTestUser(t, database, "alice")
	bob := createTestUser(t, database, "bob")

	_, err := subs.Create(modUser.ID, "golang", "go talk")
	require.NoError(t, err)

	post := createTestPost(t, database, alice.ID, "golang", "hello")
	_, err = comments.Create(bob.ID, post.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, votes.CastVote(bob.ID, post.ID, 1))

	// A random user can delete nothing.
	assert.ErrorIs(t, posts.Delete(bob.ID, post.Pid, subs.IsModerator), ErrForbidden)

	// The sub moderator can.
	require.NoError(t, posts.Delete(modUser.ID, post.Pid, subs.IsModerator))

	// Votes and comments went with the post.
	var voteCount, commentCount int64
	database.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&voteCount)
	database.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
	assert.Zero(t, voteCount)
	assert.Zero(t, commentCount)

	// Deleting again is a plain not-found.
	assert.ErrorIs(t, posts.Delete(alice.ID, post.Pid, subs.IsModerator), ErrNotFound)
}
