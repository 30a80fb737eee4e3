package services

import (
	"testing"
	"time"

	"goddit/internal/config"
	"goddit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func userFixture(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	database := newTestDB(t)
	mail := NewMailService(&config.Config{})
	return NewUserService(database, mail, "http://localhost:3000"), database
}

func TestRegisterAndAuthenticate(t *testing.T) {
	users, _ := userFixture(t)

	user, err := users.Register("alice", "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	// The stored password is a hash, never the plaintext.
	assert.NotEqual(t, "secret", user.Password)

	got, err := users.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = users.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate("nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterConflicts(t *testing.T) {
	users, database := userFixture(t)

	first, err := users.Register("alice", "alice@example.com", "secret")
	require.NoError(t, err)

	var cErr *ConflictError

	// Same username, different email.
	_, err = users.Register("alice", "other@example.com", "secret")
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "username", cErr.Field)

	// Same email, different username.
	_, err = users.Register("bob", "alice@example.com", "secret")
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "email", cErr.Field)

	// The first account is intact and still works.
	var count int64
	database.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
	got, err := users.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestRegisterValidation(t *testing.T) {
	users, _ := userFixture(t)

	var vErr *ValidationError
	_, err := users.Register("  ", "a@example.com", "secret")
	assert.ErrorAs(t, err, &vErr)
	_, err = users.Register("alice", "not-an-email", "secret")
	assert.ErrorAs(t, err, &vErr)
	_, err = users.Register("alice", "a@example.com", "xy")
	assert.ErrorAs(t, err, &vErr)
}

func TestPasswordResetFlow(t *testing.T) {
	users, database := userFixture(t)

	_, err := users.Register("alice", "alice@example.com", "oldpass")
	require.NoError(t, err)

	// Unknown addresses answer the same as known ones.
	require.NoError(t, users.ForgotPassword("nobody@example.com"))
	var count int64
	database.Model(&models.PasswordReset{}).Count(&count)
	assert.Zero(t, count)

	require.NoError(t, users.ForgotPassword("alice@example.com"))
	var reset models.PasswordReset
	require.NoError(t, database.First(&reset).Error)

	require.NoError(t, users.ResetPassword(reset.Token, "newpass"))

	_, err = users.Authenticate("alice", "oldpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate("alice", "newpass")
	require.NoError(t, err)

	// The token is single-use.
	assert.ErrorIs(t, users.ResetPassword(reset.Token, "again"), ErrNotFound)
}

func TestPasswordResetExpiry(t *testing.T) {
	users, database := userFixture(t)

	_, err := users.Register("alice", "alice@example.com", "oldpass")
	require.NoError(t, err)
	require.NoError(t, users.ForgotPassword("alice@example.com"))

	var reset models.PasswordReset
	require.NoError(t, database.First(&reset).Error)
	require.NoError(t, database.Model(&reset).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	assert.ErrorIs(t, users.ResetPassword(reset.Token, "newpass"), ErrNotFound)

	// Expired tokens are removed on the failed attempt.
	var count int64
	database.Model(&models.PasswordReset{}).Count(&count)
	assert.Zero(t, count)

	_, err = users.Authenticate("alice", "oldpass")
	require.NoError(t, err)
}

func TestResetPasswordValidation(t *testing.T) {
	users, _ := userFixture(t)

	var vErr *ValidationError
	assert.ErrorAs(t, users.ResetPassword("whatever", "xy"), &vErr)
	assert.ErrorIs(t, users.ResetPassword("no-such-token", "newpass"), ErrNotFound)
}

func TestSearchUsers(t *testing.T) {
	users, _ := userFixture(t)

	for _, name := range []string{"alice", "alicia", "bob"} {
		_, err := users.Register(name, name+"@example.com", "secret")
		require.NoError(t, err)
	}

	found, err := users.Search("ALI")
	require.NoError(t, err)
	names := make([]string, 0, len(found))
	for _, u := range found {
		names = append(names, u.Username)
	}
	assert.ElementsMatch(t, []string{"alice", "alicia"}, names)
}
