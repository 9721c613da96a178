package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensamie/blogging-api/internal/auth"
	"github.com/sensamie/blogging-api/internal/repository/memory"
)

func newUserService(t *testing.T) (*UserService, *auth.TokenManager) {
	t.Helper()
	tm := auth.NewTokenManager("test-secret-at-least-32-chars-long-here", "blogging-test", time.Hour)
	return NewUserService(memory.NewUsers(), tm), tm
}

func TestSignup_IssuesTokenAndHidesPassword(t *testing.T) {
	svc, tm := newUserService(t)

	user, token, err := svc.Signup(context.Background(), "Sen", "Samie", "sen@example.com", "12345678")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "12345678", user.PasswordHash)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "sen@example.com", claims.Email)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)

	_, _, err := svc.Signup(context.Background(), "Sen", "Samie", "sen@example.com", "12345678")
	require.NoError(t, err)

	_, _, err = svc.Signup(context.Background(), "Sen", "Again", "sen@example.com", "12345678")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newUserService(t)

	_, _, err := svc.Signup(context.Background(), "", "Samie", "sen@example.com", "12345678")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.Signup(context.Background(), "Sen", "Samie", "not-an-email", "12345678")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.Signup(context.Background(), "Sen", "Samie", "sen@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin(t *testing.T) {
	svc, tm := newUserService(t)

	created, _, err := svc.Signup(context.Background(), "Sen", "Samie", "sen@example.com", "12345678")
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "12345678")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "sen@example.com", "wrong")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("success", func(t *testing.T) {
		user, token, err := svc.Login(context.Background(), "sen@example.com", "12345678")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)

		claims, err := tm.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, claims.UserID)
	})
}
