package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclassical/league-engine/models"
)

func TestRegisterAndLogin(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), "td@example.com", "correct horse", models.RoleModerator)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	token, err := svc.Login(context.Background(), "td@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleModerator, claims.Role)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), "td@example.com", "short", models.RoleViewer)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), "td@example.com", "correct horse", models.RoleViewer)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "td@example.com", "battery staple", models.RoleViewer)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), "td@example.com", "correct horse", models.RoleViewer)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "td@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenExpired(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, "test-secret", -time.Minute)

	_, err := svc.Register(context.Background(), "td@example.com", "correct horse", models.RoleViewer)
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "td@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenWrongSecret(t *testing.T) {
	repo := &fakeUserRepo{}
	issuer := NewAuthService(repo, "secret-one", time.Hour)
	verifier := NewAuthService(repo, "secret-two", time.Hour)

	_, err := issuer.Register(context.Background(), "td@example.com", "correct horse", models.RoleViewer)
	require.NoError(t, err)

	token, err := issuer.Login(context.Background(), "td@example.com", "correct horse")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
