package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupEnv(t)
	svc := NewAuthService(env.users, "test-secret", time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "s3cret-pass", user.Password, "password must be stored hashed")

	token, got, err := svc.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	subject, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, subject)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := setupEnv(t)
	svc := NewAuthService(env.users, "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := setupEnv(t)
	svc := NewAuthService(env.users, "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsForgedSignature(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	issuer := NewAuthService(env.users, "secret-a", time.Hour)
	verifier := NewAuthService(env.users, "secret-b", time.Hour)

	_, err := issuer.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	token, _, err := issuer.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.Error(t, err)
}
