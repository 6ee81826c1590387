package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	auth, _ := newTestServices(t)
	ctx := context.Background()

	t.Run("creates an active account", func(t *testing.T) {
		u, err := auth.Register(ctx, "bob", "secret1")
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.Equal(t, "bob", u.Username)
		require.True(t, u.IsActive)
		require.NotEqual(t, "secret1", u.PasswordHash)
	})

	t.Run("trims surrounding whitespace from usernames", func(t *testing.T) {
		u, err := auth.Register(ctx, "  carol  ", "secret1")
		require.NoError(t, err)
		require.Equal(t, "carol", u.Username)
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		_, err := auth.Register(ctx, "bob", "another1")
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("rejects empty usernames", func(t *testing.T) {
		_, err := auth.Register(ctx, "   ", "secret1")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := auth.Register(ctx, "dave", "tiny")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("usernames are case sensitive", func(t *testing.T) {
		_, err := auth.Register(ctx, "Bob", "secret1")
		require.NoError(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	auth, _ := newTestServices(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "erin", "correct-horse")
	require.NoError(t, err)

	t.Run("valid credentials issue a pair", func(t *testing.T) {
		pair, u, err := auth.Login(ctx, "erin", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, registered.ID, u.ID)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		_, _, errUnknown := auth.Login(ctx, "nobody", "correct-horse")
		_, _, errWrongPw := auth.Login(ctx, "erin", "wrong-horse")
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	})

	t.Run("disabled account is only revealed after the password checks out", func(t *testing.T) {
		require.NoError(t, auth.Store.Users().SetActive(ctx, registered.ID, false))
		defer func() {
			require.NoError(t, auth.Store.Users().SetActive(ctx, registered.ID, true))
		}()

		_, _, err := auth.Login(ctx, "erin", "correct-horse")
		require.ErrorIs(t, err, ErrAccountDisabled)

		_, _, err = auth.Login(ctx, "erin", "wrong-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestProfile(t *testing.T) {
	t.Parallel()
	auth, _ := newTestServices(t)
	ctx := context.Background()

	u, err := auth.Register(ctx, "frank", "secret1")
	require.NoError(t, err)

	p, err := auth.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, p.ID)
	require.Equal(t, "frank", p.Username)
	require.Contains(t, p.Roles, "user")
}
