package service

import (
	"context"
	"testing"
	"time"

	"github.com/arcwall/arcwall/internal/auth/domain"
	"github.com/arcwall/arcwall/internal/auth/store/drivers/sqlite"
	"github.com/arcwall/arcwall/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) (*AuthService, *TokenService) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewHS256([]byte("test-secret-test-secret-test-sec"), "arcwall-test")
	require.NoError(t, err)

	tokens := &TokenService{
		Codec:      codec,
		Store:      st,
		Issuer:     "arcwall-test",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
	return &AuthService{Store: st, Tokens: tokens}, tokens
}

func registerAndLogin(t *testing.T, auth *AuthService) (*domain.TokenPair, domain.User) {
	t.Helper()
	ctx := context.Background()

	_, err := auth.Register(ctx, "alice", "hunter22")
	require.NoError(t, err)

	pair, u, err := auth.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	return pair, u
}

func TestIssuePair(t *testing.T) {
	t.Parallel()
	auth, tokens := newTestServices(t)
	ctx := context.Background()

	pair, u := registerAndLogin(t, auth)

	t.Run("access token is fresh and access-kind", func(t *testing.T) {
		claims, err := tokens.Verify(ctx, pair.AccessToken, jwtx.KindAccess)
		require.NoError(t, err)
		require.True(t, claims.Fresh)
		require.Equal(t, jwtx.KindAccess, claims.Kind)
		require.Equal(t, u.ID, claims.Subject)
		require.Equal(t, "alice", claims.Username)
	})

	t.Run("refresh token is refresh-kind and never fresh", func(t *testing.T) {
		claims, err := tokens.Verify(ctx, pair.RefreshToken, jwtx.KindRefresh)
		require.NoError(t, err)
		require.False(t, claims.Fresh)
		require.Equal(t, jwtx.KindRefresh, claims.Kind)
	})

	t.Run("access and refresh never share a jti", func(t *testing.T) {
		access, err := tokens.Verify(ctx, pair.AccessToken, jwtx.KindAccess)
		require.NoError(t, err)
		refresh, err := tokens.Verify(ctx, pair.RefreshToken, jwtx.KindRefresh)
		require.NoError(t, err)
		require.NotEqual(t, access.ID, refresh.ID)
	})

	t.Run("token type is Bearer", func(t *testing.T) {
		require.Equal(t, "Bearer", pair.TokenType)
	})
}

func TestVerifyKindMismatch(t *testing.T) {
	t.Parallel()
	auth, tokens := newTestServices(t)
	ctx := context.Background()

	pair, _ := registerAndLogin(t, auth)

	_, err := tokens.Verify(ctx, pair.RefreshToken, jwtx.KindAccess)
	require.ErrorIs(t, err, ErrWrongKind)

	_, err = tokens.Verify(ctx, pair.AccessToken, jwtx.KindRefresh)
	require.ErrorIs(t, err, ErrWrongKind)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()
	auth, tokens := newTestServices(t)
	ctx := context.Background()

	registerAndLogin(t, auth)

	_, err := tokens.Verify(ctx, "not-a-token", jwtx.KindAccess)
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	auth, tokens := newTestServices(t)
	ctx := context.Background()

	pair, u := registerAndLogin(t, auth)

	t.Run("refresh mints a non-fresh access token", func(t *testing.T) {
		access, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := tokens.Verify(ctx, access, jwtx.KindAccess)
		require.NoError(t, err)
		require.False(t, claims.Fresh)
		require.Equal(t, u.ID, claims.Subject)
	})

	t.Run("refreshed tokens get their own jti", func(t *testing.T) {
		a1, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		a2, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		c1, err := tokens.Verify(ctx, a1, jwtx.KindAccess)
		require.NoError(t, err)
		c2, err := tokens.Verify(ctx, a2, jwtx.KindAccess)
		require.NoError(t, err)
		require.NotEqual(t, c1.ID, c2.ID)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrWrongKind)
	})

	t.Run("deactivated account cannot refresh", func(t *testing.T) {
		require.NoError(t, auth.Store.Users().SetActive(ctx, u.ID, false))
		defer func() {
			require.NoError(t, auth.Store.Users().SetActive(ctx, u.ID, true))
		}()

		_, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestRevoke(t *testing.T) {
	t.Parallel()
	auth, tokens := newTestServices(t)
	ctx := context.Background()

	pair, _ := registerAndLogin(t, auth)

	t.Run("revoked access token stops verifying", func(t *testing.T) {
		require.NoError(t, tokens.Revoke(ctx, pair.AccessToken))

		_, err := tokens.Verify(ctx, pair.AccessToken, jwtx.KindAccess)
		require.ErrorIs(t, err, ErrRevoked)
	})

	t.Run("revoking the access token leaves the refresh token alone", func(t *testing.T) {
		_, err := tokens.Verify(ctx, pair.RefreshToken, jwtx.KindRefresh)
		require.NoError(t, err)
	})

	t.Run("revocation is idempotent", func(t *testing.T) {
		require.NoError(t, tokens.Revoke(ctx, pair.AccessToken))
		require.NoError(t, tokens.Revoke(ctx, pair.AccessToken))
	})

	t.Run("revoked refresh token cannot mint access tokens", func(t *testing.T) {
		require.NoError(t, tokens.Revoke(ctx, pair.RefreshToken))

		_, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrRevoked)
	})

	t.Run("forged tokens cannot reach the blocklist", func(t *testing.T) {
		otherCodec, err := jwtx.NewHS256([]byte("another-secret-another-secret-ab"), "arcwall-test")
		require.NoError(t, err)
		forged, err := otherCodec.Issue(jwtx.NewClaims(
			"attacker", jwtx.KindAccess, true, time.Minute, "arcwall-test", "mallory", nil, time.Now()))
		require.NoError(t, err)

		require.ErrorIs(t, tokens.Revoke(ctx, forged), jwtx.ErrInvalidSig)
	})

	t.Run("expired tokens cannot be revoked", func(t *testing.T) {
		codec := tokens.Codec
		expired, err := codec.Issue(jwtx.NewClaims(
			"u", jwtx.KindAccess, true, -time.Minute, "arcwall-test", "ghost", nil, time.Now()))
		require.NoError(t, err)

		require.ErrorIs(t, tokens.Revoke(ctx, expired), jwtx.ErrExpired)
	})
}
