package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arcwall/arcwall/internal/auth/domain"
	"github.com/arcwall/arcwall/internal/auth/store"
	"github.com/arcwall/arcwall/pkg/jwtx"
	"github.com/arcwall/arcwall/pkg/slogx"
)

var (
	ErrWrongKind      = errors.New("wrong_token_kind")
	ErrRevoked        = errors.New("token_revoked")
	ErrInvalidRefresh = errors.New("invalid_refresh_token")
)

// TokenService owns the token lifecycle: issuing pairs, verifying,
// refreshing and revoking. Issuance and signature verification are pure
// functions of the signing key; only the blocklist check and the refresh
// subject lookup touch storage.
type TokenService struct {
	Codec      jwtx.Codec
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair mints a fresh access token and a refresh token for the user.
// Call it only after a successful credential check: the access token
// carries fresh=true precisely because credentials were just presented.
// The two tokens never share a jti.
func (s *TokenService) IssuePair(ctx context.Context, u domain.User, roles []string) (*domain.TokenPair, error) {
	now := time.Now()

	access, err := s.Codec.Issue(jwtx.NewClaims(
		u.ID, jwtx.KindAccess, true, s.AccessTTL, s.Issuer, u.Username, roles, now))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	// Refresh tokens have no freshness concept; the claim stays false.
	refresh, err := s.Codec.Issue(jwtx.NewClaims(
		u.ID, jwtx.KindRefresh, false, s.RefreshTTL, s.Issuer, u.Username, roles, now))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenType:        "Bearer",
		AccessExpiresIn:  s.AccessTTL,
		RefreshExpiresIn: s.RefreshTTL,
	}, nil
}

// Verify checks a token end to end: signature and expiry via the codec,
// then the kind, then the blocklist. The blocklist check runs on every
// call, it is what makes revocation stick before expiry does.
//
// Callers can tell the failure modes apart (ErrWrongKind, ErrRevoked and
// the codec sentinels) but the HTTP layer collapses all of them into one
// uniform unauthorized response.
func (s *TokenService) Verify(ctx context.Context, token, expectedKind string) (jwtx.Claims, error) {
	claims, err := s.Codec.Decode(token)
	if err != nil {
		return jwtx.Claims{}, err
	}

	if claims.Kind != expectedKind {
		return jwtx.Claims{}, ErrWrongKind
	}

	revoked, err := s.Store.Blocklist().IsRevoked(ctx, claims.ID)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("blocklist lookup: %w", err)
	}
	if revoked {
		return jwtx.Claims{}, ErrRevoked
	}

	return claims, nil
}

// Refresh exchanges a valid refresh token for a new access token. The new
// token carries fresh=false and its own jti. The refresh token itself is
// left untouched: it stays valid until its own expiry or an explicit
// revocation, there is no rotation.
//
// The subject is re-checked against the credential store so a deleted or
// deactivated account cannot keep minting access tokens.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Verify(ctx, refreshToken, jwtx.KindRefresh)
	if err != nil {
		return "", err
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("refresh for unknown subject", "sub", claims.Subject)
			return "", ErrInvalidRefresh
		}
		return "", err
	}
	if !u.IsActive {
		l.Warn("refresh for disabled account", "sub", claims.Subject)
		return "", ErrInvalidRefresh
	}

	access, err := s.Codec.Issue(jwtx.NewClaims(
		u.ID, jwtx.KindAccess, false, s.AccessTTL, s.Issuer, u.Username, claims.Roles, time.Now()))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return access, nil
}

// Revoke adds the token's jti to the blocklist. The token must decode
// cleanly (an attacker cannot poison the blocklist with forged or expired
// tokens), but an already-revoked token revokes to success: the entry is
// simply already there.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.Codec.Decode(token)
	if err != nil {
		return err
	}

	entry := domain.BlocklistEntry{
		JTI:           claims.ID,
		TokenKind:     claims.Kind,
		OwnerIdentity: claims.Subject,
		RevokedAt:     time.Now().UTC(),
		ExpiresAt:     claims.ExpiresAt.Time,
	}

	if err := s.Store.Blocklist().Record(ctx, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Concurrent or repeated revocation of the same jti; the
			// outcome the caller wanted already holds.
			return nil
		}
		return fmt.Errorf("record revocation: %w", err)
	}

	slogx.FromContext(ctx).Info("token revoked",
		"jti", claims.ID, "kind", claims.Kind, "sub", claims.Subject)
	return nil
}
