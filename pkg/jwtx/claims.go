package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "type" claim. A token is minted as exactly one
// kind and verifiers must demand the kind they expect, so a refresh token
// can never stand in for an access token.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Default token lifetimes. Short access tokens limit the damage window of a
// leaked bearer token; the refresh lifetime bounds how long a session can
// ride without re-entering credentials. Both are overridable via config.
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 14 * 24 * time.Hour
)

// Claims is the full claim set we sign into every token.
type Claims struct {
	jwt.RegisteredClaims

	// Kind distinguishes access from refresh tokens. Serialized as "type"
	// for compatibility with tokens issued by the previous backend.
	Kind string `json:"type"`

	// Fresh is true only for access tokens issued directly from a
	// credential check. A token minted through refresh is never fresh.
	Fresh bool `json:"fresh"`

	// Username of the authenticated user, carried alongside the stable
	// user-ID subject for display and logging.
	Username string `json:"username,omitempty"`

	// Roles granted to the user at issuance time.
	Roles []string `json:"roles,omitempty"`
}

// NewClaims builds a claim set for one token issuance event. Every call
// draws a fresh jti; two tokens never share one.
func NewClaims(
	subject, kind string,
	fresh bool,
	ttl time.Duration,
	issuer string,
	username string,
	roles []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Kind:     kind,
		Fresh:    fresh,
		Username: username,
		Roles:    roles,
	}
}

// NewJTI returns a unique identifier for the "jti" claim. A random v4 UUID
// gives 122 bits of entropy, which makes reuse across issuance events
// practically impossible.
func NewJTI() string { return uuid.NewString() }
