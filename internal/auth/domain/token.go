package domain

import "time"

// TokenPair is what a successful login returns: a short-lived fresh access
// token and a longer-lived refresh token. Both are self-contained signed
// JWTs with distinct jtis.
type TokenPair struct {
	AccessToken      string        `json:"access_token"`
	RefreshToken     string        `json:"refresh_token"`
	TokenType        string        `json:"token_type,omitempty"` // "Bearer"
	AccessExpiresIn  time.Duration `json:"-"`
	RefreshExpiresIn time.Duration `json:"-"`
}

// BlocklistEntry records one revoked jti. Entries are append-only: they are
// never mutated, and are only deleted by housekeeping once ExpiresAt has
// passed and expiry alone rejects the token.
type BlocklistEntry struct {
	JTI           string
	TokenKind     string // "access" or "refresh"
	OwnerIdentity string // subject of the revoked token
	RevokedAt     time.Time
	ExpiresAt     time.Time // the revoked token's own expiry
}
