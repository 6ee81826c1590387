package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Codec turns claims into signed compact JWTs and back. Implementations
// hold the signing key material; the key is loaded once at startup and
// rotating it invalidates everything issued before.
type Codec interface {
	// Alg returns the JOSE algorithm name ("HS256", "EdDSA").
	Alg() string

	// Issue signs the claim set and returns the compact token string.
	Issue(Claims) (string, error)

	// Decode parses and verifies a compact token. It fails with
	// ErrInvalidSig when the signature does not verify, ErrMalformed when
	// the structure cannot be parsed, and ErrExpired when the token is
	// past its expiry.
	Decode(token string) (Claims, error)
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// mapParseError translates golang-jwt parser errors into our sentinels so
// callers only ever see the codec's own failure modes.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrInvalidClaim
	default:
		// Unknown kid, wrong algorithm, truncated segments and the like
		// all render the token unusable rather than merely stale.
		return ErrMalformed
	}
}

// checkClaims enforces the parts of the claim set the parser does not: a
// jti must be present (it is the revocation key) and the kind must be one
// we mint.
func checkClaims(c Claims) error {
	if c.ID == "" {
		return ErrInvalidClaim
	}
	if c.Kind != KindAccess && c.Kind != KindRefresh {
		return ErrInvalidClaim
	}
	return nil
}
