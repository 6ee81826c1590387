package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinHS256SecretLen is the smallest secret we accept for HMAC signing.
// RFC 7518 requires keys at least as long as the hash output.
const MinHS256SecretLen = 32

// HS256Codec signs tokens with a shared HMAC-SHA256 secret. Anyone holding
// the secret can both issue and verify, so this mode suits a single service
// verifying its own tokens.
type HS256Codec struct {
	key    []byte
	issuer string
}

// NewHS256 builds a codec around the shared secret.
func NewHS256(secret []byte, issuer string) (*HS256Codec, error) {
	if len(secret) < MinHS256SecretLen {
		return nil, errors.New("jwtx: HS256 secret must be at least 32 bytes")
	}
	return &HS256Codec{key: secret, issuer: issuer}, nil
}

func (c *HS256Codec) Alg() string { return jwt.SigningMethodHS256.Alg() }

func (c *HS256Codec) Issue(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

func (c *HS256Codec) Decode(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if err := checkClaims(claims); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
