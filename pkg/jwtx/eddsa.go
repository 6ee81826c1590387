package jwtx

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSACodec signs tokens with an Ed25519 keypair. The public half can be
// published (see PublicJWK) so any compliant verifier validates tokens
// offline without the signing key.
type EdDSACodec struct {
	kid    string
	key    ed25519.PrivateKey
	pub    ed25519.PublicKey
	issuer string
}

// NewEdDSA loads an Ed25519 private key from PKCS8 PEM bytes.
func NewEdDSA(kid string, pemKey []byte, issuer string) (*EdDSACodec, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for Ed25519 key")
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q (Ed25519 requires PKCS8)", block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}
	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("jwtx: not an Ed25519 private key")
	}

	return &EdDSACodec{
		kid:    kid,
		key:    key,
		pub:    key.Public().(ed25519.PublicKey),
		issuer: issuer,
	}, nil
}

func (c *EdDSACodec) Alg() string { return jwt.SigningMethodEdDSA.Alg() }

// KID returns the key identifier stamped into token headers.
func (c *EdDSACodec) KID() string { return c.kid }

func (c *EdDSACodec) Issue(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = c.kid
	return t.SignedString(c.key)
}

func (c *EdDSACodec) Decode(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if kid, _ := t.Header["kid"].(string); kid != c.kid {
			return nil, fmt.Errorf("jwtx: unknown kid %q", kid)
		}
		return c.pub, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if err := checkClaims(claims); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

// PublicJWK returns the verification key as a JWK for JWKS publishing.
func (c *EdDSACodec) PublicJWK() JWK {
	return NewEd25519JWK(c.kid, "sig", c.Alg(), c.pub)
}
