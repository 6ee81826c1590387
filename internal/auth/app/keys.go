package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/arcwall/arcwall/pkg/jwtx"
)

// InitCodec builds the token codec for the configured algorithm.
//
// HS256 signs with the shared secret from the environment. EdDSA reads an
// Ed25519 private key from cfg.KeyFile, generating and persisting one on
// first start so tokens survive restarts. The returned *EdDSACodec is nil
// in HS256 mode; it gates the JWKS endpoint.
func InitCodec(cfg Config, logger *slog.Logger) (jwtx.Codec, *jwtx.EdDSACodec, error) {
	switch cfg.Algorithm {
	case "HS256":
		codec, err := jwtx.NewHS256([]byte(cfg.Secret), cfg.Issuer)
		if err != nil {
			return nil, nil, fmt.Errorf("init HS256 codec: %w", err)
		}
		logger.Info("token signing configured", "algorithm", "HS256", "issuer", cfg.Issuer)
		return codec, nil, nil

	case "EdDSA":
		pemKey, err := loadOrGenerateKey(cfg.KeyFile, logger)
		if err != nil {
			return nil, nil, err
		}

		codec, err := jwtx.NewEdDSA(keyID(pemKey), pemKey, cfg.Issuer)
		if err != nil {
			return nil, nil, fmt.Errorf("init EdDSA codec: %w", err)
		}
		logger.Info("token signing configured",
			"algorithm", "EdDSA", "issuer", cfg.Issuer, "kid", codec.KID())
		return codec, codec, nil

	default:
		return nil, nil, fmt.Errorf("unsupported algorithm %q", cfg.Algorithm)
	}
}

func loadOrGenerateKey(path string, logger *slog.Logger) ([]byte, error) {
	pemKey, err := os.ReadFile(path)
	if err == nil {
		return pemKey, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("encode signing key: %w", err)
	}
	pemKey = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	if err := os.WriteFile(path, pemKey, 0o600); err != nil {
		return nil, fmt.Errorf("persist signing key: %w", err)
	}

	logger.Info("generated new Ed25519 signing key", "path", path)
	return pemKey, nil
}

// keyID derives a stable key identifier from the key material so the kid
// does not change across restarts.
func keyID(pemKey []byte) string {
	sum := sha256.Sum256(pemKey)
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}
