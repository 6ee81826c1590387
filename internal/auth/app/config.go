package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/arcwall/arcwall/pkg/jwtx"
)

type Config struct {
	Issuer string `env:"AUTH_ISSUER" envDefault:"arcwall"`

	// Signing configuration. HS256 needs a shared secret; EdDSA reads an
	// Ed25519 private key from KeyFile, generating one on first start.
	Algorithm string `env:"AUTH_ALGORITHM" envDefault:"HS256"`
	Secret    string `env:"AUTH_SECRET,unset"`
	KeyFile   string `env:"AUTH_KEY_FILE" envDefault:"signing.pem"`

	AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"336h"`
	MinPasswordLen  int           `env:"AUTH_MIN_PASSWORD_LEN" envDefault:"6"`

	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"arcwall.db"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Algorithm {
	case "HS256":
		if len(c.Secret) < jwtx.MinHS256SecretLen {
			return fmt.Errorf("AUTH_SECRET must be at least %d bytes for HS256", jwtx.MinHS256SecretLen)
		}
	case "EdDSA":
		if c.KeyFile == "" {
			return fmt.Errorf("AUTH_KEY_FILE is required for EdDSA")
		}
	default:
		return fmt.Errorf("unsupported AUTH_ALGORITHM %q (want HS256 or EdDSA)", c.Algorithm)
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("refresh token TTL must exceed the access token TTL")
	}
	return nil
}
