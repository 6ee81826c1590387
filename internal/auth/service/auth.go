package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arcwall/arcwall/internal/auth/domain"
	"github.com/arcwall/arcwall/internal/auth/store"
	"github.com/arcwall/arcwall/pkg/cryptox"
	"github.com/arcwall/arcwall/pkg/idx"
	"github.com/arcwall/arcwall/pkg/slogx"
)

var (
	ErrValidation         = errors.New("validation_error")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountDisabled    = errors.New("account_disabled")
)

const DefaultMinPasswordLen = 6

// Every account gets the base role on login until a role store exists.
var defaultRoles = []string{"user"}

// AuthService handles registration and the credential check at login.
// Token work is delegated to the TokenService.
type AuthService struct {
	Store          store.Store
	Tokens         *TokenService
	MinPasswordLen int
}

func (s *AuthService) minPasswordLen() int {
	if s.MinPasswordLen > 0 {
		return s.MinPasswordLen
	}
	return DefaultMinPasswordLen
}

// Register creates a new account. Usernames are trimmed but otherwise
// stored as given, matching is case sensitive.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, fmt.Errorf("%w: username must not be empty", ErrValidation)
	}
	if len(password) < s.minPasswordLen() {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters",
			ErrValidation, s.minPasswordLen())
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login verifies the credentials and issues a token pair. A missing user
// and a wrong password are indistinguishable to the caller; the disabled
// state is only revealed once the password itself checked out.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, domain.User, error) {
	username = strings.TrimSpace(username)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.User{}, ErrInvalidCredentials
		}
		return nil, domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return nil, domain.User{}, ErrInvalidCredentials
		}
		return nil, domain.User{}, fmt.Errorf("verify password: %w", err)
	}

	if !u.IsActive {
		return nil, domain.User{}, ErrAccountDisabled
	}

	pair, err := s.Tokens.IssuePair(ctx, u, defaultRoles)
	if err != nil {
		return nil, domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", u.ID, "username", u.Username)
	return pair, u, nil
}

// Profile returns the public view of the account behind a user ID.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	return u.Profile(defaultRoles), nil
}
