package store

import (
	"context"
	"errors"
	"time"

	"github.com/arcwall/arcwall/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres if we ever need it) implement this. Sub-repositories keep the
// two concerns separate while sharing one connection and one transaction
// scope.
type Store interface {
	Users() Users
	Blocklist() Blocklist

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the credential store: identity plus password-verification
// material.
type Users interface {
	// GetUserByID returns a user by its stable ID.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login (usernames are case-sensitive
	// and unique).
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user. The username's UNIQUE constraint makes
	// check-then-insert atomic: a concurrent duplicate surfaces as
	// ErrAlreadyExists, never as a second row.
	CreateUser(ctx context.Context, u domain.User) error

	// SetActive flips the is_active flag and bumps updated_at.
	SetActive(ctx context.Context, userID string, active bool) error

	// CountUsers returns the total number of accounts.
	CountUsers(ctx context.Context) (int64, error)
}

// Blocklist is the append-only set of revoked jtis. It must be consulted on
// every protected-operation verification, not only at issuance.
type Blocklist interface {
	// Record inserts a revocation entry. Inserting the same jti twice
	// returns ErrAlreadyExists; the first entry stays untouched.
	Record(ctx context.Context, e domain.BlocklistEntry) error

	// IsRevoked reports whether jti has a revocation entry. A missing
	// entry must never be reported for a recorded jti (no false
	// negatives).
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// GetEntry returns the revocation entry for a jti.
	GetEntry(ctx context.Context, jti string) (domain.BlocklistEntry, error)

	// DeleteExpired removes entries whose token expiry predates cutoff.
	// Such tokens already fail verification on expiry alone, so dropping
	// the entry cannot un-revoke anything. Returns the number removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
