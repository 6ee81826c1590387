package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arcwall/arcwall/internal/auth/domain"
)

type blocklistRepo struct {
	q querier
}

func (r *blocklistRepo) Record(ctx context.Context, e domain.BlocklistEntry) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO token_blocklist (jti, token_kind, owner_identity, revoked_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.JTI, e.TokenKind, e.OwnerIdentity, e.RevokedAt.UTC(), e.ExpiresAt.UTC())
	if err != nil {
		// The jti PRIMARY KEY makes concurrent revocations of one token
		// collapse into a single entry; the loser sees ErrAlreadyExists.
		return mapConflict(err)
	}
	return nil
}

func (r *blocklistRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx,
		`SELECT 1 FROM token_blocklist WHERE jti = ?`, jti).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *blocklistRepo) GetEntry(ctx context.Context, jti string) (domain.BlocklistEntry, error) {
	var e domain.BlocklistEntry
	err := r.q.QueryRowContext(ctx,
		`SELECT jti, token_kind, owner_identity, revoked_at, expires_at
		 FROM token_blocklist WHERE jti = ?`, jti).
		Scan(&e.JTI, &e.TokenKind, &e.OwnerIdentity, &e.RevokedAt, &e.ExpiresAt)
	if err != nil {
		return domain.BlocklistEntry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *blocklistRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM token_blocklist WHERE expires_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
