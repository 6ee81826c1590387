package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewClaims(t *testing.T) {
	now := time.Now()
	c := NewClaims("user-1", KindAccess, true, time.Minute, "authd", "alice", []string{"user"}, now)

	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, KindAccess, c.Kind)
	require.True(t, c.Fresh)
	require.Equal(t, "alice", c.Username)
	require.Equal(t, []string{"user"}, c.Roles)
	require.NotEmpty(t, c.ID)
	require.WithinDuration(t, now.Add(time.Minute), c.ExpiresAt.Time, time.Second)
}

func TestNewClaimsUniqueJTI(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for range 1000 {
		c := NewClaims("user-1", KindAccess, true, time.Minute, "authd", "alice", nil, now)
		_, dup := seen[c.ID]
		require.False(t, dup, "jti %q issued twice", c.ID)
		seen[c.ID] = struct{}{}
	}
}

func TestCheckClaims(t *testing.T) {
	now := time.Now()

	t.Run("valid access claims pass", func(t *testing.T) {
		c := NewClaims("u", KindAccess, false, time.Minute, "", "", nil, now)
		require.NoError(t, checkClaims(c))
	})

	t.Run("missing jti rejected", func(t *testing.T) {
		c := NewClaims("u", KindRefresh, false, time.Minute, "", "", nil, now)
		c.ID = ""
		require.ErrorIs(t, checkClaims(c), ErrInvalidClaim)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		c := NewClaims("u", KindAccess, false, time.Minute, "", "", nil, now)
		c.Kind = "session"
		require.ErrorIs(t, checkClaims(c), ErrInvalidClaim)
	})
}
