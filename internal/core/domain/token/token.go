package token

import (
	"resetpass/internal/core/domain/account"
	"time"
)

type ID int64

// Key is the externally-visible capability credential. It is globally
// unique across accounts and across time; the store enforces this on
// create.
type Key string

// ResetToken is a single-use password-reset capability bound to exactly
// one account. Its validity window is [CreatedAt, CreatedAt+expiry);
// outside the window the token is dead even if still stored.
type ResetToken struct {
	ID        ID
	Key       Key
	AccountID account.ID
	CreatedAt time.Time
	// Best-effort provenance of the request that created the token.
	UserAgent string
	IP        string
}

// IsExpired checks the validity window against the live clock; stored
// state is never trusted on its own.
func (t ResetToken) IsExpired(now time.Time, expiry time.Duration) bool {
	return now.Sub(t.CreatedAt) >= expiry
}

// ExpiryCutoff returns the timestamp before (or at) which created tokens
// are dead, for bulk eviction.
func ExpiryCutoff(now time.Time, expiry time.Duration) time.Time {
	return now.Add(-expiry)
}
