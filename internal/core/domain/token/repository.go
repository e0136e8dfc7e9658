package token

import (
	"context"
	"resetpass/internal/core/domain/account"
	"time"
)

type CreateInput struct {
	AccountID account.ID
	Key       Key
	CreatedAt time.Time
	UserAgent string
	IP        string
}

// Repository is the token store. Create fails with ErrDuplicateKey when the
// key already exists; it must never silently overwrite.
type Repository interface {
	Create(ctx context.Context, input CreateInput) (ResetToken, error)
	GetByKey(ctx context.Context, key Key) (ResetToken, error)
	// GetCurrentForAccount returns the earliest-created token owned by the
	// account, or ErrTokenDoesNotExist if it owns none.
	GetCurrentForAccount(ctx context.Context, accountID account.ID) (ResetToken, error)
	Delete(ctx context.Context, id ID) error
	DeleteAllForAccount(ctx context.Context, accountID account.ID) error
	// DeleteExpiredBefore removes every token with CreatedAt <= cutoff and
	// returns the number of evicted tokens.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Generator produces a high-entropy key. Generation does not guarantee
// store-level uniqueness; the store's create operation does.
type Generator interface {
	GenerateKey() Key
}
