package account

import (
	"context"
	c "resetpass/internal/core/domain/common"
)

// Repository is the boundary to the external account store. FindByIdentifier
// returns every account whose lookup field matches the canonicalized
// identifier; multiple accounts may share a fold-equivalent value and the
// caller decides eligibility per candidate.
type Repository interface {
	FindByIdentifier(ctx context.Context, field LookupField, identifier c.Identifier) ([]Account, error)
	GetByID(ctx context.Context, id ID) (Account, error)
	SetPassword(ctx context.Context, id ID, password PasswordHash) error
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}

// PasswordPolicy checks credential strength before a reset is applied.
// Validate returns a *WeakPasswordError carrying every violated rule.
type PasswordPolicy interface {
	Validate(password RawPassword, a Account) error
}
