package uow

import (
	"context"
	"resetpass/internal/core/domain/account"
	"resetpass/internal/core/domain/token"
)

// Context is a transactional view over the account and token stores.
// Operations done through it commit or roll back as one.
type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Accounts() account.Repository
	Tokens() token.Repository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
