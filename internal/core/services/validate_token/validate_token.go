package validatetoken

import (
	"context"
	"errors"
	"resetpass/internal/core/domain/account"
	c "resetpass/internal/core/domain/common"
	e "resetpass/internal/core/domain/errors"
	"resetpass/internal/core/domain/logging"
	"resetpass/internal/core/domain/token"
	"resetpass/internal/core/services"
	"time"
)

type Input struct {
	Key token.Key
}

type Result struct {
	Token token.ResetToken
	// Account is populated only when the service is configured to expose
	// non-sensitive account attributes to the caller.
	Account c.Optional[account.Account]
}

type service struct {
	log               logging.Logger
	tokenRepository   token.Repository
	accountRepository account.Repository
	now               func() time.Time
	expiry            time.Duration
	exposeAccount     bool
}

func New(
	log logging.Logger,
	tokenRepository token.Repository,
	accountRepository account.Repository,
	now func() time.Time,
	expiry time.Duration,
	exposeAccount bool,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokenRepository == nil {
		panic(e.NewNilArgumentError("tokenRepository"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:               log,
		tokenRepository:   tokenRepository,
		accountRepository: accountRepository,
		now:               now,
		expiry:            expiry,
		exposeAccount:     exposeAccount,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	t, err := s.tokenRepository.GetByKey(ctx, input.Key)
	if errors.Is(err, token.ErrTokenDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	if t.IsExpired(s.now(), s.expiry) {
		// Lazy eviction: an expired token read is its last read.
		if err := s.tokenRepository.Delete(ctx, t.ID); err != nil &&
			!errors.Is(err, token.ErrTokenDoesNotExist) {
			logging.Error(ctx, s.log, err, logging.Entry("tokenID", t.ID))
			return result, err
		}
		s.log.Info(ctx, "Expired reset token deleted on read.", logging.Entry("tokenID", t.ID))
		return result, token.ErrTokenExpired
	}

	result.Token = t
	if s.exposeAccount {
		a, err := s.accountRepository.GetByID(ctx, t.AccountID)
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("accountID", t.AccountID))
			return result, err
		}
		result.Account = c.NewOptional(a, true)
	}
	return result, nil
}
