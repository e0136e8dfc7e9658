package confirmreset

import (
	"context"
	"errors"
	"resetpass/internal/core/domain/account"
	e "resetpass/internal/core/domain/errors"
	"resetpass/internal/core/domain/logging"
	"resetpass/internal/core/domain/notification"
	"resetpass/internal/core/domain/token"
	uow "resetpass/internal/core/domain/unit_of_work"
	"resetpass/internal/core/services"
	"time"
)

type Input struct {
	Key         token.Key
	NewPassword account.RawPassword
}

type Result struct{}

type service struct {
	log                   logging.Logger
	unitOfWork            uow.UnitOfWork
	tokenRepository       token.Repository
	accountRepository     account.Repository
	passwordHasher        account.PasswordHasher
	passwordPolicy        account.PasswordPolicy
	notifier              notification.Notifier
	now                   func() time.Time
	expiry                time.Duration
	requireUsablePassword bool
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	tokenRepository token.Repository,
	accountRepository account.Repository,
	passwordHasher account.PasswordHasher,
	passwordPolicy account.PasswordPolicy,
	notifier notification.Notifier,
	now func() time.Time,
	expiry time.Duration,
	requireUsablePassword bool,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if tokenRepository == nil {
		panic(e.NewNilArgumentError("tokenRepository"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if passwordPolicy == nil {
		panic(e.NewNilArgumentError("passwordPolicy"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                   log,
		unitOfWork:            unitOfWork,
		tokenRepository:       tokenRepository,
		accountRepository:     accountRepository,
		passwordHasher:        passwordHasher,
		passwordPolicy:        passwordPolicy,
		notifier:              notifier,
		now:                   now,
		expiry:                expiry,
		requireUsablePassword: requireUsablePassword,
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
		if err := s.tokenRepository.Delete(ctx, t.ID); err != nil &&
			!errors.Is(err, token.ErrTokenDoesNotExist) {
			logging.Error(ctx, s.log, err, logging.Entry("tokenID", t.ID))
			return result, err
		}
		s.log.Info(ctx, "Expired reset token deleted on confirm.", logging.Entry("tokenID", t.ID))
		return result, token.ErrTokenExpired
	}

	a, err := s.accountRepository.GetByID(ctx, t.AccountID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("accountID", t.AccountID))
		return result, err
	}

	// Eligibility is re-checked at confirm time: the account's state may
	// have changed since the token was requested.
	if account.IsEligibleForReset(a, s.requireUsablePassword) {
		if err := s.changePassword(ctx, a, input.NewPassword); err != nil {
			return result, err
		}
		return result, nil
	}

	// An ineligible account gets no credential change, but the consumed
	// token (and any siblings) still dies.
	if err := s.tokenRepository.DeleteAllForAccount(ctx, a.ID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("accountID", a.ID))
		return result, err
	}
	s.log.Info(
		ctx,
		"Account not eligible at confirm time, tokens invalidated without credential change.",
		logging.Entry("accountID", a.ID),
	)
	return result, nil
}

// changePassword applies the credential mutation and the delete-all-tokens
// invalidation as one transaction: a failed mutation leaves every token in
// place, a successful one leaves none.
func (s *service) changePassword(
	ctx context.Context,
	a account.Account,
	password account.RawPassword,
) error {
	// The pre-change call-out announces the attempt, so it fires before the
	// strength check and reaches subscribers even for a rejected password.
	if err := s.notifier.PreCredentialChange(ctx, a); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("accountID", a.ID))
		return err
	}
	if err := s.passwordPolicy.Validate(password, a); err != nil {
		return err
	}

	hash, err := s.passwordHasher.HashPassword(password)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return err
	}

	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.Accounts().SetPassword(ctx, a.ID, hash); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("accountID", a.ID))
		return err
	}
	// Deleting every token for the account, not just the consumed one,
	// closes the window where a concurrently-requested token could still
	// be used after this reset.
	if err := tx.Tokens().DeleteAllForAccount(ctx, a.ID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("accountID", a.ID))
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("accountID", a.ID))
		return err
	}

	if err := s.notifier.PostCredentialChange(ctx, a); err != nil {
		// The credential has already changed, so a failed post-change
		// call-out is logged but does not fail the reset.
		s.log.Warning(
			ctx,
			"Post credential change notification failed.",
			logging.Entry("accountID", a.ID),
			logging.Entry("err", err),
		)
	}
	s.log.Info(ctx, "Password has been reset.", logging.Entry("accountID", a.ID))
	return nil
}
