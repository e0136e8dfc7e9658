package requesttoken

import (
	"context"
	"errors"
	"resetpass/internal/core/domain/account"
	c "resetpass/internal/core/domain/common"
	e "resetpass/internal/core/domain/errors"
	"resetpass/internal/core/domain/logging"
	"resetpass/internal/core/domain/notification"
	"resetpass/internal/core/domain/token"
	uow "resetpass/internal/core/domain/unit_of_work"
	"resetpass/internal/core/services"
	"time"
)

// createAttempts bounds retries on a store-level key collision. With the
// default generator entropy a single collision is already astronomically
// unlikely.
const createAttempts = 3

type Input struct {
	Identifier string
	UserAgent  string
	IP         string
}

func (i Input) GetRateLimitKey() string {
	if i.IP != "" {
		return "request-token::" + i.IP
	}
	return "request-token::" + string(c.NewIdentifier(i.Identifier))
}

type Result struct {
	// Tokens processed for the identifier's eligible accounts, reused or
	// freshly created. Never exposed in responses outside test mode.
	Tokens []token.ResetToken
}

type service struct {
	log                   logging.Logger
	unitOfWork            uow.UnitOfWork
	accountRepository     account.Repository
	tokenRepository       token.Repository
	generator             token.Generator
	notifier              notification.Notifier
	now                   func() time.Time
	expiry                time.Duration
	lookupField           account.LookupField
	noInformationLeakage  bool
	requireUsablePassword bool
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	accountRepository account.Repository,
	tokenRepository token.Repository,
	generator token.Generator,
	notifier notification.Notifier,
	now func() time.Time,
	expiry time.Duration,
	lookupField account.LookupField,
	noInformationLeakage bool,
	requireUsablePassword bool,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if tokenRepository == nil {
		panic(e.NewNilArgumentError("tokenRepository"))
	}
	if generator == nil {
		panic(e.NewNilArgumentError("generator"))
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
		accountRepository:     accountRepository,
		tokenRepository:       tokenRepository,
		generator:             generator,
		notifier:              notifier,
		now:                   now,
		expiry:                expiry,
		lookupField:           lookupField,
		noInformationLeakage:  noInformationLeakage,
		requireUsablePassword: requireUsablePassword,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	s.sweepExpired(ctx)

	identifier := c.NewIdentifier(input.Identifier)
	accounts, err := s.accountRepository.FindByIdentifier(ctx, s.lookupField, identifier)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("identifier", identifier))
		return result, err
	}

	eligibleFound := false
	for _, a := range accounts {
		if account.IsEligibleForReset(a, s.requireUsablePassword) {
			eligibleFound = true
			break
		}
	}
	if !eligibleFound {
		// Missing account and ineligible-only account behave identically
		// here: leakage suppression must not distinguish the two.
		if s.noInformationLeakage {
			s.log.Info(
				ctx,
				"No eligible account, responding as if successful (leakage suppression).",
				logging.Entry("lookupField", s.lookupField),
			)
			return result, nil
		}
		return result, account.ErrNoEligibleAccount
	}

	for _, a := range accounts {
		if !account.IsEligibleForReset(a, s.requireUsablePassword) {
			continue
		}
		if !identifier.Equals(a.LookupValue(s.lookupField)) {
			continue
		}
		t, err := s.getOrCreateToken(ctx, a, input)
		if err != nil {
			return result, err
		}
		if err := s.notifier.TokenCreated(ctx, a, t); err != nil {
			s.log.Error(
				ctx,
				"Could not deliver password reset token.",
				logging.Entry("accountID", a.ID),
				logging.Entry("err", err),
			)
			return result, err
		}
		result.Tokens = append(result.Tokens, t)
	}

	return result, nil
}

// getOrCreateToken reuses the account's current live token or creates a
// fresh one. The check-then-create runs inside one transaction so two
// near-simultaneous requests cannot mint two tokens for one account.
func (s *service) getOrCreateToken(
	ctx context.Context,
	a account.Account,
	input Input,
) (t token.ResetToken, err error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		t, err = s.tryGetOrCreateToken(ctx, a, input)
		if errors.Is(err, token.ErrDuplicateKey) {
			s.log.Warning(
				ctx,
				"Generated token key collided, retrying.",
				logging.Entry("accountID", a.ID),
				logging.Entry("attempt", attempt+1),
			)
			continue
		}
		return t, err
	}
	return t, err
}

func (s *service) tryGetOrCreateToken(
	ctx context.Context,
	a account.Account,
	input Input,
) (t token.ResetToken, err error) {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return t, err
	}
	defer tx.Rollback(ctx)

	for {
		t, err = tx.Tokens().GetCurrentForAccount(ctx, a.ID)
		if errors.Is(err, token.ErrTokenDoesNotExist) {
			break
		}
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("accountID", a.ID))
			return t, err
		}
		if !t.IsExpired(s.now(), s.expiry) {
			// Reuse keeps the first delivered link alive; a double-clicked
			// request must not invalidate the first email.
			return t, tx.Commit(ctx)
		}
		// A dead token can outlive a failed sweep; evict it here rather
		// than re-deliver it.
		err = tx.Tokens().Delete(ctx, t.ID)
		if err != nil && !errors.Is(err, token.ErrTokenDoesNotExist) {
			logging.Error(ctx, s.log, err, logging.Entry("tokenID", t.ID))
			return t, err
		}
	}

	t, err = tx.Tokens().Create(ctx, token.CreateInput{
		AccountID: a.ID,
		Key:       s.generator.GenerateKey(),
		CreatedAt: s.now(),
		UserAgent: input.UserAgent,
		IP:        input.IP,
	})
	if errors.Is(err, token.ErrDuplicateKey) {
		return t, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("accountID", a.ID))
		return t, err
	}
	if err := tx.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("accountID", a.ID))
		return t, err
	}
	s.log.Info(
		ctx,
		"Password reset token has been created.",
		logging.Entry("accountID", a.ID),
		logging.Entry("tokenID", t.ID),
	)
	return t, nil
}

// sweepExpired is advisory cleanup; validity is always re-checked at read
// time, so a failed sweep only defers eviction to the next request.
func (s *service) sweepExpired(ctx context.Context) {
	cutoff := token.ExpiryCutoff(s.now(), s.expiry)
	evicted, err := s.tokenRepository.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		s.log.Warning(ctx, "Could not evict expired tokens.", logging.Entry("err", err))
		return
	}
	if evicted > 0 {
		s.log.Info(ctx, "Evicted expired tokens.", logging.Entry("count", evicted))
	}
}
