package notification

import (
	"context"
	"resetpass/internal/core/domain/account"
	"resetpass/internal/core/domain/token"
)

// Notifier receives the engine's synchronous call-outs. TokenCreated is the
// sole channel a token ever leaves the engine through; delivery to the end
// user (e.g. email) is a subscriber concern.
type Notifier interface {
	TokenCreated(ctx context.Context, a account.Account, t token.ResetToken) error
	PreCredentialChange(ctx context.Context, a account.Account) error
	PostCredentialChange(ctx context.Context, a account.Account) error
}

// TokenSender delivers a created (or reused) token to the account owner.
type TokenSender interface {
	SendToken(ctx context.Context, a account.Account, t token.ResetToken) error
}

// CredentialChangeListener observes a credential mutation immediately
// before and after it is applied.
type CredentialChangeListener interface {
	PreCredentialChange(ctx context.Context, a account.Account) error
	PostCredentialChange(ctx context.Context, a account.Account) error
}

// Dispatcher fans call-outs to the registered subscribers in order,
// stopping at the first error.
type Dispatcher struct {
	senders   []TokenSender
	listeners []CredentialChangeListener
}

func NewDispatcher(senders []TokenSender, listeners []CredentialChangeListener) *Dispatcher {
	return &Dispatcher{senders: senders, listeners: listeners}
}

func (d *Dispatcher) TokenCreated(ctx context.Context, a account.Account, t token.ResetToken) error {
	for _, s := range d.senders {
		if err := s.SendToken(ctx, a, t); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) PreCredentialChange(ctx context.Context, a account.Account) error {
	for _, l := range d.listeners {
		if err := l.PreCredentialChange(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) PostCredentialChange(ctx context.Context, a account.Account) error {
	for _, l := range d.listeners {
		if err := l.PostCredentialChange(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
