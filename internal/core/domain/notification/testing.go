package notification

import (
	"context"
	"fmt"
	"resetpass/internal/core/domain/account"
	"resetpass/internal/core/domain/token"
	"sync"
)

type SentToken struct {
	Account account.Account
	Token   token.ResetToken
}

type FakeNotifier struct {
	CreatedTokens     []SentToken
	PreChangeAccounts []account.Account
	PostChangeAccount []account.Account
	ReturnError       bool
	lock              sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) TokenCreated(ctx context.Context, a account.Account, t token.ResetToken) error {
	if n.ReturnError {
		return fmt.Errorf("could not deliver token for account %d", a.ID)
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.CreatedTokens = append(n.CreatedTokens, SentToken{Account: a, Token: t})
	return nil
}

func (n *FakeNotifier) PreCredentialChange(ctx context.Context, a account.Account) error {
	if n.ReturnError {
		return fmt.Errorf("pre-change notification failed for account %d", a.ID)
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.PreChangeAccounts = append(n.PreChangeAccounts, a)
	return nil
}

func (n *FakeNotifier) PostCredentialChange(ctx context.Context, a account.Account) error {
	if n.ReturnError {
		return fmt.Errorf("post-change notification failed for account %d", a.ID)
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.PostChangeAccount = append(n.PostChangeAccount, a)
	return nil
}

func (n *FakeNotifier) CreatedTokenCount() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.CreatedTokens)
}

func (n *FakeNotifier) LastCreatedToken() token.ResetToken {
	n.lock.Lock()
	defer n.lock.Unlock()
	l := len(n.CreatedTokens)
	if l == 0 {
		panic("no tokens have been sent")
	}
	return n.CreatedTokens[l-1].Token
}
