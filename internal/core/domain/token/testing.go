package token

import (
	"context"
	"fmt"
	"resetpass/internal/core/domain/account"
	"sync"
	"time"
)

type FakeRepository struct {
	Tokens                    []ResetToken
	CreateReturnsError        bool
	DeleteExpiredReturnsError bool
	nextID                    ID
	lock                      sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{Tokens: make([]ResetToken, 0, 10)}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (t ResetToken, err error) {
	if r.CreateReturnsError {
		return t, fmt.Errorf("could not create reset token for account %d", input.AccountID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Tokens {
		if existing.Key == input.Key {
			return t, ErrDuplicateKey
		}
	}
	r.nextID++
	t = ResetToken{
		ID:        r.nextID,
		Key:       input.Key,
		AccountID: input.AccountID,
		CreatedAt: input.CreatedAt,
		UserAgent: input.UserAgent,
		IP:        input.IP,
	}
	r.Tokens = append(r.Tokens, t)
	return t, nil
}

func (r *FakeRepository) GetByKey(ctx context.Context, key Key) (t ResetToken, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Tokens {
		if existing.Key == key {
			return existing, nil
		}
	}
	return t, ErrTokenDoesNotExist
}

func (r *FakeRepository) GetCurrentForAccount(
	ctx context.Context,
	accountID account.ID,
) (t ResetToken, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	found := false
	for _, existing := range r.Tokens {
		if existing.AccountID != accountID {
			continue
		}
		if !found || existing.ID < t.ID {
			t = existing
			found = true
		}
	}
	if !found {
		return t, ErrTokenDoesNotExist
	}
	return t, nil
}

func (r *FakeRepository) Delete(ctx context.Context, id ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, existing := range r.Tokens {
		if existing.ID == id {
			r.Tokens = append(r.Tokens[:ix], r.Tokens[ix+1:]...)
			return nil
		}
	}
	return ErrTokenDoesNotExist
}

func (r *FakeRepository) DeleteAllForAccount(ctx context.Context, accountID account.ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	kept := r.Tokens[:0]
	for _, existing := range r.Tokens {
		if existing.AccountID != accountID {
			kept = append(kept, existing)
		}
	}
	r.Tokens = kept
	return nil
}

func (r *FakeRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.DeleteExpiredReturnsError {
		return 0, fmt.Errorf("could not delete expired reset tokens")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	var evicted int64
	kept := r.Tokens[:0]
	for _, existing := range r.Tokens {
		if existing.CreatedAt.After(cutoff) {
			kept = append(kept, existing)
		} else {
			evicted++
		}
	}
	r.Tokens = kept
	return evicted, nil
}

func (r *FakeRepository) CountForAccount(accountID account.ID) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	count := 0
	for _, existing := range r.Tokens {
		if existing.AccountID == accountID {
			count++
		}
	}
	return count
}

type FakeGenerator struct {
	Keys  []Key
	calls int
	lock  sync.Mutex
}

// NewFakeGenerator returns keys in order, repeating the last one once the
// sequence is exhausted.
func NewFakeGenerator(keys ...Key) *FakeGenerator {
	return &FakeGenerator{Keys: keys}
}

func (g *FakeGenerator) GenerateKey() Key {
	g.lock.Lock()
	defer g.lock.Unlock()
	ix := g.calls
	if ix >= len(g.Keys) {
		ix = len(g.Keys) - 1
	}
	g.calls++
	return g.Keys[ix]
}
