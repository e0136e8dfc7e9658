package account

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	c "resetpass/internal/core/domain/common"
	"sync"
)

type FakeRepository struct {
	Accounts               []Account
	FindReturnsError       bool
	SetPasswordReturnError bool
	lock                   sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{Accounts: make([]Account, 0, 10)}
}

func (r *FakeRepository) Add(a Account) Account {
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, existing := range r.Accounts {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	a.ID = maxID + 1
	r.Accounts = append(r.Accounts, a)
	return a
}

func (r *FakeRepository) FindByIdentifier(
	ctx context.Context,
	field LookupField,
	identifier c.Identifier,
) ([]Account, error) {
	if r.FindReturnsError {
		return nil, fmt.Errorf("could not find accounts by %s", field)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	found := make([]Account, 0, 1)
	for _, a := range r.Accounts {
		if identifier.Equals(a.LookupValue(field)) {
			found = append(found, a)
		}
	}
	return found, nil
}

func (r *FakeRepository) GetByID(ctx context.Context, id ID) (a Account, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Accounts {
		if existing.ID == id {
			return existing, nil
		}
	}
	return a, ErrAccountDoesNotExist
}

func (r *FakeRepository) SetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.SetPasswordReturnError {
		return fmt.Errorf("could not set password for account %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix := range r.Accounts {
		if r.Accounts[ix].ID == id {
			r.Accounts[ix].PasswordHash = c.NewOptional(password, true)
			return nil
		}
	}
	return ErrAccountDoesNotExist
}

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakePasswordPolicy struct {
	Reasons []string
}

func NewFakePasswordPolicy() *FakePasswordPolicy {
	return &FakePasswordPolicy{}
}

func (p *FakePasswordPolicy) Validate(password RawPassword, a Account) error {
	if len(p.Reasons) > 0 {
		return &WeakPasswordError{Reasons: p.Reasons}
	}
	return nil
}
