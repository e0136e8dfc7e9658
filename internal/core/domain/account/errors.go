package account

import (
	"errors"
	"strings"
)

var (
	ErrAccountDoesNotExist = errors.New("account does not exist")
	// ErrNoEligibleAccount means the lookup succeeded but no candidate
	// qualifies for a self-service reset. Suppressed entirely when
	// no-leakage mode is on.
	ErrNoEligibleAccount = errors.New("no eligible account for password reset")
)

// WeakPasswordError carries the structured reasons the policy rejected a
// candidate password.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + strings.Join(e.Reasons, "; ")
}
