package token

import "errors"

var (
	ErrTokenDoesNotExist = errors.New("reset token does not exist")
	// ErrTokenExpired always follows deletion of the expired token.
	ErrTokenExpired = errors.New("reset token has expired")
	// ErrDuplicateKey is a store-level generation collision. It is retried
	// internally and never surfaced to callers.
	ErrDuplicateKey = errors.New("reset token key already exists")
)
