package common

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p *Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

type Email string

func NewEmail(rawEmail string) Email {
	return Email(strings.ToLower(strings.TrimSpace(rawEmail)))
}

// Identifier is the value an account is looked up by (email, username, ...),
// canonicalized so that equivalent spellings compare equal.
type Identifier string

// NewIdentifier applies Unicode NFKC normalization and case folding.
// Compatibility normalization makes differently-composed but equivalent
// strings compare equal without ever equating look-alike characters from
// different scripts.
func NewIdentifier(raw string) Identifier {
	folded := cases.Fold().String(norm.NFKC.String(strings.TrimSpace(raw)))
	return Identifier(folded)
}

func (i Identifier) Equals(raw string) bool {
	return i == NewIdentifier(raw)
}
