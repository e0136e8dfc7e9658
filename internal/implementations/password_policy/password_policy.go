package passwordpolicy

import (
	"fmt"
	"strings"
	"unicode"

	"resetpass/internal/core/domain/account"
)

// Policy rejects candidate passwords that are too short, fully numeric,
// or trivially derived from the account's own identifiers.
type Policy struct {
	minLength int
}

func New(minLength int) *Policy {
	return &Policy{minLength: minLength}
}

func (p *Policy) Validate(password account.RawPassword, a account.Account) error {
	raw := string(password)
	var reasons []string

	if len(raw) < p.minLength {
		reasons = append(reasons, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", p.minLength,
		))
	}
	if raw != "" && isNumeric(raw) {
		reasons = append(reasons, "This password is entirely numeric.")
	}
	if similarToAttribute(raw, string(a.Email)) || similarToAttribute(raw, a.Username) {
		reasons = append(reasons, "The password is too similar to the account identifier.")
	}

	if len(reasons) > 0 {
		return &account.WeakPasswordError{Reasons: reasons}
	}
	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarToAttribute flags passwords that contain, or are contained in,
// the attribute (or its local part for emails), ignoring case.
func similarToAttribute(password, attribute string) bool {
	if password == "" || attribute == "" {
		return false
	}
	p := strings.ToLower(password)
	parts := []string{strings.ToLower(attribute)}
	if local, _, found := strings.Cut(parts[0], "@"); found && len(local) >= 3 {
		parts = append(parts, local)
	}
	for _, part := range parts {
		if strings.Contains(p, part) || strings.Contains(part, p) {
			return true
		}
	}
	return false
}
