package account

import (
	c "resetpass/internal/core/domain/common"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

// LookupField names the account attribute reset requests are matched
// against.
type LookupField string

const (
	LookupByEmail    LookupField = "email"
	LookupByUsername LookupField = "username"
)

// Account is a read-only snapshot of an externally-owned identity. The
// reset engine never creates or deletes accounts; it only reads
// eligibility and asks the repository to set a new password hash.
type Account struct {
	ID           ID
	Email        c.Email
	Username     string
	PasswordHash c.Optional[PasswordHash]
	CreatedAt    time.Time
	ActivatedAt  c.Optional[time.Time]
}

func (a Account) IsActive() bool {
	return a.ActivatedAt.IsPresent
}

// HasUsablePassword reports whether the account has a credential this
// engine may replace. Externally-managed accounts (e.g. federated
// identities) carry no local hash.
func (a Account) HasUsablePassword() bool {
	return a.PasswordHash.IsPresent
}

// LookupValue returns the raw value of the given lookup field.
func (a Account) LookupValue(field LookupField) string {
	if field == LookupByUsername {
		return a.Username
	}
	return string(a.Email)
}

// IsEligibleForReset is the single eligibility predicate: the account must
// be active, and unless requireUsablePassword is switched off it must have
// a locally-settable credential.
func IsEligibleForReset(a Account, requireUsablePassword bool) bool {
	if !a.IsActive() {
		return false
	}
	if requireUsablePassword {
		return a.HasUsablePassword()
	}
	return true
}
