package passwordpolicy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"resetpass/internal/core/domain/account"
	c "resetpass/internal/core/domain/common"
)

func testAccount() account.Account {
	return account.Account{
		ID:       1,
		Email:    c.Email("jane.doe@example.com"),
		Username: "janedoe",
	}
}

func TestAccepts(t *testing.T) {
	cases := []string{
		"correct horse battery staple",
		"s3cure-enough!",
		"12345678a",
	}
	policy := New(8)
	for _, password := range cases {
		t.Run(password, func(t *testing.T) {
			err := policy.Validate(account.RawPassword(password), testAccount())
			require.NoError(t, err)
		})
	}
}

func TestRejects(t *testing.T) {
	cases := []struct {
		name     string
		password string
		reasons  int
	}{
		{name: "too short", password: "short", reasons: 1},
		{name: "entirely numeric", password: "123456789", reasons: 1},
		{name: "matches email", password: "jane.doe@example.com", reasons: 1},
		{name: "contains email local part", password: "my-jane.doe-secret", reasons: 1},
		{name: "matches username", password: "JANEDOE99", reasons: 1},
		{name: "short and numeric", password: "1234", reasons: 2},
		{name: "empty", password: "", reasons: 1},
	}
	policy := New(8)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Validate(account.RawPassword(tc.password), testAccount())
			require.Error(t, err)

			var weak *account.WeakPasswordError
			require.True(t, errors.As(err, &weak))
			require.Len(t, weak.Reasons, tc.reasons)
		})
	}
}
