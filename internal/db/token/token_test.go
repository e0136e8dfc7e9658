package token

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"resetpass/internal/core/domain/account"
	c "resetpass/internal/core/domain/common"
	"resetpass/internal/core/domain/token"
	"resetpass/internal/db"
	dbaccount "resetpass/internal/db/account"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	KEY        = "test-token-key"
	USER_AGENT = "test-user-agent"
	IP         = "192.0.2.1"
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool        *pgxpool.Pool
	repo        *PgxTokenRepository
	accountRepo *dbaccount.PgxAccountRepository
	account     account.Account
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.repo = NewPgxRepository(suite.pool)
	suite.accountRepo = dbaccount.NewPgxRepository(suite.pool)
}

func (suite *testSuite) SetupTest() {
	suite.account = suite.createAccount("test@test.test")
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxTokenRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCreateSuccess() {
	t, err := s.repo.Create(context.Background(), token.CreateInput{
		AccountID: s.account.ID,
		Key:       token.Key(KEY),
		CreatedAt: NOW,
		UserAgent: USER_AGENT,
		IP:        IP,
	})

	assert := s.Require()
	assert.Nil(err)
	assert.NotZero(t.ID)
	assert.Equal(token.Key(KEY), t.Key)
	assert.Equal(s.account.ID, t.AccountID)
	assert.True(NOW.Equal(t.CreatedAt))
	assert.Equal(USER_AGENT, t.UserAgent)
	assert.Equal(IP, t.IP)
}

func (s *testSuite) TestCreateDuplicateKey() {
	s.createToken(s.account.ID, KEY, NOW)

	other := s.createAccount("other@test.test")
	_, err := s.repo.Create(context.Background(), token.CreateInput{
		AccountID: other.ID,
		Key:       token.Key(KEY),
		CreatedAt: NOW,
	})
	s.True(errors.Is(err, token.ErrDuplicateKey))
}

func (s *testSuite) TestGetByKey() {
	created := s.createToken(s.account.ID, KEY, NOW)

	t, err := s.repo.GetByKey(context.Background(), token.Key(KEY))
	s.Nil(err)
	s.Equal(created, t)
}

func (s *testSuite) TestGetByKeyNotFound() {
	_, err := s.repo.GetByKey(context.Background(), token.Key("unknown-key"))
	s.True(errors.Is(err, token.ErrTokenDoesNotExist))
}

func (s *testSuite) TestGetCurrentForAccountReturnsEarliest() {
	first := s.createToken(s.account.ID, "key-1", NOW)
	s.createToken(s.account.ID, "key-2", NOW.Add(time.Hour))

	t, err := s.repo.GetCurrentForAccount(context.Background(), s.account.ID)
	s.Nil(err)
	s.Equal(first, t)
}

func (s *testSuite) TestGetCurrentForAccountNotFound() {
	_, err := s.repo.GetCurrentForAccount(context.Background(), s.account.ID)
	s.True(errors.Is(err, token.ErrTokenDoesNotExist))
}

func (s *testSuite) TestDelete() {
	created := s.createToken(s.account.ID, KEY, NOW)

	err := s.repo.Delete(context.Background(), created.ID)
	s.Nil(err)

	_, err = s.repo.GetByKey(context.Background(), token.Key(KEY))
	s.True(errors.Is(err, token.ErrTokenDoesNotExist))
}

func (s *testSuite) TestDeleteNotFound() {
	err := s.repo.Delete(context.Background(), token.ID(111222333))
	s.True(errors.Is(err, token.ErrTokenDoesNotExist))
}

func (s *testSuite) TestDeleteAllForAccount() {
	other := s.createAccount("other@test.test")
	s.createToken(s.account.ID, "key-1", NOW)
	s.createToken(s.account.ID, "key-2", NOW.Add(time.Hour))
	kept := s.createToken(other.ID, "key-3", NOW)

	err := s.repo.DeleteAllForAccount(context.Background(), s.account.ID)
	s.Nil(err)

	_, err = s.repo.GetCurrentForAccount(context.Background(), s.account.ID)
	s.True(errors.Is(err, token.ErrTokenDoesNotExist))

	t, err := s.repo.GetCurrentForAccount(context.Background(), other.ID)
	s.Nil(err)
	s.Equal(kept, t)
}

func (s *testSuite) TestDeleteExpiredBefore() {
	s.createToken(s.account.ID, "key-1", NOW.Add(-48*time.Hour))
	s.createToken(s.account.ID, "key-2", NOW.Add(-25*time.Hour))
	kept := s.createToken(s.account.ID, "key-3", NOW)

	count, err := s.repo.DeleteExpiredBefore(context.Background(), NOW.Add(-24*time.Hour))
	s.Nil(err)
	s.Equal(int64(2), count)

	t, err := s.repo.GetCurrentForAccount(context.Background(), s.account.ID)
	s.Nil(err)
	s.Equal(kept, t)
}

func (s *testSuite) TestDeleteExpiredBeforeNoExpired() {
	s.createToken(s.account.ID, KEY, NOW)

	count, err := s.repo.DeleteExpiredBefore(context.Background(), NOW.Add(-24*time.Hour))
	s.Nil(err)
	s.Equal(int64(0), count)
}

func (s *testSuite) createAccount(email string) account.Account {
	s.T().Helper()
	a, err := s.accountRepo.Create(
		context.Background(),
		dbaccount.CreateAccountInput{
			Email:        c.NewEmail(email),
			Username:     fmt.Sprintf("user-%s", email),
			PasswordHash: c.NewOptional(account.PasswordHash("test-password-hash"), true),
			CreatedAt:    NOW,
			ActivatedAt:  c.NewOptional(NOW, true),
		},
	)
	if err != nil {
		s.FailNowf("could not create account", "err: %v", err)
	}
	return a
}

func (s *testSuite) createToken(accountID account.ID, key string, createdAt time.Time) token.ResetToken {
	s.T().Helper()
	t, err := s.repo.Create(context.Background(), token.CreateInput{
		AccountID: accountID,
		Key:       token.Key(key),
		CreatedAt: createdAt,
		UserAgent: USER_AGENT,
		IP:        IP,
	})
	if err != nil {
		s.FailNowf("could not create token", "key: %v, err: %v", key, err)
	}
	return t
}
