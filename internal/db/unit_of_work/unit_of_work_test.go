package uow

import (
	"context"
	"errors"
	"testing"
	"time"

	"resetpass/internal/core/domain/account"
	"resetpass/internal/core/domain/token"
	"resetpass/internal/db"
	dbtoken "resetpass/internal/db/token"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const ACCOUNT_ID = 1

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	uow  *PgxUnitOfWork
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.uow = NewPgxUnitOfWork(suite.pool)
}

func (suite *testSuite) SetupTest() {
	suite.createAccount()
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUnitOfWork(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCommitPersistsPasswordAndTokenDeletion() {
	ctx := context.Background()
	tokenRepo := dbtoken.NewPgxRepository(s.pool)
	created, err := tokenRepo.Create(ctx, token.CreateInput{
		AccountID: ACCOUNT_ID,
		Key:       token.Key("test-key"),
		CreatedAt: time.Now().UTC(),
	})
	s.Nil(err)

	uow, err := s.uow.Begin(ctx)
	s.Nil(err)
	defer uow.Rollback(ctx)

	err = uow.Accounts().SetPassword(ctx, ACCOUNT_ID, account.PasswordHash("new-hash"))
	s.Nil(err)
	err = uow.Tokens().DeleteAllForAccount(ctx, ACCOUNT_ID)
	s.Nil(err)
	err = uow.Commit(ctx)
	s.Nil(err)

	_, err = tokenRepo.GetByKey(ctx, created.Key)
	s.True(errors.Is(err, token.ErrTokenDoesNotExist))

	a := s.getAccount()
	s.True(a.PasswordHash.IsPresent)
	s.Equal(account.PasswordHash("new-hash"), a.PasswordHash.Value)
}

func (s *testSuite) TestRollbackDiscardsChanges() {
	ctx := context.Background()

	uow, err := s.uow.Begin(ctx)
	s.Nil(err)

	_, err = uow.Tokens().Create(ctx, token.CreateInput{
		AccountID: ACCOUNT_ID,
		Key:       token.Key("test-key"),
		CreatedAt: time.Now().UTC(),
	})
	s.Nil(err)
	err = uow.Accounts().SetPassword(ctx, ACCOUNT_ID, account.PasswordHash("new-hash"))
	s.Nil(err)

	err = uow.Rollback(ctx)
	s.Nil(err)

	tokenRepo := dbtoken.NewPgxRepository(s.pool)
	_, err = tokenRepo.GetByKey(ctx, token.Key("test-key"))
	s.True(errors.Is(err, token.ErrTokenDoesNotExist))

	a := s.getAccount()
	s.True(a.PasswordHash.IsPresent)
	s.Equal(account.PasswordHash("test-hash"), a.PasswordHash.Value)
}

func (s *testSuite) createAccount() {
	s.T().Helper()

	_, err := s.pool.Exec(
		context.Background(),
		`
		INSERT INTO account (id, email, email_normalized, username, username_normalized,
		                     password_hash, created_at, activated_at)
		VALUES ($1, 'test@test.test', 'test@test.test', 'testuser', 'testuser', 'test-hash', now(), now());
		`,
		ACCOUNT_ID,
	)
	s.Nil(err)
}

func (s *testSuite) getAccount() account.Account {
	s.T().Helper()

	uow, err := s.uow.Begin(context.Background())
	if err != nil {
		s.FailNowf("could not begin uow", "%v", err)
	}
	defer uow.Rollback(context.Background())

	a, err := uow.Accounts().GetByID(context.Background(), ACCOUNT_ID)
	if err != nil {
		s.FailNowf("could not get account", "%v", err)
	}
	return a
}
