package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resetpass/internal/core/domain/account"
	c "resetpass/internal/core/domain/common"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so one repository
// implementation serves direct and transactional access.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxAccountRepository struct {
	db Querier
}

func NewPgxRepository(db Querier) *PgxAccountRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxAccountRepository{db: db}
}

const accountColumns = "id, email, username, password_hash, created_at, activated_at"

// CreateAccountInput provisions an account row. The reset engine itself
// never creates accounts; this exists for the surrounding identity system
// and for tests.
type CreateAccountInput struct {
	Email        c.Email
	Username     string
	PasswordHash c.Optional[account.PasswordHash]
	CreatedAt    time.Time
	ActivatedAt  c.Optional[time.Time]
}

func (r *PgxAccountRepository) Create(ctx context.Context, input CreateAccountInput) (a account.Account, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO account (email, email_normalized, username, username_normalized,
		                      password_hash, created_at, activated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+accountColumns,
		string(input.Email),
		string(c.NewIdentifier(string(input.Email))),
		input.Username,
		string(c.NewIdentifier(input.Username)),
		encodePasswordHash(input.PasswordHash),
		input.CreatedAt,
		encodeOptionalTime(input.ActivatedAt),
	)
	return scanAccount(row)
}

// FindByIdentifier matches the canonical normalized column populated at
// write time, so every spelling that folds to the same Identifier resolves
// to the same row.
func (r *PgxAccountRepository) FindByIdentifier(
	ctx context.Context,
	field account.LookupField,
	identifier c.Identifier,
) ([]account.Account, error) {
	column := "email_normalized"
	if field == account.LookupByUsername {
		column = "username_normalized"
	}
	rows, err := r.db.Query(
		ctx,
		`SELECT `+accountColumns+` FROM account WHERE `+column+` = $1 ORDER BY id`,
		string(identifier),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]account.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *PgxAccountRepository) GetByID(ctx context.Context, id account.ID) (a account.Account, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+accountColumns+` FROM account WHERE id = $1`,
		int64(id),
	)
	a, err = scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, account.ErrAccountDoesNotExist
	}
	return a, err
}

func (r *PgxAccountRepository) SetPassword(
	ctx context.Context,
	id account.ID,
	password account.PasswordHash,
) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE account SET password_hash = $1 WHERE id = $2`,
		string(password),
		int64(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return account.ErrAccountDoesNotExist
	}
	return nil
}

func scanAccount(row pgx.Row) (a account.Account, err error) {
	var (
		passwordHash sql.NullString
		activatedAt  sql.NullTime
	)
	err = row.Scan(&a.ID, &a.Email, &a.Username, &passwordHash, &a.CreatedAt, &activatedAt)
	if err != nil {
		return a, err
	}
	a.PasswordHash = c.NewOptional(account.PasswordHash(passwordHash.String), passwordHash.Valid)
	a.ActivatedAt = c.NewOptional(activatedAt.Time, activatedAt.Valid)
	return a, nil
}

func encodePasswordHash(ph c.Optional[account.PasswordHash]) sql.NullString {
	return sql.NullString{String: string(ph.Value), Valid: ph.IsPresent}
}

func encodeOptionalTime(at c.Optional[time.Time]) sql.NullTime {
	return sql.NullTime{Time: at.Value, Valid: at.IsPresent}
}
