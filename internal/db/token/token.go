package token

import (
	"context"
	"errors"
	"time"

	"resetpass/internal/core/domain/account"
	"resetpass/internal/core/domain/token"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const KEY_CONSTRAINT_NAME = "reset_token_key_idx"

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxTokenRepository struct {
	db Querier
}

func NewPgxRepository(db Querier) *PgxTokenRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxTokenRepository{db: db}
}

const tokenColumns = "id, key, account_id, created_at, user_agent, ip"

func (r *PgxTokenRepository) Create(ctx context.Context, input token.CreateInput) (t token.ResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO reset_token (key, account_id, created_at, user_agent, ip)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+tokenColumns,
		string(input.Key),
		int64(input.AccountID),
		input.CreatedAt,
		input.UserAgent,
		input.IP,
	)
	t, err = scanToken(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == KEY_CONSTRAINT_NAME {
			return t, token.ErrDuplicateKey
		}
	}
	return t, err
}

func (r *PgxTokenRepository) GetByKey(ctx context.Context, key token.Key) (t token.ResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+tokenColumns+` FROM reset_token WHERE key = $1`,
		string(key),
	)
	t, err = scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, token.ErrTokenDoesNotExist
	}
	return t, err
}

func (r *PgxTokenRepository) GetCurrentForAccount(
	ctx context.Context,
	accountID account.ID,
) (t token.ResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+tokenColumns+` FROM reset_token WHERE account_id = $1 ORDER BY id LIMIT 1`,
		int64(accountID),
	)
	t, err = scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, token.ErrTokenDoesNotExist
	}
	return t, err
}

func (r *PgxTokenRepository) Delete(ctx context.Context, id token.ID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reset_token WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return token.ErrTokenDoesNotExist
	}
	return nil
}

func (r *PgxTokenRepository) DeleteAllForAccount(ctx context.Context, accountID account.ID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM reset_token WHERE account_id = $1`, int64(accountID))
	return err
}

func (r *PgxTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reset_token WHERE created_at <= $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (t token.ResetToken, err error) {
	err = row.Scan(&t.ID, &t.Key, &t.AccountID, &t.CreatedAt, &t.UserAgent, &t.IP)
	return t, err
}
