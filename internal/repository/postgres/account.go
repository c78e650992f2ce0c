package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/artcove/artcove/internal/domain/account"
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/logger"
	"github.com/artcove/artcove/internal/types"
)

type accountRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewAccountRepository creates a Postgres-backed account repository
func NewAccountRepository(db *sqlx.DB, log *logger.Logger) account.Repository {
	return &accountRepository{db: db, log: log}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO accounts (id, name, email, balance, status, created_at, updated_at, created_by, updated_by)
		VALUES (:id, :name, :email, :balance, :status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("An account with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create account").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	var a account.Account
	query := `SELECT * FROM accounts WHERE id = $1 AND status != $2`

	err := r.db.GetContext(ctx, &a, query, id, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("account not found").
			WithHintf("Account %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch account").
			Mark(ierr.ErrDatabase)
	}
	return &a, nil
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE accounts
		SET name = :name, email = :email, balance = :balance,
		    status = :status, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update account").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("account not found").
			WithHintf("Account %s was not found", a.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *accountRepository) CreditBalance(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	// Single-statement increment so two concurrent credits can never lose
	// an update; the database serializes the balance mutation.
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = $2
		WHERE id = $3
		RETURNING balance`

	var newBalance decimal.Decimal
	err := r.db.QueryRowxContext(ctx, query, amount, time.Now().UTC(), id).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return decimal.Zero, ierr.NewError("account not found").
			WithHintf("Account %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHint("Failed to credit account balance").
			Mark(ierr.ErrDatabase)
	}
	return newBalance, nil
}
