package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/artcove/artcove/internal/domain/payment"
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/logger"
	"github.com/artcove/artcove/internal/types"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

type paymentRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPaymentRepository creates a Postgres-backed payment repository
func NewPaymentRepository(db *sqlx.DB, log *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, log: log}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO payments (id, account_id, gateway, gateway_payment_id, receipt_number,
		                      amount, currency, payment_status, metadata, verified_at,
		                      status, created_at, updated_at, created_by, updated_by)
		VALUES (:id, :account_id, :gateway, :gateway_payment_id, :receipt_number,
		        :amount, :currency, :payment_status, :metadata, :verified_at,
		        :status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		// The ux_payments_gateway_payment index firing here is the
		// load-bearing idempotency guard; callers convert it into an
		// already-processed outcome.
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("This gateway payment has already been recorded").
				WithReportableDetails(map[string]any{
					"gateway":            p.Gateway,
					"gateway_payment_id": p.GatewayPaymentID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to record payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	query := `SELECT * FROM payments WHERE id = $1 AND status != $2`

	err := r.db.GetContext(ctx, &p, query, id, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("payment not found").
			WithHintf("Payment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) GetByGatewayPaymentID(ctx context.Context, gateway types.PaymentGateway, gatewayPaymentID string) (*payment.Payment, error) {
	var p payment.Payment
	query := `SELECT * FROM payments WHERE gateway = $1 AND gateway_payment_id = $2`

	err := r.db.GetContext(ctx, &p, query, gateway, gatewayPaymentID)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("payment not found").
			WithHintf("No payment recorded for %s order %s", gateway, gatewayPaymentID).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) ListByAccount(ctx context.Context, accountID string) ([]*payment.Payment, error) {
	payments := make([]*payment.Payment, 0)
	query := `SELECT * FROM payments WHERE account_id = $1 AND status != $2 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &payments, query, accountID, types.StatusDeleted); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if ierr.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
