package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artcove/artcove/internal/api/dto"
	"github.com/artcove/artcove/internal/domain/account"
	"github.com/artcove/artcove/internal/domain/payment"
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/types"
)

// LedgerService records verified gateway payments and credits account
// balances exactly once per external payment
type LedgerService interface {
	// SubmitTopUp verifies a claimed gateway payment and credits the
	// account. Duplicate submissions return success with the current
	// balance and AlreadyProcessed set.
	SubmitTopUp(ctx context.Context, req *dto.TopUpRequest) (*dto.TopUpResponse, error)

	// RecordVerifiedPayment performs the idempotent record-and-credit
	// transaction for an already-verified payment.
	RecordVerifiedPayment(ctx context.Context, params RecordPaymentParams) (*RecordPaymentResult, error)

	// NormalizeBalance migrates a legacy minor-unit balance to major units,
	// persisting the corrected value. Safe to invoke concurrently with
	// itself; it is its own fixed point once the balance is migrated.
	NormalizeBalance(ctx context.Context, acct *account.Account) (*account.Account, error)
}

// RecordPaymentParams carries an already-verified payment into the ledger
type RecordPaymentParams struct {
	AccountID string
	Gateway   types.PaymentGateway
	// AmountMinorUnits is the claimed amount in minor currency units
	AmountMinorUnits decimal.Decimal
	Currency         string
	GatewayPaymentID string
	Metadata         types.Metadata
}

// RecordPaymentResult is the outcome of an idempotent recording attempt
type RecordPaymentResult struct {
	PaymentID        string
	NewBalance       decimal.Decimal
	AlreadyProcessed bool
}

type ledgerService struct {
	ServiceParams
	verifier VerificationService
}

// NewLedgerService creates a new ledger service
func NewLedgerService(params ServiceParams) LedgerService {
	return &ledgerService{
		ServiceParams: params,
		verifier:      NewVerificationService(params),
	}
}

func (s *ledgerService) SubmitTopUp(ctx context.Context, req *dto.TopUpRequest) (*dto.TopUpResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.AccountRepo.Get(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	acct, err = s.NormalizeBalance(ctx, acct)
	if err != nil {
		return nil, err
	}

	// Resubmissions of an already-recorded order are answered from the
	// ledger without any provider traffic. Racing first submissions still
	// fall through to the unique constraint in RecordVerifiedPayment.
	existing, err := s.PaymentRepo.GetByGatewayPaymentID(ctx, types.PaymentGatewayPayPal, req.OrderID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if err == nil {
		s.Logger.Infow("gateway payment already recorded, skipping verification",
			"gateway_payment_id", req.OrderID,
			"payment_id", existing.ID)
		return &dto.TopUpResponse{
			PaymentID:        existing.ID,
			NewBalance:       acct.Balance,
			AlreadyProcessed: true,
		}, nil
	}

	claimedMinor := decimal.NewFromInt(req.Amount)
	expectedMajor := claimedMinor.Div(types.MinorUnitFactorDecimal)

	result, err := s.verifier.VerifyPayment(ctx, VerifyPaymentParams{
		OrderID:        req.OrderID,
		CaptureID:      req.CaptureID,
		ExpectedAmount: expectedMajor,
		Currency:       req.Currency,
	})
	if err != nil {
		return nil, err
	}
	if !result.Verified {
		return nil, ierr.NewError("payment not verified").
			WithHintf("PayPal did not confirm this payment: %s", result.FailureReason).
			WithReportableDetails(map[string]any{
				"order_id": req.OrderID,
				"reason":   result.FailureReason,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	metadata := types.Metadata{
		payment.MetadataKeyVerified:    "true",
		payment.MetadataKeyEnvironment: s.Config.PayPal.Mode,
	}
	if result.Capture != nil {
		metadata[payment.MetadataKeyCaptureID] = result.Capture.ID
	}

	recorded, err := s.RecordVerifiedPayment(ctx, RecordPaymentParams{
		AccountID:        req.AccountID,
		Gateway:          types.PaymentGatewayPayPal,
		AmountMinorUnits: claimedMinor,
		Currency:         req.Currency,
		GatewayPaymentID: req.OrderID,
		Metadata:         metadata,
	})
	if err != nil {
		return nil, err
	}

	return &dto.TopUpResponse{
		PaymentID:        recorded.PaymentID,
		NewBalance:       recorded.NewBalance,
		AlreadyProcessed: recorded.AlreadyProcessed,
	}, nil
}

func (s *ledgerService) RecordVerifiedPayment(ctx context.Context, params RecordPaymentParams) (*RecordPaymentResult, error) {
	// Pre-check by (gateway, external id). Racy on its own; it only
	// short-circuits the common non-racing resubmission so no insert is
	// attempted. The unique constraint below is the load-bearing guard.
	existing, err := s.PaymentRepo.GetByGatewayPaymentID(ctx, params.Gateway, params.GatewayPaymentID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if err == nil {
		balance, berr := s.currentBalance(ctx, params.AccountID)
		if berr != nil {
			return nil, berr
		}
		s.Logger.Infow("gateway payment already recorded, returning current balance",
			"gateway", params.Gateway,
			"gateway_payment_id", params.GatewayPaymentID,
			"payment_id", existing.ID)
		return &RecordPaymentResult{
			PaymentID:        existing.ID,
			NewBalance:       balance,
			AlreadyProcessed: true,
		}, nil
	}

	majorAmount := params.AmountMinorUnits.Div(types.MinorUnitFactorDecimal)
	now := time.Now().UTC()

	record := &payment.Payment{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		AccountID:        params.AccountID,
		Gateway:          params.Gateway,
		GatewayPaymentID: params.GatewayPaymentID,
		ReceiptNumber:    types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
		Amount:           params.AmountMinorUnits,
		Currency:         params.Currency,
		PaymentStatus:    types.PaymentStatusCompleted,
		Metadata:         params.Metadata,
		VerifiedAt:       &now,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}

	if err := s.PaymentRepo.Create(ctx, record); err != nil {
		if ierr.IsAlreadyExists(err) {
			// Lost the race against a concurrent submission of the same
			// external payment. The winner credited the balance; do not
			// credit again.
			balance, berr := s.currentBalance(ctx, params.AccountID)
			if berr != nil {
				return nil, berr
			}
			s.Logger.Infow("duplicate gateway payment rejected by unique constraint",
				"gateway", params.Gateway,
				"gateway_payment_id", params.GatewayPaymentID)
			return &RecordPaymentResult{
				NewBalance:       balance,
				AlreadyProcessed: true,
			}, nil
		}
		return nil, err
	}

	newBalance, err := s.AccountRepo.CreditBalance(ctx, params.AccountID, majorAmount)
	if err != nil {
		// The payment record committed but the credit did not: the ledger
		// now holds a recorded payment with an uncredited balance, which
		// needs manual reconciliation.
		s.Logger.Errorw("payment recorded but balance credit failed, manual reconciliation required",
			"payment_id", record.ID,
			"account_id", params.AccountID,
			"amount", majorAmount,
			"error", err)
		return nil, ierr.WithError(err).
			WithHint("Payment was recorded but the balance update failed; contact support").
			WithReportableDetails(map[string]any{
				"payment_id": record.ID,
			}).
			Mark(ierr.ErrDatabase)
	}

	s.Logger.Infow("credited verified gateway payment",
		"payment_id", record.ID,
		"account_id", params.AccountID,
		"gateway", params.Gateway,
		"gateway_payment_id", params.GatewayPaymentID,
		"amount", majorAmount,
		"new_balance", newBalance)

	return &RecordPaymentResult{
		PaymentID:  record.ID,
		NewBalance: newBalance,
	}, nil
}

func (s *ledgerService) NormalizeBalance(ctx context.Context, acct *account.Account) (*account.Account, error) {
	return normalizeBalance(ctx, s.ServiceParams, acct)
}

// currentBalance reads the account's balance, normalizing legacy values on
// the way out
func (s *ledgerService) currentBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	acct, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	acct, err = s.NormalizeBalance(ctx, acct)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

// normalizeBalance migrates a legacy minor-unit balance in place. Shared by
// the ledger recorder and the account read path. Last write wins under
// concurrent invocation; the function is its own fixed point once the
// balance is at or below the threshold.
func normalizeBalance(ctx context.Context, params ServiceParams, acct *account.Account) (*account.Account, error) {
	if !acct.HasLegacyBalance() {
		return acct, nil
	}

	original := acct.Balance
	acct.Balance = acct.Balance.Div(types.MinorUnitFactorDecimal)
	if err := params.AccountRepo.Update(ctx, acct); err != nil {
		return nil, err
	}

	params.Logger.Infow("migrated legacy minor-unit balance",
		"account_id", acct.ID,
		"from", original,
		"to", acct.Balance)
	return acct, nil
}
