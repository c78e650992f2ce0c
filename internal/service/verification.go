package service

import (
	"context"

	"github.com/shopspring/decimal"

	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/paypal"
	"github.com/artcove/artcove/internal/types"
)

// VerificationService confirms a claimed gateway payment against PayPal
type VerificationService interface {
	// VerifyPayment runs the two-strategy verification protocol:
	// capture-first when a capture id is supplied, falling back to the
	// order's first capture otherwise or when the capture lookup hits a
	// recoverable failure. A payment the provider reports as incomplete or
	// mismatched is a normal Verified=false result, never an error.
	VerifyPayment(ctx context.Context, params VerifyPaymentParams) (*VerificationResult, error)
}

// VerifyPaymentParams identifies the provider resources to verify and the
// claimed amount to verify them against
type VerifyPaymentParams struct {
	OrderID   string
	CaptureID string
	// ExpectedAmount is the claimed amount in major currency units
	ExpectedAmount decimal.Decimal
	Currency       string
}

// VerificationResult is the ephemeral outcome of a verification attempt
type VerificationResult struct {
	Verified      bool
	FailureReason string
	Capture       *paypal.Capture
	Order         *paypal.Order
}

type verificationService struct {
	ServiceParams
}

// NewVerificationService creates a new verification service
func NewVerificationService(params ServiceParams) VerificationService {
	return &verificationService{ServiceParams: params}
}

func (s *verificationService) VerifyPayment(ctx context.Context, params VerifyPaymentParams) (*VerificationResult, error) {
	if params.OrderID == "" {
		return nil, ierr.NewError("order id is required").
			WithHint("The provider order id is required").
			Mark(ierr.ErrValidation)
	}

	captureNotFound := false

	// Strategy 1: direct capture lookup. Authoritative when it succeeds.
	if params.CaptureID != "" {
		capture, err := s.PayPalClient.GetCapture(ctx, params.CaptureID)
		switch {
		case err == nil:
			result, cerr := s.evaluateCapture(capture, params)
			if cerr != nil {
				return nil, cerr
			}
			if result.Verified {
				// Order snapshot is diagnostics only; its failure does not
				// invalidate a verified capture.
				if order, oerr := s.PayPalClient.GetOrder(ctx, params.OrderID); oerr == nil {
					result.Order = order
				} else {
					s.Logger.Debugw("diagnostic order fetch failed after capture verification",
						"order_id", params.OrderID,
						"error", oerr)
				}
			}
			return result, nil
		case ierr.IsNotFound(err):
			captureNotFound = true
			s.Logger.Warnw("capture not found, falling back to order verification",
				"capture_id", params.CaptureID,
				"order_id", params.OrderID)
		case ierr.IsServiceUnavailable(err):
			s.Logger.Warnw("capture lookup exhausted retries, falling back to order verification",
				"capture_id", params.CaptureID,
				"order_id", params.OrderID)
		default:
			// Auth misconfiguration and unexpected provider errors are
			// terminal; retrying via the order would hit the same wall.
			return nil, err
		}
	}

	// Strategy 2: derive the capture from the order.
	order, err := s.PayPalClient.GetOrder(ctx, params.OrderID)
	if err != nil {
		if ierr.IsNotFound(err) && captureNotFound {
			// Both lookups 404ed. Almost always sandbox credentials against
			// a live payment (or vice versa), or the wrong credential app;
			// distinguished from a plain not-found so operators get
			// actionable guidance.
			return nil, ierr.NewError("paypal order and capture not found").
				WithHint("Neither the order nor the capture exists for the configured PayPal credentials; check sandbox/live mode and that the credential app matches the checkout").
				WithReportableDetails(map[string]any{
					"order_id":   params.OrderID,
					"capture_id": params.CaptureID,
					"mode":       s.Config.PayPal.Mode,
				}).
				Mark(ierr.ErrEnvironmentMismatch)
		}
		return nil, err
	}

	if order.Status != paypal.OrderStatusCompleted {
		return &VerificationResult{
			Verified:      false,
			FailureReason: "order is not completed",
			Order:         order,
		}, nil
	}

	capture := order.FirstCapture()
	if capture == nil {
		return &VerificationResult{
			Verified:      false,
			FailureReason: "order has no captures",
			Order:         order,
		}, nil
	}

	result, cerr := s.evaluateCapture(capture, params)
	if cerr != nil {
		return nil, cerr
	}
	result.Order = order
	return result, nil
}

// evaluateCapture applies the status, currency and amount checks shared by
// both verification strategies
func (s *verificationService) evaluateCapture(capture *paypal.Capture, params VerifyPaymentParams) (*VerificationResult, error) {
	if !capture.IsCompleted() {
		return &VerificationResult{
			Verified:      false,
			FailureReason: "capture is not completed",
			Capture:       capture,
		}, nil
	}

	if !types.IsMatchingCurrency(capture.Amount.CurrencyCode, params.Currency) {
		s.Logger.Infow("capture currency mismatch",
			"capture_id", capture.ID,
			"expected", params.Currency,
			"captured", capture.Amount.CurrencyCode)
		return &VerificationResult{
			Verified:      false,
			FailureReason: "currency mismatch",
			Capture:       capture,
		}, nil
	}

	captured, err := capture.Amount.Decimal()
	if err != nil {
		return nil, err
	}

	if captured.Sub(params.ExpectedAmount).Abs().GreaterThan(types.AmountTolerance) {
		s.Logger.Infow("capture amount mismatch",
			"capture_id", capture.ID,
			"expected", params.ExpectedAmount,
			"captured", captured)
		return &VerificationResult{
			Verified:      false,
			FailureReason: "amount mismatch",
			Capture:       capture,
		}, nil
	}

	return &VerificationResult{
		Verified: true,
		Capture:  capture,
	}, nil
}
