package service

import (
	"context"

	"github.com/artcove/artcove/internal/api/dto"
)

// AccountService exposes account reads with normalized balances
type AccountService interface {
	GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error)
	ListAccountPayments(ctx context.Context, accountID string) (*dto.ListPaymentsResponse, error)
}

type accountService struct {
	ServiceParams
}

// NewAccountService creates a new account service
func NewAccountService(params ServiceParams) AccountService {
	return &accountService{ServiceParams: params}
}

// GetAccount returns the account with its balance normalized on read, so
// legacy minor-unit balances are migrated before they reach a caller.
func (s *accountService) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	acct, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	acct, err = normalizeBalance(ctx, s.ServiceParams, acct)
	if err != nil {
		return nil, err
	}

	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) ListAccountPayments(ctx context.Context, accountID string) (*dto.ListPaymentsResponse, error) {
	if _, err := s.AccountRepo.Get(ctx, accountID); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = dto.NewPaymentResponse(p)
	}

	return &dto.ListPaymentsResponse{
		Items: items,
		Total: len(items),
	}, nil
}
