package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/artcove/artcove/internal/domain/account"
	"github.com/artcove/artcove/internal/domain/payment"
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/testutil"
	"github.com/artcove/artcove/internal/types"
)

type AccountServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AccountService
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAccountService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		AccountRepo:  s.GetStores().AccountRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		PayPalClient: newFakePayPalClient(),
	})
}

func (s *AccountServiceSuite) TestGetAccountNormalizesLegacyBalance() {
	legacy := &account.Account{
		ID:        "acct_legacy",
		Balance:   decimal.NewFromInt(40050),
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), legacy))

	resp, err := s.service.GetAccount(s.GetContext(), "acct_legacy")
	s.NoError(err)
	s.True(resp.Balance.Equal(decimal.NewFromFloat(40.05)), "expected 40.05, got %s", resp.Balance)

	// the migration is persisted, not just formatted
	stored, err := s.GetStores().AccountRepo.Get(s.GetContext(), "acct_legacy")
	s.NoError(err)
	s.True(stored.Balance.Equal(decimal.NewFromFloat(40.05)))
}

func (s *AccountServiceSuite) TestGetAccountNotFound() {
	_, err := s.service.GetAccount(s.GetContext(), "acct_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *AccountServiceSuite) TestListAccountPayments() {
	acct := &account.Account{
		ID:        "acct_test",
		Balance:   decimal.NewFromFloat(10),
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), acct))

	p := &payment.Payment{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		AccountID:        acct.ID,
		Gateway:          types.PaymentGatewayPayPal,
		GatewayPaymentID: "O1",
		Amount:           decimal.NewFromInt(5000),
		Currency:         "GBP",
		PaymentStatus:    types.PaymentStatusCompleted,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PaymentRepo.Create(s.GetContext(), p))

	resp, err := s.service.ListAccountPayments(s.GetContext(), acct.ID)
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal("O1", resp.Items[0].GatewayPaymentID)
}
