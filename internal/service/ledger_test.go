package service

import (
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/artcove/artcove/internal/api/dto"
	"github.com/artcove/artcove/internal/domain/account"
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/testutil"
	"github.com/artcove/artcove/internal/types"
)

type LedgerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service LedgerService
	paypal  *fakePayPalClient
	acct    *account.Account
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceSuite))
}

func (s *LedgerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.paypal = newFakePayPalClient()
	s.service = NewLedgerService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		AccountRepo:  s.GetStores().AccountRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		PayPalClient: s.paypal,
	})

	s.acct = &account.Account{
		ID:        "acct_test",
		Name:      "Test Collector",
		Email:     "collector@example.com",
		Balance:   decimal.NewFromFloat(10),
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), s.acct))

	// provider fixtures: order O1 captured C1 for 5.00 GBP
	s.paypal.captures["C1"] = completedCapture("C1", "5.00", "GBP")
	s.paypal.orders["O1"] = completedOrder("O1", *completedCapture("C1", "5.00", "GBP"))
}

func (s *LedgerServiceSuite) topUpRequest() *dto.TopUpRequest {
	return &dto.TopUpRequest{
		AccountID: s.acct.ID,
		Amount:    5000, // minor units
		Currency:  "GBP",
		OrderID:   "O1",
		CaptureID: "C1",
	}
}

func (s *LedgerServiceSuite) TestTopUpCreditsBalanceOnce() {
	resp, err := s.service.SubmitTopUp(s.GetContext(), s.topUpRequest())
	s.NoError(err)
	s.False(resp.AlreadyProcessed)
	s.True(resp.NewBalance.Equal(decimal.NewFromFloat(15)), "expected 15, got %s", resp.NewBalance)
	s.NotEmpty(resp.PaymentID)

	recorded, err := s.GetStores().PaymentRepo.GetByGatewayPaymentID(
		s.GetContext(), types.PaymentGatewayPayPal, "O1")
	s.NoError(err)
	s.Equal(types.PaymentStatusCompleted, recorded.PaymentStatus)
	s.Equal("C1", recorded.Metadata["capture_id"])
	s.True(strings.HasPrefix(recorded.ReceiptNumber, types.SHORT_ID_PREFIX_RECEIPT))
	s.NotNil(recorded.VerifiedAt)
	s.True(recorded.Amount.Equal(decimal.NewFromInt(5000)))
}

func (s *LedgerServiceSuite) TestDuplicateSubmissionReturnsCurrentBalance() {
	first, err := s.service.SubmitTopUp(s.GetContext(), s.topUpRequest())
	s.NoError(err)
	providerCalls := s.paypal.captureCalls + s.paypal.orderCalls

	second, err := s.service.SubmitTopUp(s.GetContext(), s.topUpRequest())
	s.NoError(err)
	s.True(second.AlreadyProcessed)
	s.True(second.NewBalance.Equal(first.NewBalance))
	s.Equal(first.PaymentID, second.PaymentID)
	// the resubmission is answered from the ledger, not from the provider
	s.Equal(providerCalls, s.paypal.captureCalls+s.paypal.orderCalls)

	acct, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.acct.ID)
	s.NoError(err)
	s.True(acct.Balance.Equal(decimal.NewFromFloat(15)))
}

func (s *LedgerServiceSuite) TestConcurrentDuplicatesCreditOnce() {
	const workers = 8

	params := RecordPaymentParams{
		AccountID:        s.acct.ID,
		Gateway:          types.PaymentGatewayPayPal,
		AmountMinorUnits: decimal.NewFromInt(5000),
		Currency:         "GBP",
		GatewayPaymentID: "O1",
	}

	var wg sync.WaitGroup
	results := make([]*RecordPaymentResult, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.service.RecordVerifiedPayment(s.GetContext(), params)
		}(i)
	}
	wg.Wait()

	credited := 0
	for i := 0; i < workers; i++ {
		s.NoError(errs[i])
		if !results[i].AlreadyProcessed {
			credited++
		}
	}
	s.Equal(1, credited)

	acct, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.acct.ID)
	s.NoError(err)
	s.True(acct.Balance.Equal(decimal.NewFromFloat(15)), "expected 15, got %s", acct.Balance)
}

func (s *LedgerServiceSuite) TestLegacyBalanceNormalized() {
	legacy := &account.Account{
		ID:        "acct_legacy",
		Balance:   decimal.NewFromInt(40050), // minor units
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), legacy))

	normalized, err := s.service.NormalizeBalance(s.GetContext(), legacy)
	s.NoError(err)
	s.True(normalized.Balance.Equal(decimal.NewFromFloat(40.05)), "expected 40.05, got %s", normalized.Balance)

	// stable under repeated normalization
	again, err := s.service.NormalizeBalance(s.GetContext(), normalized)
	s.NoError(err)
	s.True(again.Balance.Equal(decimal.NewFromFloat(40.05)))

	// persisted
	stored, err := s.GetStores().AccountRepo.Get(s.GetContext(), legacy.ID)
	s.NoError(err)
	s.True(stored.Balance.Equal(decimal.NewFromFloat(40.05)))
}

func (s *LedgerServiceSuite) TestModernBalanceUntouched() {
	acct, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.acct.ID)
	s.NoError(err)

	normalized, err := s.service.NormalizeBalance(s.GetContext(), acct)
	s.NoError(err)
	s.True(normalized.Balance.Equal(decimal.NewFromFloat(10)))
}

func (s *LedgerServiceSuite) TestMinorUnitConversion() {
	s.paypal.captures["C2"] = completedCapture("C2", "40.05", "GBP")
	s.paypal.orders["O2"] = completedOrder("O2", *completedCapture("C2", "40.05", "GBP"))

	resp, err := s.service.SubmitTopUp(s.GetContext(), &dto.TopUpRequest{
		AccountID: s.acct.ID,
		Amount:    40050,
		Currency:  "GBP",
		OrderID:   "O2",
		CaptureID: "C2",
	})
	s.NoError(err)
	s.True(resp.NewBalance.Equal(decimal.NewFromFloat(50.05)), "expected 50.05, got %s", resp.NewBalance)
}

func (s *LedgerServiceSuite) TestAccountNotFound() {
	req := s.topUpRequest()
	req.AccountID = "acct_missing"

	_, err := s.service.SubmitTopUp(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
	// rejected before any provider traffic
	s.Zero(s.paypal.captureCalls)
}

func (s *LedgerServiceSuite) TestInvalidInputRejectedBeforeProviderCall() {
	req := s.topUpRequest()
	req.Amount = 0

	_, err := s.service.SubmitTopUp(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Zero(s.paypal.captureCalls)
	s.Zero(s.paypal.orderCalls)
}

func (s *LedgerServiceSuite) TestUnverifiedPaymentNotRecorded() {
	req := s.topUpRequest()
	req.Amount = 9000 // claims 9.00 against a 5.00 capture

	_, err := s.service.SubmitTopUp(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.GetStores().PaymentRepo.GetByGatewayPaymentID(
		s.GetContext(), types.PaymentGatewayPayPal, "O1")
	s.True(ierr.IsNotFound(err))

	acct, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.acct.ID)
	s.NoError(err)
	s.True(acct.Balance.Equal(decimal.NewFromFloat(10)))
}

func (s *LedgerServiceSuite) TestScenarioFiveThousandMinorUnits() {
	// claimed 5000 minor units GBP against capture {C1 COMPLETED 5.00 GBP}
	resp, err := s.service.SubmitTopUp(s.GetContext(), s.topUpRequest())
	s.NoError(err)
	s.False(resp.AlreadyProcessed)
	s.True(resp.NewBalance.Sub(decimal.NewFromFloat(10)).Equal(decimal.NewFromFloat(5)))
}
