package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/artcove/artcove/internal/config"
	"github.com/artcove/artcove/internal/domain/account"
	"github.com/artcove/artcove/internal/domain/payment"
	"github.com/artcove/artcove/internal/logger"
	"github.com/artcove/artcove/internal/types"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	AccountRepo account.Repository
	PaymentRepo payment.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := &config.Configuration{
		Logging: config.LoggingConfig{
			Level: types.LogLevelError,
		},
		PayPal: config.PayPalConfig{
			Mode:    "sandbox",
			BaseURL: "https://api-m.sandbox.paypal.com",
		},
	}
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = types.SetUserID(context.Background(), "user_test")
	s.stores = Stores{
		AccountRepo: NewInMemoryAccountStore(),
		PaymentRepo: NewInMemoryPaymentStore(),
	}
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	if store, ok := s.stores.AccountRepo.(*InMemoryAccountStore); ok {
		store.Clear()
	}
	if store, ok := s.stores.PaymentRepo.(*InMemoryPaymentStore); ok {
		store.Clear()
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the suite's reference time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
