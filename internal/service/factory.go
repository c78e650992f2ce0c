package service

import (
	"github.com/artcove/artcove/internal/config"
	"github.com/artcove/artcove/internal/domain/account"
	"github.com/artcove/artcove/internal/domain/payment"
	"github.com/artcove/artcove/internal/logger"
	"github.com/artcove/artcove/internal/paypal"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	AccountRepo account.Repository
	PaymentRepo payment.Repository

	// Provider clients
	PayPalClient paypal.Client
}

// NewServiceParams assembles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	accountRepo account.Repository,
	paymentRepo payment.Repository,
	paypalClient paypal.Client,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		AccountRepo:  accountRepo,
		PaymentRepo:  paymentRepo,
		PayPalClient: paypalClient,
	}
}
