package services

import (
	portsrepo "github.com/finerp-io/finerp_backend/internal/core/ports/repositories"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Currency comes first since rate resolution and document validation
	// depend on the currency catalog.
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Segment = NewSegmentService(repos.SegmentRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.AccountRepo, repos.SegmentRepo, container.Currency)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.InvoiceRepo, repos.ExchangeRateRepo, container.Currency)
	container.User = NewUserService(repos.UserRepo)

	return container
}
