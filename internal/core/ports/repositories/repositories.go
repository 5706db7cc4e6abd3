package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CurrencyRepo     CurrencyRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	AccountRepo      AccountRepositoryFacade
	SegmentRepo      SegmentRepositoryFacade
	InvoiceRepo      InvoiceRepositoryWithTx
	PaymentRepo      PaymentRepositoryWithTx
	UserRepo         UserRepositoryFacade
}
