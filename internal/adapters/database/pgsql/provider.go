package pgsql

import (
	portsrepo "github.com/finerp-io/finerp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository against one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:     NewPgxCurrencyRepository(pool),
		ExchangeRateRepo: NewPgxExchangeRateRepository(pool),
		AccountRepo:      NewPgxAccountRepository(pool),
		SegmentRepo:      NewPgxSegmentRepository(pool),
		InvoiceRepo:      NewPgxInvoiceRepository(pool),
		PaymentRepo:      NewPgxPaymentRepository(pool),
		UserRepo:         NewPgxUserRepository(pool),
	}
}
