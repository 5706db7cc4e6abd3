package repositories

import (
	"context"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	// FindInvoiceByID retrieves a single invoice.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoicesByIDs retrieves several invoices at once, keyed by ID.
	FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error)

	// FindInvoicesByIDsForUpdate retrieves invoices inside tx with row locks
	// held until the transaction ends. Concurrent allocation attempts against
	// the same invoice serialize on these locks.
	FindInvoicesByIDsForUpdate(ctx context.Context, tx pgx.Tx, invoiceIDs []string) (map[string]domain.Invoice, error)

	// ListOutstandingInvoices retrieves posted invoices with a positive
	// outstanding balance, the allocation candidate set.
	ListOutstandingInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error)

	// FindDistributionLines retrieves the distribution lines of a document.
	FindDistributionLines(ctx context.Context, documentID string) ([]domain.DistributionLine, error)
}

// InvoiceWriter defines write operations for invoices
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice together with its distribution lines.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.DistributionLine) error

	// ReplaceDistributionLines replaces a draft invoice's line set wholesale.
	ReplaceDistributionLines(ctx context.Context, invoiceID string, lines []domain.DistributionLine, updaterUserID string) error

	// UpdateInvoiceStatus transitions an invoice's lifecycle status.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.DocumentStatus, updaterUserID string) error

	// DecrementOutstanding reduces an invoice's outstanding balance, in the
	// invoice's own currency, inside tx.
	DecrementOutstanding(ctx context.Context, tx pgx.Tx, invoiceID string, amount decimal.Decimal, updaterUserID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
