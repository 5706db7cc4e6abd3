package services

import (
	"context"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/finerp-io/finerp_backend/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice together with its distribution lines.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, []domain.DistributionLine, error)

	// ListOutstandingInvoices retrieves posted invoices with a positive
	// outstanding balance.
	ListOutstandingInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	// CreateInvoice validates the draft's distribution against the invoice
	// total and persists it.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, []domain.DistributionLine, error)

	// ReplaceInvoiceLines replaces a draft invoice's lines wholesale after
	// revalidation.
	ReplaceInvoiceLines(ctx context.Context, invoiceID string, req dto.ReplaceInvoiceLinesRequest, updaterUserID string) ([]domain.DistributionLine, error)

	// PostInvoice transitions a draft invoice to POSTED after a final
	// validation pass. Posted invoices are immutable.
	PostInvoice(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
