package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes receivable from payable invoices.
type InvoiceKind string

const (
	Receivable InvoiceKind = "AR"
	Payable    InvoiceKind = "AP"
)

// Invoice is a financial document denominated in a single currency.
// OutstandingAmount decreases monotonically as payment allocations are applied
// and never goes negative.
type Invoice struct {
	InvoiceID         string          `json:"invoiceID"` // Primary Key (UUID)
	Kind              InvoiceKind     `json:"kind"`
	CurrencyCode      string          `json:"currencyCode"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	InvoiceDate       time.Time       `json:"invoiceDate"`
	Description       string          `json:"description"`
	Status            DocumentStatus  `json:"status"`
	AuditFields
}
