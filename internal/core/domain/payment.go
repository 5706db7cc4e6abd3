package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money received (or paid) that is applied against invoices via
// allocations. The sum of its allocation amounts, in the payment's currency,
// never exceeds TotalAmount.
type Payment struct {
	PaymentID    string          `json:"paymentID"` // Primary Key (UUID)
	CurrencyCode string          `json:"currencyCode"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PaymentDate  time.Time       `json:"paymentDate"`
	Description  string          `json:"description"`
	Status       DocumentStatus  `json:"status"`
	AuditFields
}

// Allocation applies part of a payment's value against one invoice.
// Amount is in the payment's currency; InvoiceAmount is the same value
// expressed in the invoice's currency, because the invoice's outstanding
// balance is decremented in its own currency.
type Allocation struct {
	AllocationID  string          `json:"allocationID"` // Primary Key (UUID)
	PaymentID     string          `json:"paymentID"`
	InvoiceID     string          `json:"invoiceID"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceAmount decimal.Decimal `json:"invoiceAmount"`
	Rate          decimal.Decimal `json:"rate"` // invoice currency -> payment currency
	AuditFields
}
