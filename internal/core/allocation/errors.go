package allocation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Reason codes carried by rejections, machine-checkable by callers that
// render user-facing messages.
const (
	ReasonUnknownInvoice      = "UNKNOWN_INVOICE"
	ReasonMissingExchangeRate = "MISSING_EXCHANGE_RATE"
	ReasonExceedsOutstanding  = "EXCEEDS_OUTSTANDING"
	ReasonExceedsPaymentTotal = "EXCEEDS_PAYMENT_TOTAL"
)

// ErrMalformedInput marks request data the engine cannot interpret at all,
// e.g. a non-positive or duplicate allocation request. These are fatal to the
// operation, distinct from the expected user-input rejections below.
var ErrMalformedInput = errors.New("malformed allocation input")

// UnknownInvoiceError rejects an allocation request naming an invoice that is
// not among the candidate invoices.
type UnknownInvoiceError struct {
	InvoiceID string
}

func (e *UnknownInvoiceError) Reason() string { return ReasonUnknownInvoice }

func (e *UnknownInvoiceError) Error() string {
	return fmt.Sprintf("invoice %s is not an allocation candidate", e.InvoiceID)
}

// MissingExchangeRateError rejects an allocation whose invoice currency cannot
// be converted into the payment currency for the payment date. It is a hard
// failure; a missing rate is never treated as a rate of 1.
type MissingExchangeRateError struct {
	InvoiceID        string
	FromCurrencyCode string
	ToCurrencyCode   string
}

func (e *MissingExchangeRateError) Reason() string { return ReasonMissingExchangeRate }

func (e *MissingExchangeRateError) Error() string {
	return fmt.Sprintf("no exchange rate from %s to %s for invoice %s",
		e.FromCurrencyCode, e.ToCurrencyCode, e.InvoiceID)
}

// ExceedsOutstandingError rejects an allocation larger than the invoice's
// outstanding balance expressed in the payment currency.
type ExceedsOutstandingError struct {
	InvoiceID  string
	Requested  decimal.Decimal
	MaxAllowed decimal.Decimal
}

func (e *ExceedsOutstandingError) Reason() string { return ReasonExceedsOutstanding }

func (e *ExceedsOutstandingError) Error() string {
	return fmt.Sprintf("allocation of %s against invoice %s exceeds outstanding; at most %s allowed",
		e.Requested, e.InvoiceID, e.MaxAllowed)
}

// ExceedsPaymentTotalError rejects a request set whose combined amount exceeds
// the payment total. Under-allocation is allowed; over-allocation is not.
type ExceedsPaymentTotalError struct {
	TotalRequested decimal.Decimal
	PaymentAmount  decimal.Decimal
}

func (e *ExceedsPaymentTotalError) Reason() string { return ReasonExceedsPaymentTotal }

func (e *ExceedsPaymentTotalError) Error() string {
	return fmt.Sprintf("requested allocations total %s exceeds payment amount %s",
		e.TotalRequested, e.PaymentAmount)
}
