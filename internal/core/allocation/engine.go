package allocation

import (
	"errors"
	"fmt"
	"time"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/finerp-io/finerp_backend/internal/core/rates"
	"github.com/shopspring/decimal"
)

// epsilon tolerates one minor unit of rounding noise in converted
// comparisons. All arithmetic is decimal, so this stays small and meaningful.
var epsilon = decimal.New(1, -2) // 0.01

// PaymentInput is the payment being applied.
type PaymentInput struct {
	Amount       decimal.Decimal
	CurrencyCode string
	Date         time.Time
}

// Candidate is an outstanding invoice eligible for allocation. Outstanding is
// in the invoice's own currency.
type Candidate struct {
	InvoiceID    string
	Outstanding  decimal.Decimal
	CurrencyCode string
}

// Request asks to apply Amount, in the payment's currency, against one invoice.
type Request struct {
	InvoiceID string
	Amount    decimal.Decimal
}

// Input bundles everything Allocate needs. RateType selects which quotes the
// cross-currency conversions use, typically SPOT.
type Input struct {
	Payment    PaymentInput
	Candidates []Candidate
	Requests   []Request
	RateType   domain.RateType
}

// Line is one validated allocation. Amount is in the payment currency;
// InvoiceAmount is the back-converted value (Amount / Rate) in the invoice
// currency, since the invoice's outstanding is decremented in its own currency.
type Line struct {
	InvoiceID     string
	Amount        decimal.Decimal
	InvoiceAmount decimal.Decimal
	Rate          decimal.Decimal
}

// Plan is a fully validated allocation of a payment across invoices.
type Plan struct {
	Lines          []Line
	TotalAllocated decimal.Decimal
	Remaining      decimal.Decimal
}

// Allocate validates the requested allocations against the candidate invoices
// and produces a plan, or the first rejection encountered. Checks run in a
// fixed order per request so each failure carries one precise reason:
//
//  1. the invoice must be a known candidate,
//  2. a rate from the invoice currency to the payment currency must resolve
//     for the payment date,
//  3. the requested amount must not exceed the converted outstanding balance,
//
// and across all requests the total must not exceed the payment amount.
// Under-allocation is allowed; a payment need not be fully applied at once.
//
// Allocate is pure: it reads only its arguments and the snapshot.
func Allocate(in Input, snap *rates.Snapshot) (*Plan, error) {
	byID := make(map[string]Candidate, len(in.Candidates))
	for _, c := range in.Candidates {
		byID[c.InvoiceID] = c
	}

	seen := make(map[string]bool, len(in.Requests))
	plan := &Plan{
		Lines:          make([]Line, 0, len(in.Requests)),
		TotalAllocated: decimal.Zero,
	}

	for _, req := range in.Requests {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: requested amount %s for invoice %s must be positive",
				ErrMalformedInput, req.Amount, req.InvoiceID)
		}
		if seen[req.InvoiceID] {
			return nil, fmt.Errorf("%w: invoice %s requested more than once",
				ErrMalformedInput, req.InvoiceID)
		}
		seen[req.InvoiceID] = true

		inv, ok := byID[req.InvoiceID]
		if !ok {
			return nil, &UnknownInvoiceError{InvoiceID: req.InvoiceID}
		}

		rate, err := snap.Resolve(inv.CurrencyCode, in.Payment.CurrencyCode, in.Payment.Date, in.RateType)
		if err != nil {
			if errors.Is(err, rates.ErrRateNotFound) {
				return nil, &MissingExchangeRateError{
					InvoiceID:        inv.InvoiceID,
					FromCurrencyCode: inv.CurrencyCode,
					ToCurrencyCode:   in.Payment.CurrencyCode,
				}
			}
			return nil, err
		}

		convertedOutstanding := inv.Outstanding.Mul(rate)
		if req.Amount.GreaterThan(convertedOutstanding.Add(epsilon)) {
			return nil, &ExceedsOutstandingError{
				InvoiceID:  inv.InvoiceID,
				Requested:  req.Amount,
				MaxAllowed: convertedOutstanding,
			}
		}

		plan.Lines = append(plan.Lines, Line{
			InvoiceID:     inv.InvoiceID,
			Amount:        req.Amount,
			InvoiceAmount: req.Amount.Div(rate),
			Rate:          rate,
		})
		plan.TotalAllocated = plan.TotalAllocated.Add(req.Amount)
	}

	if plan.TotalAllocated.GreaterThan(in.Payment.Amount.Add(epsilon)) {
		return nil, &ExceedsPaymentTotalError{
			TotalRequested: plan.TotalAllocated,
			PaymentAmount:  in.Payment.Amount,
		}
	}

	plan.Remaining = in.Payment.Amount.Sub(plan.TotalAllocated)
	return plan, nil
}
