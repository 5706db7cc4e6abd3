package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateType distinguishes the kind of market quote an exchange rate represents.
type RateType string

const (
	RateTypeSpot    RateType = "SPOT"
	RateTypeAverage RateType = "AVERAGE"
	RateTypeFixed   RateType = "FIXED"
	RateTypeClosing RateType = "CLOSING"
)

// IsValid reports whether the rate type is one of the known kinds.
func (rt RateType) IsValid() bool {
	switch rt {
	case RateTypeSpot, RateTypeAverage, RateTypeFixed, RateTypeClosing:
		return true
	}
	return false
}

// ExchangeRateQuote asserts that 1 unit of From equals Rate units of To on the
// effective date. Quotes referenced by posted documents are immutable; a
// correction is a new quote, so (from, to, date, type) is not assumed unique.
type ExchangeRateQuote struct {
	QuoteID          string          `json:"quoteID"` // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	RateType         RateType        `json:"rateType"`
	Rate             decimal.Decimal `json:"rate"` // Strictly positive
	DateEffective    time.Time       `json:"dateEffective"`
	IsActive         bool            `json:"isActive"`
	AuditFields
}
