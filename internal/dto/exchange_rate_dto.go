package dto

import (
	"time"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for creating a new exchange rate quote.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	RateType         domain.RateType `json:"rateType" binding:"required,ratetype"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
}

// ExchangeRateResponse defines the structure for API responses containing quote details.
type ExchangeRateResponse struct {
	QuoteID          string          `json:"quoteID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	RateType         domain.RateType `json:"rateType"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ConvertResponse carries a resolved conversion between two currencies.
type ConvertResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	RateType         domain.RateType `json:"rateType"`
	Date             time.Time       `json:"date"`
	Rate             decimal.Decimal `json:"rate"`
}

// ToExchangeRateResponse converts a domain.ExchangeRateQuote to its response DTO.
func ToExchangeRateResponse(quote *domain.ExchangeRateQuote) ExchangeRateResponse {
	return ExchangeRateResponse{
		QuoteID:          quote.QuoteID,
		FromCurrencyCode: quote.FromCurrencyCode,
		ToCurrencyCode:   quote.ToCurrencyCode,
		RateType:         quote.RateType,
		Rate:             quote.Rate,
		DateEffective:    quote.DateEffective,
		IsActive:         quote.IsActive,
		CreatedAt:        quote.CreatedAt,
		CreatedBy:        quote.CreatedBy,
	}
}

// ToListExchangeRateResponse converts a slice of quotes to response DTOs.
func ToListExchangeRateResponse(quotes []domain.ExchangeRateQuote) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToExchangeRateResponse(&quotes[i])
	}
	return responses
}
