package services

import (
	"context"
	"time"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc defines read operations for exchange rate quotes
type ExchangeRateReaderSvc interface {
	// ListQuotesForPair retrieves quotes for a currency pair, newest first.
	ListQuotesForPair(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRateQuote, error)

	// ResolveRate answers what 1 unit of from is worth in to on the given
	// date, via direct, inverse, or base-triangulated quotes.
	ResolveRate(ctx context.Context, fromCode, toCode string, date time.Time, rateType domain.RateType) (decimal.Decimal, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate quotes
type ExchangeRateWriterSvc interface {
	// CreateQuote persists a new exchange rate quote.
	CreateQuote(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRateQuote, error)

	// DeactivateQuote marks a quote inactive; quotes are never edited in place.
	DeactivateQuote(ctx context.Context, quoteID string, updaterUserID string) error
}

// ExchangeRateSvcFacade combines all exchange rate service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
