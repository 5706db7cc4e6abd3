package repositories

import (
	"context"
	"time"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate quotes
type ExchangeRateReader interface {
	// FindQuoteByID retrieves a single quote by its ID.
	FindQuoteByID(ctx context.Context, quoteID string) (*domain.ExchangeRateQuote, error)

	// ListQuotesForDate retrieves every active quote effective on the given date.
	// The resolver snapshot is built from this set.
	ListQuotesForDate(ctx context.Context, date time.Time) ([]domain.ExchangeRateQuote, error)

	// ListQuotesForPair retrieves quotes for a currency pair, newest first.
	ListQuotesForPair(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRateQuote, error)
}

// ExchangeRateWriter defines write operations for exchange rate quotes
type ExchangeRateWriter interface {
	// SaveQuote persists a new quote. Quotes are never updated in place;
	// corrections create a new quote and deactivate the old one.
	SaveQuote(ctx context.Context, quote domain.ExchangeRateQuote) error

	// DeactivateQuote marks a quote inactive so it no longer resolves.
	DeactivateQuote(ctx context.Context, quoteID string, updaterUserID string) error
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
