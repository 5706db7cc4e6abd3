package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portsrepo "github.com/finerp-io/finerp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExchangeRateRepository struct {
	pool *pgxpool.Pool
}

// NewPgxExchangeRateRepository creates a new repository for exchange rate quotes.
func NewPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{pool: pool}
}

const quoteColumns = `quote_id, from_currency_code, to_currency_code, rate_type, rate, date_effective, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanQuote(row pgx.Row) (domain.ExchangeRateQuote, error) {
	var quote domain.ExchangeRateQuote
	err := row.Scan(
		&quote.QuoteID,
		&quote.FromCurrencyCode,
		&quote.ToCurrencyCode,
		&quote.RateType,
		&quote.Rate,
		&quote.DateEffective,
		&quote.IsActive,
		&quote.CreatedAt,
		&quote.CreatedBy,
		&quote.LastUpdatedAt,
		&quote.LastUpdatedBy,
	)
	return quote, err
}

// SaveQuote inserts a new quote. Quotes are never updated in place;
// corrections create a new quote and deactivate the old one.
func (r *PgxExchangeRateRepository) SaveQuote(ctx context.Context, quote domain.ExchangeRateQuote) error {
	query := `
		INSERT INTO exchange_rate_quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		quote.QuoteID,
		quote.FromCurrencyCode,
		quote.ToCurrencyCode,
		quote.RateType,
		quote.Rate,
		quote.DateEffective,
		quote.IsActive,
		quote.CreatedAt,
		quote.CreatedBy,
		quote.LastUpdatedAt,
		quote.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate quote %s: %w", quote.QuoteID, err)
	}
	return nil
}

// DeactivateQuote marks a quote inactive so it no longer resolves.
func (r *PgxExchangeRateRepository) DeactivateQuote(ctx context.Context, quoteID string, updaterUserID string) error {
	query := `
		UPDATE exchange_rate_quotes
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE quote_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, quoteID, time.Now().UTC(), updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to deactivate quote %s: %w", quoteID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindQuoteByID retrieves a single quote by its ID.
func (r *PgxExchangeRateRepository) FindQuoteByID(ctx context.Context, quoteID string) (*domain.ExchangeRateQuote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM exchange_rate_quotes
		WHERE quote_id = $1;
	`
	quote, err := scanQuote(r.pool.QueryRow(ctx, query, quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find quote by ID %s: %w", quoteID, err)
	}
	return &quote, nil
}

// ListQuotesForDate retrieves every active quote effective on the given date.
// The resolver snapshot is built from this set.
func (r *PgxExchangeRateRepository) ListQuotesForDate(ctx context.Context, date time.Time) ([]domain.ExchangeRateQuote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM exchange_rate_quotes
		WHERE is_active AND date_effective::date = $1::date
		ORDER BY created_at DESC, quote_id DESC;
	`
	rows, err := r.pool.Query(ctx, query, date.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes for date: %w", err)
	}
	defer rows.Close()

	quotes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeRateQuote, error) {
		return scanQuote(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan quotes for date: %w", err)
	}
	return quotes, nil
}

// ListQuotesForPair retrieves quotes for a currency pair, newest first.
func (r *PgxExchangeRateRepository) ListQuotesForPair(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRateQuote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM exchange_rate_quotes
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY date_effective DESC, created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, fromCode, toCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes for pair %s/%s: %w", fromCode, toCode, err)
	}
	defer rows.Close()

	quotes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeRateQuote, error) {
		return scanQuote(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan quotes for pair %s/%s: %w", fromCode, toCode, err)
	}
	return quotes, nil
}
