package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portsrepo "github.com/finerp-io/finerp_backend/internal/core/ports/repositories"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
	"github.com/finerp-io/finerp_backend/internal/core/rates"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRateService provides business logic for exchange rate quotes and
// cross-currency resolution.
type exchangeRateService struct {
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	currencyService portssvc.CurrencyReaderSvc
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyService portssvc.CurrencyReaderSvc) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:        rateRepo,
		currencyService: currencyService,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateQuote handles the creation of a new exchange rate quote.
func (s *exchangeRateService) CreateQuote(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRateQuote, error) {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if !req.RateType.IsValid() {
		return nil, fmt.Errorf("%w: unknown rate type %q", apperrors.ErrValidation, req.RateType)
	}

	if _, err := s.currencyService.GetCurrencyByCode(ctx, req.FromCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'from' currency code '%s' not found", apperrors.ErrValidation, req.FromCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate 'from' currency '%s': %w", req.FromCurrencyCode, err)
	}
	if _, err := s.currencyService.GetCurrencyByCode(ctx, req.ToCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'to' currency code '%s' not found", apperrors.ErrValidation, req.ToCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate 'to' currency '%s': %w", req.ToCurrencyCode, err)
	}

	now := time.Now().UTC()
	quote := domain.ExchangeRateQuote{
		QuoteID:          uuid.NewString(),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		RateType:         req.RateType,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create exchange rate quote in service: %w", err)
	}

	return &quote, nil
}

// DeactivateQuote marks a quote inactive. Quotes referenced by posted
// documents stay in history; deactivation only removes them from resolution.
func (s *exchangeRateService) DeactivateQuote(ctx context.Context, quoteID string, updaterUserID string) error {
	if err := s.rateRepo.DeactivateQuote(ctx, quoteID, updaterUserID); err != nil {
		return fmt.Errorf("failed to deactivate quote in service: %w", err)
	}
	return nil
}

// ListQuotesForPair retrieves quotes for a currency pair, newest first.
func (s *exchangeRateService) ListQuotesForPair(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRateQuote, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	quotes, err := s.rateRepo.ListQuotesForPair(ctx, fromCode, toCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes in service: %w", err)
	}
	return quotes, nil
}

// ResolveRate resolves a conversion rate over a snapshot of the day's active
// quotes. The snapshot is fetched once and handed to the pure resolver, so
// the resolution itself never touches the database.
func (s *exchangeRateService) ResolveRate(ctx context.Context, fromCode, toCode string, date time.Time, rateType domain.RateType) (decimal.Decimal, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return decimal.Zero, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if !rateType.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: unknown rate type %q", apperrors.ErrValidation, rateType)
	}

	snap, err := s.snapshotForDate(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}

	rate, err := snap.Resolve(fromCode, toCode, date, rateType)
	if err != nil {
		// ErrRateNotFound and MalformedInputError pass through unchanged so
		// callers can react to them precisely.
		return decimal.Zero, err
	}
	return rate, nil
}

func (s *exchangeRateService) snapshotForDate(ctx context.Context, date time.Time) (*rates.Snapshot, error) {
	currencies, err := s.currencyService.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies for rate snapshot: %w", err)
	}
	quotes, err := s.rateRepo.ListQuotesForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes for rate snapshot: %w", err)
	}
	return rates.NewSnapshot(currencies, quotes), nil
}
