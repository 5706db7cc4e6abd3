package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
	"github.com/finerp-io/finerp_backend/internal/core/rates"
	"github.com/finerp-io/finerp_backend/internal/core/services"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) SaveQuote(ctx context.Context, quote domain.ExchangeRateQuote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) DeactivateQuote(ctx context.Context, quoteID string, updaterUserID string) error {
	args := m.Called(ctx, quoteID, updaterUserID)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindQuoteByID(ctx context.Context, quoteID string) (*domain.ExchangeRateQuote, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateQuote), args.Error(1)
}

func (m *MockExchangeRateRepository) ListQuotesForDate(ctx context.Context, date time.Time) ([]domain.ExchangeRateQuote, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateQuote), args.Error(1)
}

func (m *MockExchangeRateRepository) ListQuotesForPair(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRateQuote, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateQuote), args.Error(1)
}

// MockCurrencyService implements the CurrencySvcFacade interface
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo    *MockExchangeRateRepository
	mockCurrencySvc *MockCurrencyService
	service         portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, suite.mockCurrencySvc)
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestCreateQuote_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	fromCode := "USD"
	toCode := "EUR"
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		RateType:         domain.RateTypeSpot,
		Rate:             decimal.NewFromFloat(0.85),
		DateEffective:    time.Now().UTC().Truncate(24 * time.Hour),
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, fromCode).Return(&domain.Currency{CurrencyCode: fromCode}, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, toCode).Return(&domain.Currency{CurrencyCode: toCode}, nil).Once()
	suite.mockRateRepo.On("SaveQuote", ctx, mock.AnythingOfType("domain.ExchangeRateQuote")).Return(nil).Once()

	quote, err := suite.service.CreateQuote(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(quote)
	suite.NotEmpty(quote.QuoteID)
	suite.Equal(req.FromCurrencyCode, quote.FromCurrencyCode)
	suite.Equal(req.ToCurrencyCode, quote.ToCurrencyCode)
	suite.Equal(domain.RateTypeSpot, quote.RateType)
	suite.True(req.Rate.Equal(quote.Rate))
	suite.True(quote.IsActive)
	suite.Equal(creatorUserID, quote.CreatedBy)

	suite.mockRateRepo.AssertExpectations(suite.T())
	suite.mockCurrencySvc.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestCreateQuote_InvalidRate() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		RateType:         domain.RateTypeSpot,
		Rate:             decimal.Zero,
		DateEffective:    time.Now(),
	}

	quote, err := suite.service.CreateQuote(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(quote)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "must be positive")
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveQuote")
}

func (suite *ExchangeRateServiceTestSuite) TestCreateQuote_SameCurrency() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "USD",
		RateType:         domain.RateTypeSpot,
		Rate:             decimal.NewFromInt(1),
		DateEffective:    time.Now(),
	}

	quote, err := suite.service.CreateQuote(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(quote)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "cannot be the same")
}

func (suite *ExchangeRateServiceTestSuite) TestCreateQuote_UnknownRateType() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		RateType:         domain.RateType("MID"),
		Rate:             decimal.NewFromFloat(0.85),
		DateEffective:    time.Now(),
	}

	quote, err := suite.service.CreateQuote(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(quote)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "rate type")
}

func (suite *ExchangeRateServiceTestSuite) TestCreateQuote_FromCurrencyNotFound() {
	ctx := context.Background()
	fromCode := "XXX"
	toCode := "EUR"
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		RateType:         domain.RateTypeSpot,
		Rate:             decimal.NewFromFloat(1),
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, fromCode).Return(nil, apperrors.ErrNotFound).Once()

	quote, err := suite.service.CreateQuote(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(quote)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "'from' currency code")
	suite.Contains(err.Error(), "not found")
	suite.mockCurrencySvc.AssertExpectations(suite.T())
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveQuote")
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_DirectQuote() {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	currencies := []domain.Currency{
		{CurrencyCode: "USD", IsBase: true, Precision: 2},
		{CurrencyCode: "EUR", Precision: 2},
	}
	quotes := []domain.ExchangeRateQuote{
		{
			QuoteID:          uuid.NewString(),
			FromCurrencyCode: "EUR",
			ToCurrencyCode:   "USD",
			RateType:         domain.RateTypeSpot,
			Rate:             decimal.NewFromFloat(1.10),
			DateEffective:    date,
			IsActive:         true,
		},
	}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return(currencies, nil).Once()
	suite.mockRateRepo.On("ListQuotesForDate", ctx, date).Return(quotes, nil).Once()

	rate, err := suite.service.ResolveRate(ctx, "EUR", "USD", date, domain.RateTypeSpot)

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromFloat(1.10)), "got %s", rate)
	suite.mockRateRepo.AssertExpectations(suite.T())
	suite.mockCurrencySvc.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_InverseQuote() {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	currencies := []domain.Currency{
		{CurrencyCode: "USD", IsBase: true, Precision: 2},
		{CurrencyCode: "EUR", Precision: 2},
	}
	// Only USD->EUR is quoted; EUR->USD must resolve as its reciprocal.
	quotes := []domain.ExchangeRateQuote{
		{
			QuoteID:          uuid.NewString(),
			FromCurrencyCode: "USD",
			ToCurrencyCode:   "EUR",
			RateType:         domain.RateTypeSpot,
			Rate:             decimal.NewFromFloat(0.8),
			DateEffective:    date,
			IsActive:         true,
		},
	}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return(currencies, nil).Once()
	suite.mockRateRepo.On("ListQuotesForDate", ctx, date).Return(quotes, nil).Once()

	rate, err := suite.service.ResolveRate(ctx, "EUR", "USD", date, domain.RateTypeSpot)

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromFloat(1.25)), "got %s", rate)
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_TriangulatedThroughBase() {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	currencies := []domain.Currency{
		{CurrencyCode: "USD", IsBase: true, Precision: 2},
		{CurrencyCode: "EUR", Precision: 2},
		{CurrencyCode: "GBP", Precision: 2},
	}
	// No direct EUR<->GBP quote in either direction; both legs go through USD.
	quotes := []domain.ExchangeRateQuote{
		{
			QuoteID:          uuid.NewString(),
			FromCurrencyCode: "EUR",
			ToCurrencyCode:   "USD",
			RateType:         domain.RateTypeSpot,
			Rate:             decimal.NewFromFloat(1.25),
			DateEffective:    date,
			IsActive:         true,
		},
		{
			QuoteID:          uuid.NewString(),
			FromCurrencyCode: "USD",
			ToCurrencyCode:   "GBP",
			RateType:         domain.RateTypeSpot,
			Rate:             decimal.NewFromFloat(0.8),
			DateEffective:    date,
			IsActive:         true,
		},
	}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return(currencies, nil).Once()
	suite.mockRateRepo.On("ListQuotesForDate", ctx, date).Return(quotes, nil).Once()

	rate, err := suite.service.ResolveRate(ctx, "EUR", "GBP", date, domain.RateTypeSpot)

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)), "got %s", rate)
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_NotFound() {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	currencies := []domain.Currency{
		{CurrencyCode: "USD", IsBase: true, Precision: 2},
		{CurrencyCode: "EUR", Precision: 2},
	}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return(currencies, nil).Once()
	suite.mockRateRepo.On("ListQuotesForDate", ctx, date).Return([]domain.ExchangeRateQuote{}, nil).Once()

	rate, err := suite.service.ResolveRate(ctx, "EUR", "USD", date, domain.RateTypeSpot)

	suite.Require().Error(err)
	suite.True(rate.IsZero())
	suite.ErrorIs(err, rates.ErrRateNotFound)
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_WrongRateTypeDoesNotResolve() {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	currencies := []domain.Currency{
		{CurrencyCode: "USD", IsBase: true, Precision: 2},
		{CurrencyCode: "EUR", Precision: 2},
	}
	quotes := []domain.ExchangeRateQuote{
		{
			QuoteID:          uuid.NewString(),
			FromCurrencyCode: "EUR",
			ToCurrencyCode:   "USD",
			RateType:         domain.RateTypeClosing,
			Rate:             decimal.NewFromFloat(1.10),
			DateEffective:    date,
			IsActive:         true,
		},
	}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return(currencies, nil).Once()
	suite.mockRateRepo.On("ListQuotesForDate", ctx, date).Return(quotes, nil).Once()

	_, err := suite.service.ResolveRate(ctx, "EUR", "USD", date, domain.RateTypeSpot)

	suite.Require().Error(err)
	suite.ErrorIs(err, rates.ErrRateNotFound)
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_InvalidCode() {
	ctx := context.Background()

	_, err := suite.service.ResolveRate(ctx, "EU", "USD", time.Now(), domain.RateTypeSpot)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "ListQuotesForDate")
}

func (suite *ExchangeRateServiceTestSuite) TestListQuotesForPair_LowercaseNormalized() {
	ctx := context.Background()
	expected := []domain.ExchangeRateQuote{{QuoteID: uuid.NewString(), FromCurrencyCode: "USD", ToCurrencyCode: "EUR"}}

	suite.mockRateRepo.On("ListQuotesForPair", ctx, "USD", "EUR").Return(expected, nil).Once()

	quotes, err := suite.service.ListQuotesForPair(ctx, "usd", "eur")

	suite.Require().NoError(err)
	suite.Equal(expected, quotes)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestDeactivateQuote_NotFound() {
	ctx := context.Background()
	quoteID := uuid.NewString()
	updaterUserID := uuid.NewString()

	suite.mockRateRepo.On("DeactivateQuote", ctx, quoteID, updaterUserID).Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateQuote(ctx, quoteID, updaterUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func TestNewExchangeRateService(t *testing.T) {
	mockRateRepo := new(MockExchangeRateRepository)
	mockCurrencySvc := new(MockCurrencyService)

	service := services.NewExchangeRateService(mockRateRepo, mockCurrencySvc)

	assert.NotNil(t, service)
	var _ portssvc.ExchangeRateSvcFacade = service
}

// --- Run Suite ---
func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
