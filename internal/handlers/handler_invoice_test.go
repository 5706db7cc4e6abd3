package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/distribution"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/finerp-io/finerp_backend/internal/handlers"
	"github.com/finerp-io/finerp_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, []domain.DistributionLine, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Invoice), args.Get(1).([]domain.DistributionLine), args.Error(2)
}

func (m *MockInvoiceService) ReplaceInvoiceLines(ctx context.Context, invoiceID string, req dto.ReplaceInvoiceLinesRequest, updaterUserID string) ([]domain.DistributionLine, error) {
	args := m.Called(ctx, invoiceID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DistributionLine), args.Error(1)
}

func (m *MockInvoiceService) PostInvoice(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, []domain.DistributionLine, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Invoice), args.Get(1).([]domain.DistributionLine), args.Error(2)
}

func (m *MockInvoiceService) ListOutstandingInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Test Suite ---
type InvoiceHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockInvoiceService *MockInvoiceService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *InvoiceHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "finerp-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *InvoiceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockInvoiceService = new(MockInvoiceService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterInvoiceRoutes(v1, suite.mockInvoiceService)
}

func (suite *InvoiceHandlerTestSuite) performRequest(method, url string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *InvoiceHandlerTestSuite) invoiceRequestBody() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		Kind:         domain.Payable,
		CurrencyCode: "USD",
		TotalAmount:  decimal.NewFromInt(100),
		InvoiceDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:  "office supplies",
		Lines: []dto.DistributionLineRequest{
			{AccountID: uuid.NewString(), LineType: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: uuid.NewString(), LineType: domain.Credit, Amount: decimal.NewFromInt(100)},
		},
	}
}

// --- Test Cases ---

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_Success() {
	userID := uuid.NewString()
	body := suite.invoiceRequestBody()
	invoiceID := uuid.NewString()
	created := &domain.Invoice{
		InvoiceID:         invoiceID,
		Kind:              body.Kind,
		CurrencyCode:      body.CurrencyCode,
		TotalAmount:       body.TotalAmount,
		OutstandingAmount: body.TotalAmount,
		InvoiceDate:       body.InvoiceDate,
		Status:            domain.Draft,
	}
	lines := []domain.DistributionLine{
		{LineID: uuid.NewString(), DocumentID: invoiceID, AccountID: body.Lines[0].AccountID, LineType: domain.Debit, Amount: decimal.NewFromInt(100)},
		{LineID: uuid.NewString(), DocumentID: invoiceID, AccountID: body.Lines[1].AccountID, LineType: domain.Credit, Amount: decimal.NewFromInt(100)},
	}

	suite.mockInvoiceService.On("CreateInvoice",
		mock.AnythingOfType("*context.valueCtx"),
		mock.AnythingOfType("dto.CreateInvoiceRequest"),
		userID,
	).Return(created, lines, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/invoices", body, suite.generateTestToken(userID))

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(invoiceID, resp.InvoiceID)
	suite.Equal(domain.Draft, resp.Status)
	suite.Len(resp.Lines, 2)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_NoToken() {
	w := suite.performRequest(http.MethodPost, "/api/v1/invoices", suite.invoiceRequestBody(), "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockInvoiceService.AssertNotCalled(suite.T(), "CreateInvoice")
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_ViolationsReturn422() {
	userID := uuid.NewString()
	body := suite.invoiceRequestBody()
	validationErr := errors.Join(
		apperrors.ErrValidation,
		&distribution.UnbalancedError{
			DebitTotal:  decimal.NewFromInt(100),
			CreditTotal: decimal.NewFromInt(80),
		},
	)

	suite.mockInvoiceService.On("CreateInvoice",
		mock.AnythingOfType("*context.valueCtx"),
		mock.AnythingOfType("dto.CreateInvoiceRequest"),
		userID,
	).Return(nil, nil, validationErr).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/invoices", body, suite.generateTestToken(userID))

	suite.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp struct {
		Error      string                  `json:"error"`
		Violations []dto.ViolationResponse `json:"violations"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Violations, 1)
	suite.Equal(distribution.ReasonUnbalanced, resp.Violations[0].Reason)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoiceByID_NotFound() {
	userID := uuid.NewString()
	invoiceID := uuid.NewString()

	suite.mockInvoiceService.On("GetInvoiceByID",
		mock.AnythingOfType("*context.valueCtx"),
		invoiceID,
	).Return(nil, nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/invoices/%s", invoiceID)
	w := suite.performRequest(http.MethodGet, url, nil, suite.generateTestToken(userID))

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestPostInvoice_AlreadyPosted() {
	userID := uuid.NewString()
	invoiceID := uuid.NewString()

	suite.mockInvoiceService.On("PostInvoice",
		mock.AnythingOfType("*context.valueCtx"),
		invoiceID,
		userID,
	).Return(nil, fmt.Errorf("%w: invoice %s", apperrors.ErrImmutable, invoiceID)).Once()

	url := fmt.Sprintf("/api/v1/invoices/%s/post", invoiceID)
	w := suite.performRequest(http.MethodPost, url, nil, suite.generateTestToken(userID))

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestListOutstandingInvoices_BadKind() {
	userID := uuid.NewString()

	w := suite.performRequest(http.MethodGet, "/api/v1/invoices?kind=XX", nil, suite.generateTestToken(userID))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockInvoiceService.AssertNotCalled(suite.T(), "ListOutstandingInvoices")
}

// --- Run Test Suite ---
func TestInvoiceHandler(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}
