package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/allocation"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portsrepo "github.com/finerp-io/finerp_backend/internal/core/ports/repositories"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
	"github.com/finerp-io/finerp_backend/internal/core/rates"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/finerp-io/finerp_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// paymentService provides business logic for payments and their allocations
// against outstanding invoices.
type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryWithTx
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	rateRepo    portsrepo.ExchangeRateReader
	currencySvc portssvc.CurrencyReaderSvc
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryWithTx, invoiceRepo portsrepo.InvoiceRepositoryWithTx, rateRepo portsrepo.ExchangeRateReader, currencySvc portssvc.CurrencyReaderSvc) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		rateRepo:    rateRepo,
		currencySvc: currencySvc,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayment validates the requested allocations against the targeted
// invoices and persists the payment, its allocations, and the invoice
// outstanding decrements in one transaction. The targeted invoices are read
// with row locks held for the duration, so two payments allocating against
// the same invoice serialize and the second sees the decremented balance.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, []domain.Allocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	rateType := req.RateType
	if rateType == "" {
		rateType = domain.RateTypeSpot
	}
	if !rateType.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown rate type %q", apperrors.ErrValidation, rateType)
	}

	currencies, err := s.currencySvc.ListCurrencies(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list currencies for payment: %w", err)
	}
	precisionByCode := make(map[string]int32, len(currencies))
	for _, c := range currencies {
		precisionByCode[c.CurrencyCode] = c.Precision
	}
	if _, ok := precisionByCode[req.CurrencyCode]; !ok {
		return nil, nil, fmt.Errorf("%w: currency %s not found", apperrors.ErrValidation, req.CurrencyCode)
	}

	quotes, err := s.rateRepo.ListQuotesForDate(ctx, req.PaymentDate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list quotes for payment date: %w", err)
	}
	snap := rates.NewSnapshot(currencies, quotes)

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction for payment: %w", err)
	}
	// No-op once the transaction is committed.
	defer func() { _ = s.paymentRepo.Rollback(ctx, tx) }()

	invoiceIDs := make([]string, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		invoiceIDs = append(invoiceIDs, a.InvoiceID)
	}
	locked, err := s.invoiceRepo.FindInvoicesByIDsForUpdate(ctx, tx, invoiceIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock invoices for allocation: %w", err)
	}

	// Only posted invoices are allocation candidates; a draft or unknown
	// invoice fails the plan as unknown.
	candidates := make([]allocation.Candidate, 0, len(locked))
	for _, inv := range locked {
		if inv.Status != domain.Posted {
			continue
		}
		candidates = append(candidates, allocation.Candidate{
			InvoiceID:    inv.InvoiceID,
			Outstanding:  inv.OutstandingAmount,
			CurrencyCode: inv.CurrencyCode,
		})
	}

	requests := make([]allocation.Request, len(req.Allocations))
	for i, a := range req.Allocations {
		requests[i] = allocation.Request{InvoiceID: a.InvoiceID, Amount: a.Amount}
	}

	plan, err := allocation.Allocate(allocation.Input{
		Payment: allocation.PaymentInput{
			Amount:       req.TotalAmount,
			CurrencyCode: req.CurrencyCode,
			Date:         req.PaymentDate,
		},
		Candidates: candidates,
		Requests:   requests,
		RateType:   rateType,
	}, snap)
	if err != nil {
		// Engine rejections carry their own reason codes; pass them through.
		return nil, nil, err
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:    uuid.NewString(),
		CurrencyCode: req.CurrencyCode,
		TotalAmount:  req.TotalAmount,
		PaymentDate:  req.PaymentDate,
		Description:  req.Description,
		Status:       domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	allocations := make([]domain.Allocation, len(plan.Lines))
	for i, line := range plan.Lines {
		inv := locked[line.InvoiceID]
		allocations[i] = domain.Allocation{
			AllocationID:  uuid.NewString(),
			PaymentID:     payment.PaymentID,
			InvoiceID:     line.InvoiceID,
			Amount:        line.Amount,
			InvoiceAmount: line.InvoiceAmount.Round(precisionByCode[inv.CurrencyCode]),
			Rate:          line.Rate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}

	if err := s.paymentRepo.SavePayment(ctx, tx, payment, allocations); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to save payment in service: %w", err)
	}
	for _, alloc := range allocations {
		if err := s.invoiceRepo.DecrementOutstanding(ctx, tx, alloc.InvoiceID, alloc.InvoiceAmount, creatorUserID); err != nil {
			return nil, nil, fmt.Errorf("failed to decrement outstanding for invoice %s: %w", alloc.InvoiceID, err)
		}
	}

	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit payment transaction: %w", err)
	}

	logger.Info("Payment created",
		slog.String("payment_id", payment.PaymentID),
		slog.String("allocated", plan.TotalAllocated.String()),
		slog.String("remaining", plan.Remaining.String()))

	return &payment, allocations, nil
}

// PostPayment transitions a draft payment to POSTED. Posted payments are
// immutable history.
func (s *paymentService) PostPayment(ctx context.Context, paymentID string, updaterUserID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if !payment.Status.IsEditable() {
		return nil, fmt.Errorf("%w: payment %s", apperrors.ErrImmutable, paymentID)
	}

	if err := s.paymentRepo.UpdatePaymentStatus(ctx, paymentID, domain.Posted, updaterUserID); err != nil {
		return nil, fmt.Errorf("failed to post payment %s: %w", paymentID, err)
	}

	payment.Status = domain.Posted
	return payment, nil
}

// GetPaymentByID retrieves a payment together with its allocations.
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, []domain.Allocation, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	allocations, err := s.paymentRepo.FindAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load allocations for payment %s: %w", paymentID, err)
	}
	return payment, allocations, nil
}

// ListPayments retrieves payments, newest first.
func (s *paymentService) ListPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	payments, err := s.paymentRepo.ListPayments(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments in service: %w", err)
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}
