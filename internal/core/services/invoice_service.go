package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/distribution"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portsrepo "github.com/finerp-io/finerp_backend/internal/core/ports/repositories"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/finerp-io/finerp_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// segmentLookupMap adapts a repository fetch to the balancer's collaborator
// interface.
type segmentLookupMap map[string]domain.Segment

func (m segmentLookupMap) FindSegment(segmentID string) (*domain.Segment, bool) {
	seg, ok := m[segmentID]
	if !ok {
		return nil, false
	}
	return &seg, true
}

// invoiceService provides business logic for invoices and their
// general-ledger distributions.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	accountRepo portsrepo.AccountReader
	segmentRepo portsrepo.SegmentReader
	currencySvc portssvc.CurrencyReaderSvc
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryWithTx, accountRepo portsrepo.AccountReader, segmentRepo portsrepo.SegmentReader, currencySvc portssvc.CurrencyReaderSvc) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		accountRepo: accountRepo,
		segmentRepo: segmentRepo,
		currencySvc: currencySvc,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoice validates a draft invoice's distribution against its total
// and persists the invoice with its lines. Nothing is saved when validation
// fails; the draft is created whole or not at all.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, []domain.DistributionLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: invoice total must be positive", apperrors.ErrValidation)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		return nil, nil, fmt.Errorf("%w: currency %s not found", apperrors.ErrValidation, req.CurrencyCode)
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()
	lines := s.buildLines(invoiceID, req.Lines, creatorUserID, now)

	if err := s.validateDistribution(ctx, lines, req.TotalAmount); err != nil {
		return nil, nil, err
	}

	invoice := domain.Invoice{
		InvoiceID:         invoiceID,
		Kind:              req.Kind,
		CurrencyCode:      req.CurrencyCode,
		TotalAmount:       req.TotalAmount,
		OutstandingAmount: req.TotalAmount,
		InvoiceDate:       req.InvoiceDate,
		Description:       req.Description,
		Status:            domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice, lines); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to save invoice in service: %w", err)
	}

	return &invoice, lines, nil
}

// ReplaceInvoiceLines replaces a draft invoice's distribution wholesale after
// revalidation. Posted invoices are immutable history.
func (s *invoiceService) ReplaceInvoiceLines(ctx context.Context, invoiceID string, req dto.ReplaceInvoiceLinesRequest, updaterUserID string) ([]domain.DistributionLine, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if !invoice.Status.IsEditable() {
		return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrImmutable, invoiceID)
	}

	now := time.Now().UTC()
	lines := s.buildLines(invoiceID, req.Lines, updaterUserID, now)

	if err := s.validateDistribution(ctx, lines, invoice.TotalAmount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.ReplaceDistributionLines(ctx, invoiceID, lines, updaterUserID); err != nil {
		return nil, fmt.Errorf("failed to replace distribution lines: %w", err)
	}
	return lines, nil
}

// PostInvoice runs a final validation pass and transitions the invoice from
// DRAFT to POSTED.
func (s *invoiceService) PostInvoice(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if !invoice.Status.IsEditable() {
		return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrImmutable, invoiceID)
	}

	lines, err := s.invoiceRepo.FindDistributionLines(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution lines for invoice %s: %w", invoiceID, err)
	}
	if err := s.validateDistribution(ctx, lines, invoice.TotalAmount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.Posted, updaterUserID); err != nil {
		return nil, fmt.Errorf("failed to post invoice %s: %w", invoiceID, err)
	}

	invoice.Status = domain.Posted
	return invoice, nil
}

// GetInvoiceByID retrieves an invoice together with its distribution lines.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, []domain.DistributionLine, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	lines, err := s.invoiceRepo.FindDistributionLines(ctx, invoiceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load distribution lines for invoice %s: %w", invoiceID, err)
	}
	return invoice, lines, nil
}

// ListOutstandingInvoices retrieves posted invoices still carrying a balance.
func (s *invoiceService) ListOutstandingInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListOutstandingInvoices(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding invoices: %w", err)
	}
	if invoices == nil {
		return []domain.Invoice{}, nil
	}
	return invoices, nil
}

func (s *invoiceService) buildLines(documentID string, reqs []dto.DistributionLineRequest, userID string, now time.Time) []domain.DistributionLine {
	lines := make([]domain.DistributionLine, len(reqs))
	for i, lr := range reqs {
		lines[i] = domain.DistributionLine{
			LineID:     uuid.NewString(),
			DocumentID: documentID,
			AccountID:  lr.AccountID,
			LineType:   lr.LineType,
			Amount:     lr.Amount,
			Segments:   lr.Segments,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

// validateDistribution checks accounts exist and are active, then runs the
// balancer over a segment snapshot. Balancer violations come back joined into
// one ErrValidation-tagged error carrying the full list.
func (s *invoiceService) validateDistribution(ctx context.Context, lines []domain.DistributionLine, documentTotal decimal.Decimal) error {
	accountIDs := make([]string, 0, len(lines))
	seenAccounts := make(map[string]bool)
	segmentIDs := make([]string, 0)
	for _, line := range lines {
		if !seenAccounts[line.AccountID] {
			seenAccounts[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
		for _, segID := range line.Segments {
			segmentIDs = append(segmentIDs, segID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts for validation: %w", err)
	}
	for _, id := range accountIDs {
		acct, found := accounts[id]
		if !found {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, id)
		}
		if !acct.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	requiredTypes, err := s.segmentRepo.ListSegmentTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list segment types for validation: %w", err)
	}
	segments, err := s.segmentRepo.FindSegmentsByIDs(ctx, segmentIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch segments for validation: %w", err)
	}

	result, err := distribution.Validate(lines, documentTotal, requiredTypes, segmentLookupMap(segments))
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if !result.Ok() {
		return errors.Join(apperrors.ErrValidation, result.Err())
	}
	return nil
}
