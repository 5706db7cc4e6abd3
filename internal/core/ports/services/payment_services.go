package services

import (
	"context"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/finerp-io/finerp_backend/internal/dto"
)

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a payment together with its allocations.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, []domain.Allocation, error)

	// ListPayments retrieves payments, newest first.
	ListPayments(ctx context.Context, limit int) ([]domain.Payment, error)
}

// PaymentWriterSvc defines write operations for payments
type PaymentWriterSvc interface {
	// CreatePayment validates the requested allocations against their
	// invoices and persists the payment, allocations, and invoice
	// outstanding decrements atomically.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, []domain.Allocation, error)

	// PostPayment transitions a draft payment to POSTED. Posted payments are
	// immutable.
	PostPayment(ctx context.Context, paymentID string, updaterUserID string) (*domain.Payment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
