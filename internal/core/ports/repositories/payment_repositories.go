package repositories

import (
	"context"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentReader defines read operations for payments
type PaymentReader interface {
	// FindPaymentByID retrieves a single payment.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindAllocationsByPaymentID retrieves a payment's allocations.
	FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.Allocation, error)

	// ListPayments retrieves payments, newest first.
	ListPayments(ctx context.Context, limit int) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payments
type PaymentWriter interface {
	// SavePayment persists a payment and its allocations inside tx. The
	// matching invoice outstanding decrements happen in the same transaction.
	SavePayment(ctx context.Context, tx pgx.Tx, payment domain.Payment, allocations []domain.Allocation) error

	// UpdatePaymentStatus transitions a payment's lifecycle status.
	UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.DocumentStatus, updaterUserID string) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}

// PaymentRepositoryWithTx extends PaymentRepositoryFacade with transaction capabilities
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	TransactionManager
}
