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

type PgxPaymentRepository struct {
	baseRepository
}

// NewPgxPaymentRepository creates a new repository for payments and allocations.
func NewPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{baseRepository{pool: pool}}
}

const paymentColumns = `payment_id, currency_code, total_amount, payment_date, description, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.CurrencyCode,
		&p.TotalAmount,
		&p.PaymentDate,
		&p.Description,
		&p.Status,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

// SavePayment persists a payment and its allocations inside tx. The caller
// owns the transaction; invoice outstanding decrements happen in the same tx
// so the payment and its effects commit or roll back together.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, tx pgx.Tx, payment domain.Payment, allocations []domain.Allocation) error {
	paymentQuery := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, paymentQuery,
		payment.PaymentID,
		payment.CurrencyCode,
		payment.TotalAmount,
		payment.PaymentDate,
		payment.Description,
		payment.Status,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", payment.PaymentID, err)
	}

	batch := &pgx.Batch{}
	allocationQuery := `
		INSERT INTO allocations (allocation_id, payment_id, invoice_id, amount, invoice_amount, rate, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, alloc := range allocations {
		batch.Queue(allocationQuery,
			alloc.AllocationID,
			alloc.PaymentID,
			alloc.InvoiceID,
			alloc.Amount,
			alloc.InvoiceAmount,
			alloc.Rate,
			alloc.CreatedAt,
			alloc.CreatedBy,
			alloc.LastUpdatedAt,
			alloc.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute allocation batch for payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

// UpdatePaymentStatus transitions a payment's lifecycle status.
func (r *PgxPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.DocumentStatus, updaterUserID string) error {
	query := `
		UPDATE payments
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, paymentID, status, time.Now().UTC(), updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to update status of payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPaymentByID retrieves a single payment.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	p, err := scanPayment(r.pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	return &p, nil
}

// FindAllocationsByPaymentID retrieves a payment's allocations.
func (r *PgxPaymentRepository) FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.Allocation, error) {
	query := `
		SELECT allocation_id, payment_id, invoice_id, amount, invoice_amount, rate, created_at, created_by, last_updated_at, last_updated_by
		FROM allocations
		WHERE payment_id = $1
		ORDER BY created_at, allocation_id;
	`
	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	allocations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Allocation, error) {
		var alloc domain.Allocation
		err := row.Scan(
			&alloc.AllocationID,
			&alloc.PaymentID,
			&alloc.InvoiceID,
			&alloc.Amount,
			&alloc.InvoiceAmount,
			&alloc.Rate,
			&alloc.CreatedAt,
			&alloc.CreatedBy,
			&alloc.LastUpdatedAt,
			&alloc.LastUpdatedBy,
		)
		return alloc, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan allocations for payment %s: %w", paymentID, err)
	}
	return allocations, nil
}

// ListPayments retrieves payments, newest first.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		ORDER BY payment_date DESC, payment_id DESC
		LIMIT $1;
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payments: %w", err)
	}
	return payments, nil
}
