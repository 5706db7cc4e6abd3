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
	"github.com/shopspring/decimal"
)

type PgxInvoiceRepository struct {
	baseRepository
}

// NewPgxInvoiceRepository creates a new repository for invoices and their
// distribution lines.
func NewPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{baseRepository{pool: pool}}
}

const invoiceColumns = `invoice_id, kind, currency_code, total_amount, outstanding_amount, invoice_date, description, status, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.Kind,
		&inv.CurrencyCode,
		&inv.TotalAmount,
		&inv.OutstandingAmount,
		&inv.InvoiceDate,
		&inv.Description,
		&inv.Status,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	return inv, err
}

// SaveInvoice persists a new invoice together with its distribution lines in
// one database transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.DistributionLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	invoiceQuery := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, invoiceQuery,
		invoice.InvoiceID,
		invoice.Kind,
		invoice.CurrencyCode,
		invoice.TotalAmount,
		invoice.OutstandingAmount,
		invoice.InvoiceDate,
		invoice.Description,
		invoice.Status,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}

	if err := insertDistributionLines(ctx, tx, lines); err != nil {
		return fmt.Errorf("failed to insert lines for invoice %s: %w", invoice.InvoiceID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction for invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

// insertDistributionLines batch-inserts a line set inside tx.
func insertDistributionLines(ctx context.Context, tx pgx.Tx, lines []domain.DistributionLine) error {
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO distribution_lines (line_id, document_id, account_id, line_type, amount, segments, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.DocumentID,
			line.AccountID,
			line.LineType,
			line.Amount,
			line.Segments,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	return br.Close()
}

// ReplaceDistributionLines replaces a draft invoice's line set wholesale.
func (r *PgxInvoiceRepository) ReplaceDistributionLines(ctx context.Context, invoiceID string, lines []domain.DistributionLine, updaterUserID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM distribution_lines WHERE document_id = $1;`, invoiceID); err != nil {
		return fmt.Errorf("failed to delete old lines for invoice %s: %w", invoiceID, err)
	}
	if err := insertDistributionLines(ctx, tx, lines); err != nil {
		return fmt.Errorf("failed to insert new lines for invoice %s: %w", invoiceID, err)
	}

	auditQuery := `
		UPDATE invoices SET last_updated_at = $2, last_updated_by = $3 WHERE invoice_id = $1;
	`
	if _, err := tx.Exec(ctx, auditQuery, invoiceID, time.Now().UTC(), updaterUserID); err != nil {
		return fmt.Errorf("failed to touch invoice %s: %w", invoiceID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit line replacement for invoice %s: %w", invoiceID, err)
	}
	return nil
}

// UpdateInvoiceStatus transitions an invoice's lifecycle status.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.DocumentStatus, updaterUserID string) error {
	query := `
		UPDATE invoices
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, invoiceID, status, time.Now().UTC(), updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to update status of invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DecrementOutstanding reduces an invoice's outstanding balance inside tx.
// The amount is in the invoice's own currency. GREATEST clamps tiny rounding
// overshoots at zero; the allocation engine has already rejected anything
// materially over the balance.
func (r *PgxInvoiceRepository) DecrementOutstanding(ctx context.Context, tx pgx.Tx, invoiceID string, amount decimal.Decimal, updaterUserID string) error {
	query := `
		UPDATE invoices
		SET outstanding_amount = GREATEST(outstanding_amount - $2, 0),
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE invoice_id = $1;
	`
	tag, err := tx.Exec(ctx, query, invoiceID, amount, time.Now().UTC(), updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to decrement outstanding of invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindInvoiceByID retrieves a single invoice.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}
	return &inv, nil
}

// FindInvoicesByIDs retrieves several invoices at once, keyed by ID.
func (r *PgxInvoiceRepository) FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices by IDs: %w", err)
	}
	defer rows.Close()
	return collectInvoiceMap(rows)
}

// FindInvoicesByIDsForUpdate retrieves invoices inside tx with row locks held
// until the transaction ends. Concurrent allocation attempts against the same
// invoice serialize on these locks.
func (r *PgxInvoiceRepository) FindInvoicesByIDsForUpdate(ctx context.Context, tx pgx.Tx, invoiceIDs []string) (map[string]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = ANY($1) FOR UPDATE;`
	rows, err := tx.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock invoices by IDs: %w", err)
	}
	defer rows.Close()
	return collectInvoiceMap(rows)
}

func collectInvoiceMap(rows pgx.Rows) (map[string]domain.Invoice, error) {
	invoices := make(map[string]domain.Invoice)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices[inv.InvoiceID] = inv
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invoice rows: %w", err)
	}
	return invoices, nil
}

// ListOutstandingInvoices retrieves posted invoices with a positive
// outstanding balance, the allocation candidate set.
func (r *PgxInvoiceRepository) ListOutstandingInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE kind = $1 AND status = $2 AND outstanding_amount > 0
		ORDER BY invoice_date, invoice_id;
	`
	rows, err := r.pool.Query(ctx, query, kind, domain.Posted)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding invoices: %w", err)
	}
	defer rows.Close()

	invoices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Invoice, error) {
		return scanInvoice(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan outstanding invoices: %w", err)
	}
	return invoices, nil
}

// FindDistributionLines retrieves the distribution lines of a document.
func (r *PgxInvoiceRepository) FindDistributionLines(ctx context.Context, documentID string) ([]domain.DistributionLine, error) {
	query := `
		SELECT line_id, document_id, account_id, line_type, amount, segments, created_at, created_by, last_updated_at, last_updated_by
		FROM distribution_lines
		WHERE document_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for document %s: %w", documentID, err)
	}
	defer rows.Close()

	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DistributionLine, error) {
		var line domain.DistributionLine
		err := row.Scan(
			&line.LineID,
			&line.DocumentID,
			&line.AccountID,
			&line.LineType,
			&line.Amount,
			&line.Segments,
			&line.CreatedAt,
			&line.CreatedBy,
			&line.LastUpdatedAt,
			&line.LastUpdatedBy,
		)
		return line, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan lines for document %s: %w", documentID, err)
	}
	return lines, nil
}
