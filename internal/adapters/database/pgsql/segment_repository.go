package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portsrepo "github.com/finerp-io/finerp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSegmentRepository struct {
	pool *pgxpool.Pool
}

// NewPgxSegmentRepository creates a new repository for segment types and segments.
func NewPgxSegmentRepository(pool *pgxpool.Pool) portsrepo.SegmentRepositoryFacade {
	return &PgxSegmentRepository{pool: pool}
}

const segmentTypeColumns = `segment_type_id, name, is_required, has_hierarchy, created_at, created_by, last_updated_at, last_updated_by`
const segmentColumns = `segment_id, segment_type_id, code, name, parent_code, node_type, created_at, created_by, last_updated_at, last_updated_by`

func scanSegmentType(row pgx.Row) (domain.SegmentType, error) {
	var st domain.SegmentType
	err := row.Scan(
		&st.SegmentTypeID,
		&st.Name,
		&st.IsRequired,
		&st.HasHierarchy,
		&st.CreatedAt,
		&st.CreatedBy,
		&st.LastUpdatedAt,
		&st.LastUpdatedBy,
	)
	return st, err
}

func scanSegment(row pgx.Row) (domain.Segment, error) {
	var seg domain.Segment
	err := row.Scan(
		&seg.SegmentID,
		&seg.SegmentTypeID,
		&seg.Code,
		&seg.Name,
		&seg.ParentCode,
		&seg.NodeType,
		&seg.CreatedAt,
		&seg.CreatedBy,
		&seg.LastUpdatedAt,
		&seg.LastUpdatedBy,
	)
	return seg, err
}

// SaveSegmentType persists a new segment type.
func (r *PgxSegmentRepository) SaveSegmentType(ctx context.Context, segmentType domain.SegmentType) error {
	query := `
		INSERT INTO segment_types (` + segmentTypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		segmentType.SegmentTypeID,
		segmentType.Name,
		segmentType.IsRequired,
		segmentType.HasHierarchy,
		segmentType.CreatedAt,
		segmentType.CreatedBy,
		segmentType.LastUpdatedAt,
		segmentType.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: segment type %s", apperrors.ErrDuplicate, segmentType.Name)
		}
		return fmt.Errorf("failed to save segment type %s: %w", segmentType.SegmentTypeID, err)
	}
	return nil
}

// SaveSegment persists a new segment.
func (r *PgxSegmentRepository) SaveSegment(ctx context.Context, segment domain.Segment) error {
	query := `
		INSERT INTO segments (` + segmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		segment.SegmentID,
		segment.SegmentTypeID,
		segment.Code,
		segment.Name,
		segment.ParentCode,
		segment.NodeType,
		segment.CreatedAt,
		segment.CreatedBy,
		segment.LastUpdatedAt,
		segment.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: segment code %s", apperrors.ErrDuplicate, segment.Code)
		}
		return fmt.Errorf("failed to save segment %s: %w", segment.SegmentID, err)
	}
	return nil
}

// FindSegmentTypeByID retrieves a single segment type.
func (r *PgxSegmentRepository) FindSegmentTypeByID(ctx context.Context, segmentTypeID string) (*domain.SegmentType, error) {
	query := `SELECT ` + segmentTypeColumns + ` FROM segment_types WHERE segment_type_id = $1;`
	st, err := scanSegmentType(r.pool.QueryRow(ctx, query, segmentTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find segment type by ID %s: %w", segmentTypeID, err)
	}
	return &st, nil
}

// ListSegmentTypes retrieves every segment type.
func (r *PgxSegmentRepository) ListSegmentTypes(ctx context.Context) ([]domain.SegmentType, error) {
	query := `SELECT ` + segmentTypeColumns + ` FROM segment_types ORDER BY name;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query segment types: %w", err)
	}
	defer rows.Close()

	types, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SegmentType, error) {
		return scanSegmentType(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan segment types: %w", err)
	}
	return types, nil
}

// FindSegmentByID retrieves a single segment.
func (r *PgxSegmentRepository) FindSegmentByID(ctx context.Context, segmentID string) (*domain.Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM segments WHERE segment_id = $1;`
	seg, err := scanSegment(r.pool.QueryRow(ctx, query, segmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find segment by ID %s: %w", segmentID, err)
	}
	return &seg, nil
}

// FindSegmentsByIDs retrieves several segments at once, keyed by ID.
func (r *PgxSegmentRepository) FindSegmentsByIDs(ctx context.Context, segmentIDs []string) (map[string]domain.Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM segments WHERE segment_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, segmentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments by IDs: %w", err)
	}
	defer rows.Close()

	segments := make(map[string]domain.Segment)
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments[seg.SegmentID] = seg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read segment rows: %w", err)
	}
	return segments, nil
}

// ListSegmentsByType retrieves all segments of one type.
func (r *PgxSegmentRepository) ListSegmentsByType(ctx context.Context, segmentTypeID string) ([]domain.Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM segments WHERE segment_type_id = $1 ORDER BY code;`
	rows, err := r.pool.Query(ctx, query, segmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments for type %s: %w", segmentTypeID, err)
	}
	defer rows.Close()

	segments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Segment, error) {
		return scanSegment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan segments for type %s: %w", segmentTypeID, err)
	}
	return segments, nil
}
