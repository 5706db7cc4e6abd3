package repositories

import (
	"context"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
)

// SegmentReader defines read operations for segment types and segments
type SegmentReader interface {
	// FindSegmentTypeByID retrieves a single segment type.
	FindSegmentTypeByID(ctx context.Context, segmentTypeID string) (*domain.SegmentType, error)

	// ListSegmentTypes retrieves every segment type.
	ListSegmentTypes(ctx context.Context) ([]domain.SegmentType, error)

	// FindSegmentByID retrieves a single segment.
	FindSegmentByID(ctx context.Context, segmentID string) (*domain.Segment, error)

	// FindSegmentsByIDs retrieves several segments at once, keyed by ID.
	FindSegmentsByIDs(ctx context.Context, segmentIDs []string) (map[string]domain.Segment, error)

	// ListSegmentsByType retrieves all segments of one type.
	ListSegmentsByType(ctx context.Context, segmentTypeID string) ([]domain.Segment, error)
}

// SegmentWriter defines write operations for segment types and segments
type SegmentWriter interface {
	// SaveSegmentType persists a new segment type.
	SaveSegmentType(ctx context.Context, segmentType domain.SegmentType) error

	// SaveSegment persists a new segment.
	SaveSegment(ctx context.Context, segment domain.Segment) error
}

// SegmentRepositoryFacade combines all segment-related repository interfaces
type SegmentRepositoryFacade interface {
	SegmentReader
	SegmentWriter
}
