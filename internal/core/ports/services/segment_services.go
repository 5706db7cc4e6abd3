package services

import (
	"context"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/finerp-io/finerp_backend/internal/dto"
)

// SegmentReaderSvc defines read operations for segment types and segments
type SegmentReaderSvc interface {
	// ListSegmentTypes retrieves every segment type.
	ListSegmentTypes(ctx context.Context) ([]domain.SegmentType, error)

	// ListSegmentsByType retrieves all segments of one type.
	ListSegmentsByType(ctx context.Context, segmentTypeID string) ([]domain.Segment, error)

	// GetSegmentByID retrieves a single segment.
	GetSegmentByID(ctx context.Context, segmentID string) (*domain.Segment, error)
}

// SegmentWriterSvc defines write operations for segment types and segments
type SegmentWriterSvc interface {
	// CreateSegmentType persists a new segment type.
	CreateSegmentType(ctx context.Context, req dto.CreateSegmentTypeRequest, creatorUserID string) (*domain.SegmentType, error)

	// CreateSegment persists a new segment value.
	CreateSegment(ctx context.Context, req dto.CreateSegmentRequest, creatorUserID string) (*domain.Segment, error)
}

// SegmentSvcFacade combines all segment-related service interfaces
type SegmentSvcFacade interface {
	SegmentReaderSvc
	SegmentWriterSvc
}
