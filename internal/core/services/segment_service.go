package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portsrepo "github.com/finerp-io/finerp_backend/internal/core/ports/repositories"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/google/uuid"
)

// segmentService provides business logic for segment types and segments.
type segmentService struct {
	segmentRepo portsrepo.SegmentRepositoryFacade
}

// NewSegmentService creates a new segment service.
func NewSegmentService(segmentRepo portsrepo.SegmentRepositoryFacade) portssvc.SegmentSvcFacade {
	return &segmentService{segmentRepo: segmentRepo}
}

var _ portssvc.SegmentSvcFacade = (*segmentService)(nil)

// CreateSegmentType handles the creation of a new segment type.
func (s *segmentService) CreateSegmentType(ctx context.Context, req dto.CreateSegmentTypeRequest, creatorUserID string) (*domain.SegmentType, error) {
	now := time.Now().UTC()
	segmentType := domain.SegmentType{
		SegmentTypeID: uuid.NewString(),
		Name:          req.Name,
		IsRequired:    req.IsRequired,
		HasHierarchy:  req.HasHierarchy,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.segmentRepo.SaveSegmentType(ctx, segmentType); err != nil {
		return nil, fmt.Errorf("failed to create segment type in service: %w", err)
	}
	return &segmentType, nil
}

// CreateSegment handles the creation of a new segment value. Hierarchy fields
// are only meaningful for types flagged with HasHierarchy; a non-root node of
// a hierarchical type must name its parent.
func (s *segmentService) CreateSegment(ctx context.Context, req dto.CreateSegmentRequest, creatorUserID string) (*domain.Segment, error) {
	segmentType, err := s.segmentRepo.FindSegmentTypeByID(ctx, req.SegmentTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: segment type %s not found", apperrors.ErrValidation, req.SegmentTypeID)
		}
		return nil, fmt.Errorf("failed to validate segment type %s: %w", req.SegmentTypeID, err)
	}

	if req.ParentCode != nil && !segmentType.HasHierarchy {
		return nil, fmt.Errorf("%w: segment type %s does not support hierarchy", apperrors.ErrValidation, segmentType.Name)
	}
	if segmentType.HasHierarchy && req.NodeType != domain.SegmentNodeParent && req.ParentCode == nil {
		return nil, fmt.Errorf("%w: %s segment of hierarchical type %s must name a parent",
			apperrors.ErrValidation, req.NodeType, segmentType.Name)
	}

	now := time.Now().UTC()
	segment := domain.Segment{
		SegmentID:     uuid.NewString(),
		SegmentTypeID: req.SegmentTypeID,
		Code:          req.Code,
		Name:          req.Name,
		ParentCode:    req.ParentCode,
		NodeType:      req.NodeType,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.segmentRepo.SaveSegment(ctx, segment); err != nil {
		return nil, fmt.Errorf("failed to create segment in service: %w", err)
	}
	return &segment, nil
}

// ListSegmentTypes retrieves every segment type.
func (s *segmentService) ListSegmentTypes(ctx context.Context) ([]domain.SegmentType, error) {
	types, err := s.segmentRepo.ListSegmentTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list segment types in service: %w", err)
	}
	if types == nil {
		return []domain.SegmentType{}, nil
	}
	return types, nil
}

// ListSegmentsByType retrieves all segments of one type.
func (s *segmentService) ListSegmentsByType(ctx context.Context, segmentTypeID string) ([]domain.Segment, error) {
	segments, err := s.segmentRepo.ListSegmentsByType(ctx, segmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments in service: %w", err)
	}
	if segments == nil {
		return []domain.Segment{}, nil
	}
	return segments, nil
}

// GetSegmentByID retrieves a specific segment by its ID.
func (s *segmentService) GetSegmentByID(ctx context.Context, segmentID string) (*domain.Segment, error) {
	segment, err := s.segmentRepo.FindSegmentByID(ctx, segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get segment by ID in service: %w", err)
	}
	return segment, nil
}
