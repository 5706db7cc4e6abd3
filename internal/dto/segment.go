package dto

import (
	"github.com/finerp-io/finerp_backend/internal/core/domain"
)

// CreateSegmentTypeRequest defines the structure for creating a segment type.
type CreateSegmentTypeRequest struct {
	Name         string `json:"name" binding:"required"`
	IsRequired   bool   `json:"isRequired"`
	HasHierarchy bool   `json:"hasHierarchy"`
}

// CreateSegmentRequest defines the structure for creating a segment value.
type CreateSegmentRequest struct {
	SegmentTypeID string                 `json:"segmentTypeID" binding:"required"`
	Code          string                 `json:"code" binding:"required"`
	Name          string                 `json:"name" binding:"required"`
	ParentCode    *string                `json:"parentCode"`
	NodeType      domain.SegmentNodeType `json:"nodeType" binding:"required,oneof=parent sub_parent child"`
}

// SegmentTypeResponse defines the response structure for segment types.
type SegmentTypeResponse struct {
	SegmentTypeID string `json:"segmentTypeID"`
	Name          string `json:"name"`
	IsRequired    bool   `json:"isRequired"`
	HasHierarchy  bool   `json:"hasHierarchy"`
}

// SegmentResponse defines the response structure for segments.
type SegmentResponse struct {
	SegmentID     string                 `json:"segmentID"`
	SegmentTypeID string                 `json:"segmentTypeID"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	ParentCode    *string                `json:"parentCode"`
	NodeType      domain.SegmentNodeType `json:"nodeType"`
}

// ToSegmentTypeResponse converts a domain.SegmentType to its response DTO.
func ToSegmentTypeResponse(st *domain.SegmentType) SegmentTypeResponse {
	return SegmentTypeResponse{
		SegmentTypeID: st.SegmentTypeID,
		Name:          st.Name,
		IsRequired:    st.IsRequired,
		HasHierarchy:  st.HasHierarchy,
	}
}

// ToListSegmentTypeResponse converts segment types to response DTOs.
func ToListSegmentTypeResponse(types []domain.SegmentType) []SegmentTypeResponse {
	responses := make([]SegmentTypeResponse, len(types))
	for i := range types {
		responses[i] = ToSegmentTypeResponse(&types[i])
	}
	return responses
}

// ToSegmentResponse converts a domain.Segment to its response DTO.
func ToSegmentResponse(s *domain.Segment) SegmentResponse {
	return SegmentResponse{
		SegmentID:     s.SegmentID,
		SegmentTypeID: s.SegmentTypeID,
		Code:          s.Code,
		Name:          s.Name,
		ParentCode:    s.ParentCode,
		NodeType:      s.NodeType,
	}
}

// ToListSegmentResponse converts segments to response DTOs.
func ToListSegmentResponse(segments []domain.Segment) []SegmentResponse {
	responses := make([]SegmentResponse, len(segments))
	for i := range segments {
		responses[i] = ToSegmentResponse(&segments[i])
	}
	return responses
}
