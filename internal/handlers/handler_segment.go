package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/finerp-io/finerp_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// segmentHandler handles HTTP requests related to segment types and segments.
type segmentHandler struct {
	segmentService portssvc.SegmentSvcFacade
}

// newSegmentHandler creates a new segmentHandler.
func newSegmentHandler(ss portssvc.SegmentSvcFacade) *segmentHandler {
	return &segmentHandler{
		segmentService: ss,
	}
}

// registerSegmentRoutes registers routes related to segment types and segments.
func registerSegmentRoutes(rg *gin.RouterGroup, segmentService portssvc.SegmentSvcFacade) {
	h := newSegmentHandler(segmentService)

	segmentTypes := rg.Group("/segment-types")
	{
		segmentTypes.POST("", h.createSegmentType)
		segmentTypes.GET("", h.listSegmentTypes)
		segmentTypes.GET("/:segmentTypeID/segments", h.listSegmentsByType)
	}

	segments := rg.Group("/segments")
	{
		segments.POST("", h.createSegment)
		segments.GET("/:segmentID", h.getSegmentByID)
	}
}

func (h *segmentHandler) createSegmentType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSegmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSegmentType", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	segmentType, err := h.segmentService.CreateSegmentType(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Error("Failed to create segment type", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create segment type"})
		return
	}

	logger.Info("Segment type created", slog.String("segment_type_id", segmentType.SegmentTypeID))
	c.JSON(http.StatusCreated, dto.ToSegmentTypeResponse(segmentType))
}

func (h *segmentHandler) listSegmentTypes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	types, err := h.segmentService.ListSegmentTypes(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list segment types", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list segment types"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListSegmentTypeResponse(types))
}

func (h *segmentHandler) listSegmentsByType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	segmentTypeID := c.Param("segmentTypeID")

	segments, err := h.segmentService.ListSegmentsByType(c.Request.Context(), segmentTypeID)
	if err != nil {
		logger.Error("Failed to list segments", slog.String("segment_type_id", segmentTypeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list segments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListSegmentResponse(segments))
}

func (h *segmentHandler) createSegment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSegment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	segment, err := h.segmentService.CreateSegment(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating segment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create segment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create segment"})
		}
		return
	}

	logger.Info("Segment created", slog.String("segment_id", segment.SegmentID))
	c.JSON(http.StatusCreated, dto.ToSegmentResponse(segment))
}

func (h *segmentHandler) getSegmentByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	segmentID := c.Param("segmentID")

	segment, err := h.segmentService.GetSegmentByID(c.Request.Context(), segmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Segment not found"})
		} else {
			logger.Error("Failed to get segment", slog.String("segment_id", segmentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve segment"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSegmentResponse(segment))
}
