package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/distribution"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/finerp-io/finerp_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices and their
// distribution lines.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// newInvoiceHandler creates a new invoiceHandler.
func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: is,
	}
}

// RegisterInvoiceRoutes registers routes related to invoices.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listOutstandingInvoices)
		invoices.GET("/:invoiceID", h.getInvoiceByID)
		invoices.PUT("/:invoiceID/lines", h.replaceInvoiceLines)
		invoices.POST("/:invoiceID/post", h.postInvoice)
	}
}

// respondDistributionError maps a distribution validation failure to a
// response. Balancer violations come back as a 422 carrying every violation
// with its reason code, so the client can fix all of them in one pass.
func respondDistributionError(c *gin.Context, logger *slog.Logger, err error) bool {
	if violations := distribution.ViolationsFrom(err); len(violations) > 0 {
		logger.Warn("Distribution validation failed", slog.Int("violations", len(violations)))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "Distribution validation failed",
			"violations": dto.ToViolationResponses(violations),
		})
		return true
	}
	if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return true
	}
	return false
}

func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, lines, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if respondDistributionError(c, logger, err) {
			return
		}
		logger.Error("Failed to create invoice in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice, lines))
}

func (h *invoiceHandler) getInvoiceByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	invoice, lines, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		} else {
			logger.Error("Failed to get invoice from service", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoice"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, lines))
}

// listOutstandingInvoices lists posted invoices with a positive outstanding
// balance, filterable by kind (AR by default).
func (h *invoiceHandler) listOutstandingInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind := domain.InvoiceKind(c.DefaultQuery("kind", string(domain.Receivable)))
	if kind != domain.Receivable && kind != domain.Payable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'kind' must be AR or AP"})
		return
	}

	invoices, err := h.invoiceService.ListOutstandingInvoices(c.Request.Context(), kind)
	if err != nil {
		logger.Error("Failed to list outstanding invoices", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListInvoiceResponse(invoices))
}

func (h *invoiceHandler) replaceInvoiceLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.ReplaceInvoiceLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReplaceInvoiceLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	lines, err := h.invoiceService.ReplaceInvoiceLines(c.Request.Context(), invoiceID, req, updaterUserID)
	if err != nil {
		if respondDistributionError(c, logger, err) {
			return
		}
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, apperrors.ErrImmutable):
			c.JSON(http.StatusConflict, gin.H{"error": "Invoice is posted and cannot be modified"})
		default:
			logger.Error("Failed to replace invoice lines", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace invoice lines"})
		}
		return
	}

	logger.Info("Invoice lines replaced", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToListDistributionLineResponse(lines))
}

func (h *invoiceHandler) postInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.PostInvoice(c.Request.Context(), invoiceID, updaterUserID)
	if err != nil {
		if respondDistributionError(c, logger, err) {
			return
		}
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, apperrors.ErrImmutable):
			c.JSON(http.StatusConflict, gin.H{"error": "Invoice is already posted"})
		default:
			logger.Error("Failed to post invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post invoice"})
		}
		return
	}

	logger.Info("Invoice posted", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, nil))
}
