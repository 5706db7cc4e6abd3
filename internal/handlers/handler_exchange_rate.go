package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/finerp-io/finerp_backend/internal/apperrors"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	portssvc "github.com/finerp-io/finerp_backend/internal/core/ports/services"
	"github.com/finerp-io/finerp_backend/internal/core/rates"
	"github.com/finerp-io/finerp_backend/internal/dto"
	"github.com/finerp-io/finerp_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rate quotes
// and conversions.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService: rs,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createQuote)
		exchangeRates.GET("", h.listQuotesForPair)
		exchangeRates.DELETE("/:quoteID", h.deactivateQuote)
	}
	rg.GET("/convert", h.convert)
}

func (h *exchangeRateHandler) createQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateQuote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	quote, err := h.rateService.CreateQuote(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating quote", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create quote in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exchange rate quote"})
		}
		return
	}

	logger.Info("Exchange rate quote created",
		slog.String("quote_id", quote.QuoteID),
		slog.String("pair", quote.FromCurrencyCode+"/"+quote.ToCurrencyCode))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(quote))
}

func (h *exchangeRateHandler) listQuotesForPair(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters 'from' and 'to' are required"})
		return
	}

	quotes, err := h.rateService.ListQuotesForPair(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list quotes from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exchange rate quotes"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(quotes))
}

func (h *exchangeRateHandler) deactivateQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	quoteID := c.Param("quoteID")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.rateService.DeactivateQuote(c.Request.Context(), quoteID, updaterUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		} else {
			logger.Error("Failed to deactivate quote", slog.String("quote_id", quoteID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate quote"})
		}
		return
	}

	logger.Info("Exchange rate quote deactivated", slog.String("quote_id", quoteID))
	c.Status(http.StatusNoContent)
}

// convert resolves a conversion rate between two currencies for a date.
// The date defaults to today and the rate type to SPOT.
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters 'from' and 'to' are required"})
		return
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'date' must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	rateType := domain.RateTypeSpot
	if raw := c.Query("rateType"); raw != "" {
		rateType = domain.RateType(raw)
	}

	rate, err := h.rateService.ResolveRate(c.Request.Context(), from, to, date, rateType)
	if err != nil {
		var malformed *rates.MalformedInputError
		switch {
		case errors.Is(err, rates.ErrRateNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No exchange rate found for the requested pair and date"})
		case errors.As(err, &malformed):
			logger.Warn("Malformed rate data during conversion", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to resolve rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		RateType:         rateType,
		Date:             date,
		Rate:             rate,
	})
}
