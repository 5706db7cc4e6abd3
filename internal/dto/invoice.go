package dto

import (
	"time"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines the structure for creating a draft invoice
// together with its general-ledger distribution lines.
type CreateInvoiceRequest struct {
	Kind         domain.InvoiceKind        `json:"kind" binding:"required,oneof=AR AP"`
	CurrencyCode string                    `json:"currencyCode" binding:"required,len=3,uppercase"`
	TotalAmount  decimal.Decimal           `json:"totalAmount" binding:"required"`
	InvoiceDate  time.Time                 `json:"invoiceDate" binding:"required"`
	Description  string                    `json:"description"`
	Lines        []DistributionLineRequest `json:"lines" binding:"required,dive"`
}

// ReplaceInvoiceLinesRequest replaces a draft invoice's distribution lines
// wholesale; partial edits never survive a failed validation.
type ReplaceInvoiceLinesRequest struct {
	Lines []DistributionLineRequest `json:"lines" binding:"required,dive"`
}

// InvoiceResponse defines the structure for API responses containing invoice details.
type InvoiceResponse struct {
	InvoiceID         string                     `json:"invoiceID"`
	Kind              domain.InvoiceKind         `json:"kind"`
	CurrencyCode      string                     `json:"currencyCode"`
	TotalAmount       decimal.Decimal            `json:"totalAmount"`
	OutstandingAmount decimal.Decimal            `json:"outstandingAmount"`
	InvoiceDate       time.Time                  `json:"invoiceDate"`
	Description       string                     `json:"description"`
	Status            domain.DocumentStatus      `json:"status"`
	Lines             []DistributionLineResponse `json:"lines,omitempty"`
	CreatedAt         time.Time                  `json:"createdAt"`
	CreatedBy         string                     `json:"createdBy"`
}

// ToInvoiceResponse converts a domain.Invoice and its lines to a response DTO.
func ToInvoiceResponse(invoice *domain.Invoice, lines []domain.DistributionLine) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:         invoice.InvoiceID,
		Kind:              invoice.Kind,
		CurrencyCode:      invoice.CurrencyCode,
		TotalAmount:       invoice.TotalAmount,
		OutstandingAmount: invoice.OutstandingAmount,
		InvoiceDate:       invoice.InvoiceDate,
		Description:       invoice.Description,
		Status:            invoice.Status,
		Lines:             ToListDistributionLineResponse(lines),
		CreatedAt:         invoice.CreatedAt,
		CreatedBy:         invoice.CreatedBy,
	}
}

// ToListInvoiceResponse converts invoices without their lines.
func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i], nil)
	}
	return responses
}
