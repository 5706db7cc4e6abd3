package dto

import (
	"time"

	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationRequest asks to apply Amount, in the payment's currency, against
// one invoice.
type AllocationRequest struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// CreatePaymentRequest defines the structure for creating a payment and its
// allocations in one transaction. RateType defaults to SPOT when omitted.
type CreatePaymentRequest struct {
	CurrencyCode string              `json:"currencyCode" binding:"required,len=3,uppercase"`
	TotalAmount  decimal.Decimal     `json:"totalAmount" binding:"required"`
	PaymentDate  time.Time           `json:"paymentDate" binding:"required"`
	Description  string              `json:"description"`
	RateType     domain.RateType     `json:"rateType" binding:"omitempty,ratetype"`
	Allocations  []AllocationRequest `json:"allocations" binding:"dive"`
}

// AllocationResponse is one persisted allocation.
type AllocationResponse struct {
	AllocationID  string          `json:"allocationID"`
	InvoiceID     string          `json:"invoiceID"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceAmount decimal.Decimal `json:"invoiceAmount"`
	Rate          decimal.Decimal `json:"rate"`
}

// PaymentResponse defines the structure for API responses containing payment details.
type PaymentResponse struct {
	PaymentID    string                `json:"paymentID"`
	CurrencyCode string                `json:"currencyCode"`
	TotalAmount  decimal.Decimal       `json:"totalAmount"`
	PaymentDate  time.Time             `json:"paymentDate"`
	Description  string                `json:"description"`
	Status       domain.DocumentStatus `json:"status"`
	Allocations  []AllocationResponse  `json:"allocations,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	CreatedBy    string                `json:"createdBy"`
}

// ToAllocationResponse converts a domain.Allocation to its response DTO.
func ToAllocationResponse(a *domain.Allocation) AllocationResponse {
	return AllocationResponse{
		AllocationID:  a.AllocationID,
		InvoiceID:     a.InvoiceID,
		Amount:        a.Amount,
		InvoiceAmount: a.InvoiceAmount,
		Rate:          a.Rate,
	}
}

// ToPaymentResponse converts a domain.Payment and its allocations to a response DTO.
func ToPaymentResponse(payment *domain.Payment, allocations []domain.Allocation) PaymentResponse {
	resp := PaymentResponse{
		PaymentID:    payment.PaymentID,
		CurrencyCode: payment.CurrencyCode,
		TotalAmount:  payment.TotalAmount,
		PaymentDate:  payment.PaymentDate,
		Description:  payment.Description,
		Status:       payment.Status,
		CreatedAt:    payment.CreatedAt,
		CreatedBy:    payment.CreatedBy,
	}
	for i := range allocations {
		resp.Allocations = append(resp.Allocations, ToAllocationResponse(&allocations[i]))
	}
	return resp
}

// ToListPaymentResponse converts payments without their allocations.
func ToListPaymentResponse(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i], nil)
	}
	return responses
}
