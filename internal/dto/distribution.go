package dto

import (
	"github.com/finerp-io/finerp_backend/internal/core/distribution"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DistributionLineRequest is one debit or credit line in a document draft.
type DistributionLineRequest struct {
	AccountID string            `json:"accountID" binding:"required"`
	LineType  domain.LineType   `json:"lineType" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal   `json:"amount" binding:"required"`
	Segments  map[string]string `json:"segments"`
}

// DistributionLineResponse is one persisted distribution line.
type DistributionLineResponse struct {
	LineID    string            `json:"lineID"`
	AccountID string            `json:"accountID"`
	LineType  domain.LineType   `json:"lineType"`
	Amount    decimal.Decimal   `json:"amount"`
	Segments  map[string]string `json:"segments"`
}

// ViolationResponse is one balance or completeness violation, with the
// machine-checkable reason code and a rendered message.
type ViolationResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ToDistributionLineResponse converts a domain.DistributionLine to its response DTO.
func ToDistributionLineResponse(line *domain.DistributionLine) DistributionLineResponse {
	return DistributionLineResponse{
		LineID:    line.LineID,
		AccountID: line.AccountID,
		LineType:  line.LineType,
		Amount:    line.Amount,
		Segments:  line.Segments,
	}
}

// ToListDistributionLineResponse converts a slice of lines to response DTOs.
func ToListDistributionLineResponse(lines []domain.DistributionLine) []DistributionLineResponse {
	responses := make([]DistributionLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToDistributionLineResponse(&lines[i])
	}
	return responses
}

// ToViolationResponses converts balancer violations into response DTOs.
func ToViolationResponses(violations []distribution.Violation) []ViolationResponse {
	responses := make([]ViolationResponse, len(violations))
	for i, v := range violations {
		responses[i] = ViolationResponse{Reason: v.Reason(), Message: v.Error()}
	}
	return responses
}
