package domain

import "github.com/shopspring/decimal"

// LineType indicates whether a distribution line is a Debit or a Credit.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// DistributionLine is one debit or credit entry in a ledger posting, tagged
// with dimensional segments. A document's lines are owned by the document and
// replaced as a set; no partial edit survives a failed validation.
type DistributionLine struct {
	LineID     string            `json:"lineID"` // Primary Key (UUID)
	DocumentID string            `json:"documentID"`
	AccountID  string            `json:"accountID"`
	LineType   LineType          `json:"lineType"`
	Amount     decimal.Decimal   `json:"amount"`   // Non-negative
	Segments   map[string]string `json:"segments"` // segmentTypeID -> segmentID
	AuditFields
}
