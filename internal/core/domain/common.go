package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// DocumentStatus indicates the lifecycle state of a financial document.
type DocumentStatus string

const (
	Draft  DocumentStatus = "DRAFT"
	Posted DocumentStatus = "POSTED"
)

// IsEditable reports whether a document in this status may still be modified.
// Posted documents are immutable history; corrections require a new document.
func (s DocumentStatus) IsEditable() bool {
	return s == Draft
}
