package domain

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key, ISO 4217 (e.g., "USD")
	Name         string `json:"name"`         // e.g., "US Dollar"
	Symbol       string `json:"symbol"`       // e.g., "$"
	IsBase       bool   `json:"isBase"`       // At most one currency system-wide may be the base
	Precision    int32  `json:"precision"`    // Minor unit digits, usually 2
	AuditFields
}
