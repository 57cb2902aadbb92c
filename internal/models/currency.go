package models

// CurrencyDisplayType controls where the symbol is rendered relative to the amount.
type CurrencyDisplayType string

const (
	CurrencyDisplayPrefix CurrencyDisplayType = "prefix"
	CurrencyDisplaySuffix CurrencyDisplayType = "suffix"
)

// Currency is immutable reference data identified by its ISO 4217 code.
// Wallets and transactions reference a currency by code, never by row ID.
type Currency struct {
	Base
	Code        string              `gorm:"uniqueIndex;size:3;not null" json:"code"`
	Name        string              `gorm:"not null" json:"name"`
	Symbol      string              `json:"symbol"`
	DisplayType CurrencyDisplayType `gorm:"default:'prefix'" json:"display_type"`
}
