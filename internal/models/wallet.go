package models

import "github.com/shopspring/decimal"

// TotalWalletID is the sentinel ID of the synthetic all-wallets aggregate.
// A wallet with this ID is derived on demand and never persisted.
const TotalWalletID = "total"

// Wallet represents a named monetary account holding a balance in a single
// currency. At most one wallet per user is flagged main; the main wallet's
// currency is the reporting currency for cross-wallet aggregates.
type Wallet struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"not null" json:"name"`
	Balance      decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"balance"`
	CurrencyCode string          `gorm:"size:3;not null" json:"currency_code"`
	Icon         string          `json:"icon"`
	IsMain       bool            `gorm:"default:false" json:"is_main"`

	// Relationships
	Currency     *Currency     `gorm:"foreignKey:CurrencyCode;references:Code" json:"currency,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}

// IsTotal reports whether this wallet is the synthetic aggregate.
func (w *Wallet) IsTotal() bool {
	return w.ID == TotalWalletID
}
