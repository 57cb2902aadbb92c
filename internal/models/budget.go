package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a spending target for a category over a date window.
// A nil WalletID means the budget applies across all wallets and progress is
// computed against the synthetic total wallet.
type Budget struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  string          `gorm:"type:uuid;not null" json:"category_id"`
	WalletID    *string         `gorm:"type:uuid" json:"wallet_id,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	FromDate    time.Time       `gorm:"not null" json:"from_date"`
	EndDate     time.Time       `gorm:"not null" json:"end_date"`
	IsRepeating bool            `gorm:"default:false" json:"is_repeating"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
	Wallet   *Wallet  `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
}
