package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeInflow  TransactionType = "inflow"
	TransactionTypeOutflow TransactionType = "outflow"
)

// Transaction represents a booked income or expense in a wallet's currency.
// Amounts are always positive; direction is carried by Type.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	WalletID    string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	CategoryID  *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// Debt bookkeeping. DebtReference links repayments to the original
	// obligation; ParentDebtID is the legacy link kept for old rows that
	// were written before references existed.
	WithPerson    string  `json:"with_person,omitempty"`
	DebtReference *string `gorm:"index" json:"debt_reference,omitempty"`
	ParentDebtID  *string `gorm:"type:uuid" json:"parent_debt_id,omitempty"`

	// Relationships
	Wallet   Wallet    `gorm:"foreignKey:WalletID" json:"wallet"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
