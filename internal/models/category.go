package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome   CategoryType = "income"
	CategoryTypeExpense  CategoryType = "expense"
	CategoryTypeDebtLoan CategoryType = "debt_loan"
	CategoryTypeUnknown  CategoryType = "unknown"
)

// Debt-related category metadata keys. Originals create an obligation;
// repayments reduce one. The payable side is money the user owes, the
// receivable side is money owed to the user.
const (
	MetaDebt            = "IS_DEBT"            // user borrowed, inflow
	MetaRepayment       = "IS_REPAYMENT"       // user pays a debt back, outflow
	MetaPayInterest     = "IS_PAY_INTEREST"    // interest paid, outflow
	MetaLoan            = "IS_LOAN"            // user lent out, outflow
	MetaDebtCollection  = "IS_DEBT_COLLECTION" // user collects a loan, inflow
	MetaCollectInterest = "IS_COLLECT_INTEREST"
)

// Category represents a transaction category. A category with a nil
// ParentName is a group header; one with a non-nil ParentName belongs to the
// group whose header's Title equals that name.
type Category struct {
	Base
	UserID     string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Title      string       `gorm:"not null" json:"title"`
	MetaData   string       `gorm:"index" json:"meta_data"`
	Icon       string       `json:"icon"`
	Type       CategoryType `gorm:"not null" json:"type"`
	ParentName *string      `json:"parent_name,omitempty"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}

// IsDebtRelated reports whether the category carries debt/loan metadata.
func (c *Category) IsDebtRelated() bool {
	switch c.MetaData {
	case MetaDebt, MetaRepayment, MetaPayInterest, MetaLoan, MetaDebtCollection, MetaCollectInterest:
		return true
	}
	return false
}
