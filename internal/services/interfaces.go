package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/ledger"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// WalletUpdateFields holds optional fields for a wallet update.
type WalletUpdateFields struct {
	Name   string
	Icon   string
	IsMain *bool
}

// TotalWalletResult is the synthetic all-wallets aggregate plus a count of
// balances that could not be converted into the reporting currency.
type TotalWalletResult struct {
	Wallet    models.Wallet `json:"wallet"`
	Fallbacks int           `json:"-"`
}

// Approximate reports whether any balance was included unconverted.
func (r *TotalWalletResult) Approximate() bool { return r.Fallbacks > 0 }

// WalletServicer defines the contract for wallet-related business logic.
type WalletServicer interface {
	CreateWallet(userID, name, currencyCode, icon string, initialBalance decimal.Decimal, isMain bool) (*models.Wallet, error)
	GetUserWallets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error)
	GetWalletByID(userID, walletID string) (*models.Wallet, error)
	UpdateWallet(userID, walletID string, fields WalletUpdateFields) (*models.Wallet, error)
	DeleteWallet(userID, walletID string) error
	GetTotalWallet(userID string) (*TotalWalletResult, error)
	UpdateWalletBalance(tx *gorm.DB, wallet *models.Wallet, transactionType models.TransactionType, amount decimal.Decimal) error
}

// CurrencyServicer defines the contract for currency reference data.
type CurrencyServicer interface {
	ListCurrencies() ([]models.Currency, error)
	GetCurrencyByCode(code string) (*models.Currency, error)
	SeedDefaults() error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, title string, categoryType models.CategoryType, icon, metaData string, parentName *string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, title, icon string, parentName *string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	GetCategoryGroups(userID string) (map[models.CategoryType][]ledger.CategoryGroup, error)
	GetCategoryGroupsByType(userID string, categoryType models.CategoryType) ([]ledger.CategoryGroup, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	WalletID   *string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// TransactionInput holds the fields for creating or replacing a transaction.
type TransactionInput struct {
	WalletID      string
	CategoryID    *string
	Type          models.TransactionType
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
	WithPerson    string
	DebtReference *string
	ParentDebtID  *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetProgress contains spending vs budget data over the budget's window.
// Spent is denominated in the budget's reporting currency; Fallbacks counts
// transactions whose amount could not be converted into it.
type BudgetProgress struct {
	BudgetID   string          `json:"budget_id"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	Currency   string          `json:"currency"`
	Fallbacks  int             `json:"-"`
}

// BudgetUpdateFields holds optional fields for a budget update.
type BudgetUpdateFields struct {
	Amount      *decimal.Decimal
	FromDate    *time.Time
	EndDate     *time.Time
	IsRepeating *bool
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID string, walletID *string, amount decimal.Decimal, fromDate, endDate time.Time, isRepeating bool) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
}

// DebtInfo bundles the reconciled debt state, split by direction.
type DebtInfo struct {
	Payable         []ledger.DebtSummary `json:"payable"`
	Receivable      []ledger.DebtSummary `json:"receivable"`
	TotalPayable    decimal.Decimal      `json:"total_payable"`
	TotalReceivable decimal.Decimal      `json:"total_receivable"`
}

// DebtServicer defines the contract for debt/loan reconciliation.
type DebtServicer interface {
	GetDebtInfo(userID string, walletID *string) (*DebtInfo, error)
	RecordRepayment(userID, debtID string, amount decimal.Decimal, note string, date time.Time) (*models.Transaction, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
