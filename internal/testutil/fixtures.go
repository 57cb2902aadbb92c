package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"moneta/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCurrency inserts a currency with the given code, skipping the
// insert if the code is already present.
func CreateTestCurrency(t *testing.T, db *gorm.DB, code string) *models.Currency {
	t.Helper()

	var existing models.Currency
	if err := db.Where("code = ?", code).First(&existing).Error; err == nil {
		return &existing
	}

	currency := &models.Currency{
		Code:        code,
		Name:        fmt.Sprintf("Test Currency %s", code),
		Symbol:      code,
		DisplayType: models.CurrencyDisplayPrefix,
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestWallet creates a wallet with zero balance in USD.
func CreateTestWallet(t *testing.T, db *gorm.DB, userID string) *models.Wallet {
	t.Helper()
	return CreateTestWalletWithBalance(t, db, userID, "USD", decimal.Zero, false)
}

// CreateTestWalletWithBalance creates a wallet with the given currency,
// balance, and main flag.
func CreateTestWalletWithBalance(t *testing.T, db *gorm.DB, userID, currencyCode string, balance decimal.Decimal, isMain bool) *models.Wallet {
	t.Helper()

	CreateTestCurrency(t, db, currencyCode)

	wallet := &models.Wallet{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Wallet %d", nextID()),
		Balance:      balance,
		CurrencyCode: currencyCode,
		IsMain:       isMain,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Title:  fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestDebtCategory creates a debt_loan category carrying the given
// metadata key.
func CreateTestDebtCategory(t *testing.T, db *gorm.DB, userID, metaData string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Debt Category %d", nextID()),
		MetaData: metaData,
		Type:     models.CategoryTypeDebtLoan,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test debt category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, walletID string, txType models.TransactionType, amount decimal.Decimal) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:   userID,
		WalletID: walletID,
		Type:     txType,
		Amount:   amount,
		Date:     time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget for the given category spanning the
// current month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string) *models.Budget {
	t.Helper()

	now := time.Now()
	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     decimal.NewFromInt(100),
		FromDate:   now.AddDate(0, 0, -7),
		EndDate:    now.AddDate(0, 0, 21),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
