package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/fx"
	"moneta/internal/ledger"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db            *gorm.DB
	walletService WalletServicer
	rates         *fx.RateTable
	ratesFile     string
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, walletService WalletServicer, rates *fx.RateTable, ratesFile string) BudgetServicer {
	return &budgetService{db: db, walletService: walletService, rates: rates, ratesFile: ratesFile}
}

// CreateBudget creates a spending target for a category over a date window.
// A nil walletID makes the budget span all wallets.
func (s *budgetService) CreateBudget(userID, categoryID string, walletID *string, amount decimal.Decimal, fromDate, endDate time.Time, isRepeating bool) (*models.Budget, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be positive")
	}
	if !endDate.After(fromDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after from date")
	}

	var categoryCount int64
	s.db.Model(&models.Category{}).Where("id = ? AND user_id = ?", categoryID, userID).Count(&categoryCount)
	if categoryCount == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	if walletID != nil {
		if _, err := s.walletService.GetWalletByID(userID, *walletID); err != nil {
			return nil, err
		}
	}

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  categoryID,
		WalletID:    walletID,
		Amount:      amount,
		FromDate:    fromDate,
		EndDate:     endDate,
		IsRepeating: isRepeating,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetBudgetByID(userID, budget.ID)
}

// GetUserBudgets retrieves the user's budgets with pagination.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Normalize()

	var totalItems int64
	if err := s.db.Model(&models.Budget{}).Where("user_id = ?", userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).
		Preload("Category").
		Preload("Wallet").
		Order("from_date DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &response, nil
}

// GetBudgetByID retrieves a single budget, scoped to the owning user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).
		Preload("Category").
		Preload("Wallet").
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates mutable budget fields.
func (s *budgetService) UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Amount != nil {
		if !fields.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be positive")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.FromDate != nil {
		updates["from_date"] = *fields.FromDate
	}
	if fields.EndDate != nil {
		updates["end_date"] = *fields.EndDate
	}
	if fields.IsRepeating != nil {
		updates["is_repeating"] = *fields.IsRepeating
	}

	fromDate, endDate := budget.FromDate, budget.EndDate
	if fields.FromDate != nil {
		fromDate = *fields.FromDate
	}
	if fields.EndDate != nil {
		endDate = *fields.EndDate
	}
	if !endDate.After(fromDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after from date")
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress computes spending against the budget over its window.
// Spending is the sum of outflow transactions in the budget's category,
// converted into the budget's reporting currency: the scoped wallet's
// currency, or the total-wallet reporting currency for all-wallet budgets.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	var targetCurrency string
	if budget.WalletID != nil {
		wallet, err := s.walletService.GetWalletByID(userID, *budget.WalletID)
		if err != nil {
			return nil, err
		}
		targetCurrency = wallet.CurrencyCode
	} else {
		total, err := s.walletService.GetTotalWallet(userID)
		if err != nil {
			return nil, err
		}
		targetCurrency = total.Wallet.CurrencyCode
	}

	query := s.db.Where("user_id = ? AND category_id = ? AND type = ?", userID, budget.CategoryID, models.TransactionTypeOutflow).
		Where("date >= ? AND date <= ?", budget.FromDate, budget.EndDate)
	if budget.WalletID != nil {
		query = query.Where("wallet_id = ?", *budget.WalletID)
	}

	var transactions []models.Transaction
	if err := query.Preload("Wallet").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	items := make([]ledger.Money, 0, len(transactions))
	for _, tx := range transactions {
		items = append(items, ledger.Money{Amount: tx.Amount, Currency: tx.Wallet.CurrencyCode})
	}

	s.rates.Load(s.ratesFile)
	spent, fallbacks := ledger.SumInCurrency(items, targetCurrency, s.rates)

	percentage := 0.0
	if budget.Amount.IsPositive() {
		percentage = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return &BudgetProgress{
		BudgetID:   budget.ID,
		Budgeted:   budget.Amount,
		Spent:      spent,
		Remaining:  budget.Amount.Sub(spent),
		Percentage: percentage,
		Currency:   targetCurrency,
		Fallbacks:  fallbacks,
	}, nil
}
