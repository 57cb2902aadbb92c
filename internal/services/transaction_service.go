package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// transactionService handles transaction-related business logic. Every write
// runs in a database transaction so the wallet balance and the booked row
// never diverge.
type transactionService struct {
	db            *gorm.DB
	walletService WalletServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, walletService WalletServicer) TransactionServicer {
	return &transactionService{db: db, walletService: walletService}
}

// CreateTransaction books a transaction and applies its effect to the wallet
// balance atomically.
func (s *transactionService) CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error) {
	if err := s.validateInput(userID, input); err != nil {
		return nil, err
	}

	wallet, err := s.walletService.GetWalletByID(userID, input.WalletID)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:        userID,
		WalletID:      input.WalletID,
		CategoryID:    input.CategoryID,
		Type:          input.Type,
		Amount:        input.Amount,
		Description:   input.Description,
		Date:          input.Date,
		WithPerson:    input.WithPerson,
		DebtReference: input.DebtReference,
		ParentDebtID:  input.ParentDebtID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}
		return s.walletService.UpdateWalletBalance(tx, wallet, input.Type, input.Amount)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTransactionByID(userID, transaction.ID)
}

// GetUserTransactions retrieves the user's transactions with pagination and
// optional filters, most recent first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Normalize()

	query := s.applyFilters(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter).
		Session(&gorm.Session{})

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := query.
		Preload("Wallet").
		Preload("Category").
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &response, nil
}

// GetTransactionByID retrieves a single transaction, scoped to the owning user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).
		Preload("Wallet").
		Preload("Category").
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces a transaction's fields. The old effect is
// reversed on its wallet and the new effect applied, so moving a transaction
// between wallets keeps both balances correct.
func (s *transactionService) UpdateTransaction(userID, transactionID string, input TransactionInput) (*models.Transaction, error) {
	if err := s.validateInput(userID, input); err != nil {
		return nil, err
	}

	existing, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	oldWallet, err := s.walletService.GetWalletByID(userID, existing.WalletID)
	if err != nil {
		return nil, err
	}
	newWallet := oldWallet
	if input.WalletID != existing.WalletID {
		newWallet, err = s.walletService.GetWalletByID(userID, input.WalletID)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.walletService.UpdateWalletBalance(tx, oldWallet, reverse(existing.Type), existing.Amount); err != nil {
			return err
		}
		if err := s.walletService.UpdateWalletBalance(tx, newWallet, input.Type, input.Amount); err != nil {
			return err
		}
		return tx.Model(existing).Updates(map[string]interface{}{
			"wallet_id":      input.WalletID,
			"category_id":    input.CategoryID,
			"type":           input.Type,
			"amount":         input.Amount,
			"description":    input.Description,
			"date":           input.Date,
			"with_person":    input.WithPerson,
			"debt_reference": input.DebtReference,
			"parent_debt_id": input.ParentDebtID,
		}).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction removes a transaction and reverses its wallet effect.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	wallet, err := s.walletService.GetWalletByID(userID, transaction.WalletID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.walletService.UpdateWalletBalance(tx, wallet, reverse(transaction.Type), transaction.Amount); err != nil {
			return err
		}
		return tx.Delete(transaction).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *transactionService) validateInput(userID string, input TransactionInput) error {
	if input.Type != models.TransactionTypeInflow && input.Type != models.TransactionTypeOutflow {
		return apperrors.ErrInvalidTransactionType
	}
	if input.Amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	if input.CategoryID != nil {
		var count int64
		s.db.Model(&models.Category{}).Where("id = ? AND user_id = ?", *input.CategoryID, userID).Count(&count)
		if count == 0 {
			return apperrors.ErrCategoryNotFound
		}
	}
	return nil
}

func reverse(t models.TransactionType) models.TransactionType {
	if t == models.TransactionTypeInflow {
		return models.TransactionTypeOutflow
	}
	return models.TransactionTypeInflow
}

func (s *transactionService) applyFilters(query *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.WalletID != nil {
		query = query.Where("wallet_id = ?", *filter.WalletID)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}
	return query
}
