package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/fx"
	"moneta/internal/ledger"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// walletService handles wallet-related business logic.
type walletService struct {
	db        *gorm.DB
	rates     *fx.RateTable
	ratesFile string
}

// NewWalletService creates a new WalletServicer. The rate table is loaded
// lazily on the first aggregate query so a missing snapshot file does not
// block startup.
func NewWalletService(db *gorm.DB, rates *fx.RateTable, ratesFile string) WalletServicer {
	return &walletService{db: db, rates: rates, ratesFile: ratesFile}
}

// CreateWallet creates a wallet for the user. The first wallet a user
// creates becomes main automatically; an explicit main flag demotes any
// previous main wallet.
func (s *walletService) CreateWallet(userID, name, currencyCode, icon string, initialBalance decimal.Decimal, isMain bool) (*models.Wallet, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name is required")
	}

	var currencyCount int64
	s.db.Model(&models.Currency{}).Where("code = ?", currencyCode).Count(&currencyCount)
	if currencyCount == 0 {
		return nil, apperrors.ErrCurrencyNotFound
	}

	wallet := &models.Wallet{
		UserID:       userID,
		Name:         name,
		Balance:      initialBalance,
		CurrencyCode: currencyCode,
		Icon:         icon,
		IsMain:       isMain,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Wallet{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			wallet.IsMain = true
		} else if isMain {
			if err := tx.Model(&models.Wallet{}).
				Where("user_id = ? AND is_main = ?", userID, true).
				Update("is_main", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(wallet).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetWalletByID(userID, wallet.ID)
}

// GetUserWallets retrieves the user's wallets with pagination.
func (s *walletService) GetUserWallets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error) {
	page.Normalize()

	var totalItems int64
	if err := s.db.Model(&models.Wallet{}).Where("user_id = ?", userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var wallets []models.Wallet
	if err := s.db.Where("user_id = ?", userID).
		Preload("Currency").
		Order("is_main DESC, created_at ASC").
		Scopes(pagination.Paginate(page)).
		Find(&wallets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(wallets, page.Page, page.PageSize, totalItems)
	return &response, nil
}

// GetWalletByID retrieves a single wallet, scoped to the owning user.
func (s *walletService) GetWalletByID(userID, walletID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("id = ? AND user_id = ?", walletID, userID).
		Preload("Currency").
		First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}

// UpdateWallet updates mutable wallet fields. The currency is fixed at
// creation; changing it would silently redenominate the booked history.
func (s *walletService) UpdateWallet(userID, walletID string, fields WalletUpdateFields) (*models.Wallet, error) {
	wallet, err := s.GetWalletByID(userID, walletID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != "" {
		updates["name"] = fields.Name
	}
	if fields.Icon != "" {
		updates["icon"] = fields.Icon
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if fields.IsMain != nil && *fields.IsMain && !wallet.IsMain {
			if err := tx.Model(&models.Wallet{}).
				Where("user_id = ? AND is_main = ?", userID, true).
				Update("is_main", false).Error; err != nil {
				return err
			}
			updates["is_main"] = true
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(wallet).Updates(updates).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetWalletByID(userID, walletID)
}

// DeleteWallet removes a wallet that has no booked transactions.
func (s *walletService) DeleteWallet(userID, walletID string) error {
	wallet, err := s.GetWalletByID(userID, walletID)
	if err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("wallet_id = ?", walletID).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.ErrWalletInUse
	}

	if err := s.db.Delete(wallet).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetTotalWallet builds the synthetic all-wallets aggregate in the user's
// reporting currency. Balances whose currency has no exchange rate are
// included unconverted and counted in the result.
func (s *walletService) GetTotalWallet(userID string) (*TotalWalletResult, error) {
	var wallets []models.Wallet
	if err := s.db.Where("user_id = ?", userID).
		Preload("Currency").
		Order("id ASC").
		Find(&wallets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.rates.Load(s.ratesFile)

	total, fallbacks := ledger.TotalWallet(wallets, s.rates)
	total.UserID = userID
	return &TotalWalletResult{Wallet: total, Fallbacks: fallbacks}, nil
}

// UpdateWalletBalance applies a transaction's effect to a wallet balance
// inside the caller's database transaction. Inflow adds, outflow subtracts;
// callers reverse an effect by passing the opposite type.
func (s *walletService) UpdateWalletBalance(tx *gorm.DB, wallet *models.Wallet, transactionType models.TransactionType, amount decimal.Decimal) error {
	var balance decimal.Decimal
	switch transactionType {
	case models.TransactionTypeInflow:
		balance = wallet.Balance.Add(amount)
	case models.TransactionTypeOutflow:
		balance = wallet.Balance.Sub(amount)
	default:
		return apperrors.ErrInvalidTransactionType
	}

	if err := tx.Model(wallet).Update("balance", balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	wallet.Balance = balance
	return nil
}
