package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/ledger"
	"moneta/internal/models"
)

// debtService derives debt state from the transaction history. Debts are not
// stored as rows of their own; an original debt/loan transaction plus its
// matched repayments fully determine the outstanding amount.
type debtService struct {
	db                 *gorm.DB
	transactionService TransactionServicer
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(db *gorm.DB, transactionService TransactionServicer) DebtServicer {
	return &debtService{db: db, transactionService: transactionService}
}

// GetDebtInfo reconciles the user's debt-related transactions into payable
// and receivable summaries. A non-nil walletID restricts the view to debts
// booked in that wallet.
func (s *debtService) GetDebtInfo(userID string, walletID *string) (*DebtInfo, error) {
	transactions, err := s.loadDebtTransactions(userID, walletID)
	if err != nil {
		return nil, err
	}

	info := &DebtInfo{
		Payable:         ledger.ReconcileDebts(transactions, ledger.PayableOriginals, ledger.PayableRepayments),
		Receivable:      ledger.ReconcileDebts(transactions, ledger.ReceivableOriginals, ledger.ReceivableRepayments),
		TotalPayable:    decimal.Zero,
		TotalReceivable: decimal.Zero,
	}
	for _, summary := range info.Payable {
		info.TotalPayable = info.TotalPayable.Add(summary.Remaining)
	}
	for _, summary := range info.Receivable {
		info.TotalReceivable = info.TotalReceivable.Add(summary.Remaining)
	}
	return info, nil
}

// RecordRepayment books a repayment transaction against an open debt. The
// repayment lands in the original's wallet with the direction implied by the
// debt's side: paying back a debt is an outflow, collecting a loan an inflow.
func (s *debtService) RecordRepayment(userID, debtID string, amount decimal.Decimal, note string, date time.Time) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "repayment amount must be positive")
	}

	transactions, err := s.loadDebtTransactions(userID, nil)
	if err != nil {
		return nil, err
	}

	summary, repaymentMeta, transactionType, found := findDebt(transactions, debtID)
	if !found {
		return nil, apperrors.ErrDebtNotFound
	}
	if summary.IsPaid {
		return nil, apperrors.ErrDebtSettled
	}

	var category models.Category
	if err := s.db.Where("user_id = ? AND meta_data = ?", userID, repaymentMeta).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	parentID := summary.Original.ID
	return s.transactionService.CreateTransaction(userID, TransactionInput{
		WalletID:      summary.Original.WalletID,
		CategoryID:    &category.ID,
		Type:          transactionType,
		Amount:        amount,
		Description:   note,
		Date:          date,
		WithPerson:    summary.PersonName,
		DebtReference: &summary.DebtID,
		ParentDebtID:  &parentID,
	})
}

// findDebt locates the summary whose key matches debtID on either side and
// returns the repayment metadata and direction for that side.
func findDebt(transactions []models.Transaction, debtID string) (ledger.DebtSummary, string, models.TransactionType, bool) {
	for _, summary := range ledger.ReconcileDebts(transactions, ledger.PayableOriginals, ledger.PayableRepayments) {
		if summary.DebtID == debtID || summary.Original.ID == debtID {
			return summary, models.MetaRepayment, models.TransactionTypeOutflow, true
		}
	}
	for _, summary := range ledger.ReconcileDebts(transactions, ledger.ReceivableOriginals, ledger.ReceivableRepayments) {
		if summary.DebtID == debtID || summary.Original.ID == debtID {
			return summary, models.MetaDebtCollection, models.TransactionTypeInflow, true
		}
	}
	return ledger.DebtSummary{}, "", "", false
}

// loadDebtTransactions fetches the user's transactions whose category carries
// debt metadata. Matching happens in memory so legacy rows with odd links are
// still classified by the same rules as everything else.
func (s *debtService) loadDebtTransactions(userID string, walletID *string) ([]models.Transaction, error) {
	query := s.db.Where("user_id = ?", userID)
	if walletID != nil {
		query = query.Where("wallet_id = ?", *walletID)
	}

	var transactions []models.Transaction
	if err := query.
		Preload("Category").
		Preload("Wallet").
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	debtRelated := transactions[:0]
	for _, tx := range transactions {
		if tx.Category != nil && tx.Category.IsDebtRelated() {
			debtRelated = append(debtRelated, tx)
		}
	}
	return debtRelated, nil
}
