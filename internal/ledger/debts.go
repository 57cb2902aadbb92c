package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/models"
)

// Classification of debt categories by metadata key. Originals create an
// obligation; repayments reduce one. Payable is money the user owes,
// receivable is money owed to the user. The arithmetic is identical for
// both directions; the split only drives labeling.
var (
	PayableOriginals     = []string{models.MetaDebt}
	PayableRepayments    = []string{models.MetaRepayment}
	ReceivableOriginals  = []string{models.MetaLoan}
	ReceivableRepayments = []string{models.MetaDebtCollection}
)

// DebtSummary is the derived payment state of one original debt or loan
// transaction. Rebuilt from the transaction set on each query.
type DebtSummary struct {
	DebtID      string               `json:"debt_id"`
	PersonName  string               `json:"person_name"`
	Original    models.Transaction   `json:"original_transaction"`
	Repayments  []models.Transaction `json:"repayment_transactions"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	PaidAmount  decimal.Decimal      `json:"paid_amount"`
	Remaining   decimal.Decimal      `json:"remaining_amount"`
	IsPaid      bool                 `json:"is_paid"`
	Progress    float64              `json:"progress"`
	LastPayment *time.Time           `json:"last_payment_date,omitempty"`
	Currency    string               `json:"currency"`
}

// ReconcileDebts matches repayment transactions to their original debt/loan
// transactions and computes payment progress per original.
//
// A transaction is an original when its category metadata is in the
// originals set. A repayment belongs to original O when its DebtReference
// equals O's ID or O's own reference, or — for rows written before
// references existed — when its ParentDebtID equals O's ID. Repayments that
// match no original are stale data that cannot be attributed and are
// silently excluded.
//
// Overpayment is clipped: remaining never goes negative and progress is
// clamped to [0, 1].
func ReconcileDebts(transactions []models.Transaction, originals, repayments []string) []DebtSummary {
	isOriginal := metaSet(originals)
	isRepayment := metaSet(repayments)

	var origs []models.Transaction
	byID := make(map[string]int)
	byRef := make(map[string]int)
	for _, tx := range transactions {
		if tx.Category == nil || !isOriginal[tx.Category.MetaData] {
			continue
		}
		idx := len(origs)
		origs = append(origs, tx)
		byID[tx.ID] = idx
		if tx.DebtReference != nil && *tx.DebtReference != "" {
			if _, taken := byRef[*tx.DebtReference]; !taken {
				byRef[*tx.DebtReference] = idx
			}
		}
	}
	if len(origs) == 0 {
		return nil
	}

	paymentsByOrig := make(map[int][]models.Transaction)
	for _, tx := range transactions {
		if tx.Category == nil || !isRepayment[tx.Category.MetaData] {
			continue
		}

		idx, ok := -1, false
		if tx.DebtReference != nil && *tx.DebtReference != "" {
			if i, found := byID[*tx.DebtReference]; found {
				idx, ok = i, true
			} else if i, found := byRef[*tx.DebtReference]; found {
				idx, ok = i, true
			}
		}
		if !ok && tx.ParentDebtID != nil {
			if i, found := byID[*tx.ParentDebtID]; found {
				idx, ok = i, true
			}
		}
		if !ok {
			continue
		}
		paymentsByOrig[idx] = append(paymentsByOrig[idx], tx)
	}

	summaries := make([]DebtSummary, 0, len(origs))
	for i, orig := range origs {
		payments := paymentsByOrig[i]
		sort.SliceStable(payments, func(a, b int) bool {
			return payments[a].Date.Before(payments[b].Date)
		})
		summaries = append(summaries, summarize(orig, payments))
	}
	return summaries
}

func summarize(orig models.Transaction, payments []models.Transaction) DebtSummary {
	paid := decimal.Zero
	var last *time.Time
	for i := range payments {
		paid = paid.Add(payments[i].Amount)
		if last == nil || payments[i].Date.After(*last) {
			last = &payments[i].Date
		}
	}

	total := orig.Amount
	remaining := total.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	progress := 0.0
	if total.IsPositive() {
		progress = paid.Div(total).InexactFloat64()
		if progress > 1 {
			progress = 1
		}
		if progress < 0 {
			progress = 0
		}
	}

	debtID := orig.ID
	if orig.DebtReference != nil && *orig.DebtReference != "" {
		debtID = *orig.DebtReference
	}

	return DebtSummary{
		DebtID:      debtID,
		PersonName:  orig.WithPerson,
		Original:    orig,
		Repayments:  payments,
		TotalAmount: total,
		PaidAmount:  paid,
		Remaining:   remaining,
		IsPaid:      !remaining.IsPositive(),
		Progress:    progress,
		LastPayment: last,
		Currency:    orig.Wallet.CurrencyCode,
	}
}

func metaSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
