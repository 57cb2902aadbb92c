package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"moneta/internal/models"
)

// SumInCurrency sums the given amounts in the target currency. Amounts
// already denominated in the target are used as-is without touching the
// converter. When a rate is missing the raw amount is included unconverted
// rather than dropped; the second return value counts those fallbacks so
// callers can flag the total as approximate.
func SumInCurrency(items []Money, target string, conv Converter) (decimal.Decimal, int) {
	total := decimal.Zero
	fallbacks := 0

	for _, item := range items {
		if item.Currency == target {
			total = total.Add(item.Amount)
			continue
		}

		converted, ok := conv.Convert(item.Amount, item.Currency, target)
		if !ok {
			total = total.Add(item.Amount)
			fallbacks++
			continue
		}
		total = total.Add(converted)
	}

	return total, fallbacks
}

// TotalWallet builds the synthetic all-wallets aggregate. The reporting
// currency is the main wallet's; when no wallet is flagged main the wallet
// with the lowest ID wins, which is stable across query re-execution
// (UUIDv7 IDs sort by creation time). The returned wallet carries the
// sentinel ID and is never persisted.
func TotalWallet(wallets []models.Wallet, conv Converter) (models.Wallet, int) {
	total := models.Wallet{
		Base:   models.Base{ID: models.TotalWalletID},
		Name:   "All Wallets",
		Icon:   "ic_category_all",
		IsMain: false,
	}
	if len(wallets) == 0 {
		return total, 0
	}

	reference := wallets[0]
	for _, w := range wallets[1:] {
		if w.IsMain && !reference.IsMain {
			reference = w
			continue
		}
		if w.IsMain == reference.IsMain && strings.Compare(w.ID, reference.ID) < 0 {
			reference = w
		}
	}
	total.CurrencyCode = reference.CurrencyCode
	total.Currency = reference.Currency
	total.UserID = reference.UserID

	items := make([]Money, 0, len(wallets))
	for _, w := range wallets {
		items = append(items, Money{Amount: w.Balance, Currency: w.CurrencyCode})
	}

	balance, fallbacks := SumInCurrency(items, total.CurrencyCode, conv)
	total.Balance = balance
	return total, fallbacks
}
