package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneta/internal/models"
)

// fakeConverter converts using fixed pair rates and counts invocations.
type fakeConverter struct {
	rates map[string]decimal.Decimal
	calls int
}

func (f *fakeConverter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	f.calls++
	rate, ok := f.rates[from+"->"+to]
	if !ok {
		return amount, false
	}
	return amount.Mul(rate), true
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSumInCurrency(t *testing.T) {
	t.Run("same_currency_skips_converter", func(t *testing.T) {
		conv := &fakeConverter{}
		items := []Money{
			{Amount: dec("100"), Currency: "USD"},
			{Amount: dec("50"), Currency: "USD"},
		}

		total, fallbacks := SumInCurrency(items, "USD", conv)

		if !total.Equal(dec("150")) {
			t.Errorf("expected 150, got %s", total)
		}
		if fallbacks != 0 {
			t.Errorf("expected 0 fallbacks, got %d", fallbacks)
		}
		if conv.calls != 0 {
			t.Errorf("converter should not be invoked for same-currency amounts, got %d calls", conv.calls)
		}
	})

	t.Run("converts_foreign_amounts", func(t *testing.T) {
		conv := &fakeConverter{rates: map[string]decimal.Decimal{"EUR->USD": dec("2")}}
		items := []Money{
			{Amount: dec("100"), Currency: "USD"},
			{Amount: dec("50"), Currency: "EUR"},
		}

		total, fallbacks := SumInCurrency(items, "USD", conv)

		if !total.Equal(dec("200")) {
			t.Errorf("expected 200, got %s", total)
		}
		if fallbacks != 0 {
			t.Errorf("expected 0 fallbacks, got %d", fallbacks)
		}
	})

	t.Run("missing_rate_falls_back_to_raw_amount", func(t *testing.T) {
		conv := &fakeConverter{}
		items := []Money{
			{Amount: dec("100"), Currency: "USD"},
			{Amount: dec("50"), Currency: "EUR"},
		}

		total, fallbacks := SumInCurrency(items, "USD", conv)

		// The EUR amount is included unconverted, not dropped.
		if !total.Equal(dec("150")) {
			t.Errorf("expected 150, got %s", total)
		}
		if fallbacks != 1 {
			t.Errorf("expected 1 fallback, got %d", fallbacks)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		total, fallbacks := SumInCurrency(nil, "USD", &fakeConverter{})
		if !total.IsZero() {
			t.Errorf("expected zero, got %s", total)
		}
		if fallbacks != 0 {
			t.Errorf("expected 0 fallbacks, got %d", fallbacks)
		}
	})
}

func wallet(id, currency string, balance string, isMain bool) models.Wallet {
	return models.Wallet{
		Base:         models.Base{ID: id},
		Name:         "wallet " + id,
		Balance:      dec(balance),
		CurrencyCode: currency,
		IsMain:       isMain,
	}
}

func TestTotalWallet(t *testing.T) {
	t.Run("uses_main_wallet_currency", func(t *testing.T) {
		conv := &fakeConverter{rates: map[string]decimal.Decimal{"USD->EUR": dec("0.5")}}
		wallets := []models.Wallet{
			wallet("a", "USD", "100", false),
			wallet("b", "EUR", "40", true),
		}

		total, fallbacks := TotalWallet(wallets, conv)

		if total.CurrencyCode != "EUR" {
			t.Errorf("expected EUR, got %s", total.CurrencyCode)
		}
		if !total.Balance.Equal(dec("90")) {
			t.Errorf("expected 90, got %s", total.Balance)
		}
		if fallbacks != 0 {
			t.Errorf("expected 0 fallbacks, got %d", fallbacks)
		}
	})

	t.Run("no_main_falls_back_to_lowest_id", func(t *testing.T) {
		wallets := []models.Wallet{
			wallet("b", "EUR", "40", false),
			wallet("a", "USD", "100", false),
		}

		total, _ := TotalWallet(wallets, &fakeConverter{})

		// Deterministic regardless of list order: "a" < "b".
		if total.CurrencyCode != "USD" {
			t.Errorf("expected USD, got %s", total.CurrencyCode)
		}
	})

	t.Run("sentinel_identity", func(t *testing.T) {
		total, _ := TotalWallet([]models.Wallet{wallet("a", "USD", "10", true)}, &fakeConverter{})

		if total.ID != models.TotalWalletID {
			t.Errorf("expected sentinel ID, got %s", total.ID)
		}
		if total.IsMain {
			t.Error("total wallet must not be flagged main")
		}
		if !total.IsTotal() {
			t.Error("IsTotal should report true")
		}
	})

	t.Run("missing_rate_counted", func(t *testing.T) {
		wallets := []models.Wallet{
			wallet("a", "USD", "100", true),
			wallet("b", "XYZ", "7", false),
		}

		total, fallbacks := TotalWallet(wallets, &fakeConverter{})

		if !total.Balance.Equal(dec("107")) {
			t.Errorf("expected 107, got %s", total.Balance)
		}
		if fallbacks != 1 {
			t.Errorf("expected 1 fallback, got %d", fallbacks)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		total, fallbacks := TotalWallet(nil, &fakeConverter{})
		if total.ID != models.TotalWalletID {
			t.Errorf("expected sentinel ID, got %s", total.ID)
		}
		if !total.Balance.IsZero() || fallbacks != 0 {
			t.Errorf("expected zero balance and no fallbacks, got %s / %d", total.Balance, fallbacks)
		}
	})
}
