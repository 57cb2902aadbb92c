package fx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

const ratesJSON = `{
	"disclaimer": "test",
	"license": "test",
	"timestamp": 1700000000,
	"base": "USD",
	"rates": {
		"USD": 1,
		"EUR": 0.5,
		"VND": 25000
	}
}`

func writeRates(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exchanger.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write rates file: %v", err)
	}
	return path
}

func TestRateTableLoad(t *testing.T) {
	t.Run("loads_snapshot", func(t *testing.T) {
		table := NewRateTable()
		table.Load(writeRates(t, ratesJSON))

		if !table.Loaded() {
			t.Fatal("expected table to be loaded")
		}
	})

	t.Run("load_is_idempotent", func(t *testing.T) {
		table := NewRateTable()
		path := writeRates(t, ratesJSON)
		table.Load(path)
		table.Load(path)
		table.Load("does-not-matter-anymore.json")

		if !table.Loaded() {
			t.Fatal("repeated loads must not unload the table")
		}
	})

	t.Run("missing_file_leaves_table_empty", func(t *testing.T) {
		table := NewRateTable()
		table.Load(filepath.Join(t.TempDir(), "missing.json"))

		if table.Loaded() {
			t.Fatal("expected unloaded table")
		}
		if _, ok := table.Rate("USD", "EUR"); ok {
			t.Error("empty table must report no rate")
		}
	})

	t.Run("malformed_file_leaves_table_empty", func(t *testing.T) {
		table := NewRateTable()
		table.Load(writeRates(t, "{not json"))

		if table.Loaded() {
			t.Fatal("expected unloaded table")
		}
	})
}

func TestRateTableConvert(t *testing.T) {
	table := NewRateTable()
	table.Load(writeRates(t, ratesJSON))

	t.Run("same_currency_is_identity", func(t *testing.T) {
		amount := decimal.NewFromInt(42)
		got, ok := table.Convert(amount, "XXX", "XXX")
		if !ok || !got.Equal(amount) {
			t.Errorf("expected identity conversion, got %s (%v)", got, ok)
		}
	})

	t.Run("cross_rate_via_base", func(t *testing.T) {
		got, ok := table.Convert(decimal.NewFromInt(10), "EUR", "VND")
		if !ok {
			t.Fatal("expected a rate")
		}
		// 10 EUR -> 20 USD -> 500000 VND
		if !got.Equal(decimal.NewFromInt(500000)) {
			t.Errorf("expected 500000, got %s", got)
		}
	})

	t.Run("unknown_currency_reports_no_rate", func(t *testing.T) {
		amount := decimal.NewFromInt(7)
		got, ok := table.Convert(amount, "XYZ", "USD")
		if ok {
			t.Error("expected no rate for unknown currency")
		}
		if !got.Equal(amount) {
			t.Errorf("amount must be returned unchanged, got %s", got)
		}
	})
}
