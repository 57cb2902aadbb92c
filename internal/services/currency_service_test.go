package services

import (
	"testing"

	"moneta/internal/testutil"
)

func TestSeedDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCurrencyService(db)

	testutil.AssertNoError(t, svc.SeedDefaults())

	currencies, err := svc.ListCurrencies()
	testutil.AssertNoError(t, err)
	if len(currencies) != len(defaultCurrencies) {
		t.Fatalf("expected %d currencies, got %d", len(defaultCurrencies), len(currencies))
	}

	// Seeding again must not duplicate rows.
	testutil.AssertNoError(t, svc.SeedDefaults())
	currencies, err = svc.ListCurrencies()
	testutil.AssertNoError(t, err)
	if len(currencies) != len(defaultCurrencies) {
		t.Errorf("reseeding duplicated rows: %d", len(currencies))
	}
}

func TestGetCurrencyByCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCurrencyService(db)
	testutil.AssertNoError(t, svc.SeedDefaults())

	t.Run("case_insensitive", func(t *testing.T) {
		currency, err := svc.GetCurrencyByCode("usd")
		testutil.AssertNoError(t, err)
		if currency.Code != "USD" {
			t.Errorf("expected USD, got %s", currency.Code)
		}
	})

	t.Run("unknown_code", func(t *testing.T) {
		_, err := svc.GetCurrencyByCode("ZZZ")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})
}
