package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/fx"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/testutil"
)

func newTransactionFixture(t *testing.T) (*gorm.DB, TransactionServicer, WalletServicer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	walletSvc := NewWalletService(db, fx.NewRateTable(), "")
	return db, NewTransactionService(db, walletSvc), walletSvc
}

func TestCreateTransaction(t *testing.T) {
	t.Run("inflow_increases_balance", func(t *testing.T) {
		db, svc, walletSvc := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWalletWithBalance(t, db, user.ID, "USD", decimal.NewFromInt(100), true)

		tx, err := svc.CreateTransaction(user.ID, TransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionTypeInflow,
			Amount:   decimal.NewFromInt(50),
			Date:     time.Now(),
		})
		testutil.AssertNoError(t, err)
		if tx.ID == "" {
			t.Fatal("expected transaction ID")
		}

		refreshed, err := walletSvc.GetWalletByID(user.ID, wallet.ID)
		testutil.AssertNoError(t, err)
		if !refreshed.Balance.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected balance 150, got %s", refreshed.Balance)
		}
	})

	t.Run("outflow_decreases_balance", func(t *testing.T) {
		db, svc, walletSvc := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWalletWithBalance(t, db, user.ID, "USD", decimal.NewFromInt(100), true)

		_, err := svc.CreateTransaction(user.ID, TransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionTypeOutflow,
			Amount:   decimal.NewFromInt(30),
			Date:     time.Now(),
		})
		testutil.AssertNoError(t, err)

		refreshed, err := walletSvc.GetWalletByID(user.ID, wallet.ID)
		testutil.AssertNoError(t, err)
		if !refreshed.Balance.Equal(decimal.NewFromInt(70)) {
			t.Errorf("expected balance 70, got %s", refreshed.Balance)
		}
	})

	t.Run("invalid_type", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID)

		_, err := svc.CreateTransaction(user.ID, TransactionInput{
			WalletID: wallet.ID,
			Type:     "transfer",
			Amount:   decimal.NewFromInt(10),
			Date:     time.Now(),
		})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("negative_amount", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID)

		_, err := svc.CreateTransaction(user.ID, TransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionTypeInflow,
			Amount:   decimal.NewFromInt(-10),
			Date:     time.Now(),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID)

		missing := "does-not-exist"
		_, err := svc.CreateTransaction(user.ID, TransactionInput{
			WalletID:   wallet.ID,
			CategoryID: &missing,
			Type:       models.TransactionTypeInflow,
			Amount:     decimal.NewFromInt(10),
			Date:       time.Now(),
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("other_users_wallet", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, other.ID)

		_, err := svc.CreateTransaction(user.ID, TransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionTypeInflow,
			Amount:   decimal.NewFromInt(10),
			Date:     time.Now(),
		})
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
	})
}

func TestGetUserTransactions(t *testing.T) {
	db, svc, _ := newTransactionFixture(t)
	user := testutil.CreateTestUser(t, db)
	wallet := testutil.CreateTestWallet(t, db, user.ID)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []int64{10, 20, 30} {
		input := TransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionTypeOutflow,
			Amount:   decimal.NewFromInt(amount),
			Date:     base.AddDate(0, 0, i),
		}
		if amount == 20 {
			input.CategoryID = &category.ID
		}
		_, err := svc.CreateTransaction(user.ID, input)
		testutil.AssertNoError(t, err)
	}

	t.Run("newest_first", func(t *testing.T) {
		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Fatalf("expected 3 transactions, got %d", page.TotalItems)
		}
		if !page.Data[0].Amount.Equal(decimal.NewFromInt(30)) {
			t.Errorf("expected most recent first, got %s", page.Data[0].Amount)
		}
	})

	t.Run("filter_by_category", func(t *testing.T) {
		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{CategoryID: &category.ID})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 || !page.Data[0].Amount.Equal(decimal.NewFromInt(20)) {
			t.Errorf("unexpected filtered result: %+v", page.Data)
		}
	})

	t.Run("filter_by_date_range", func(t *testing.T) {
		from := base.AddDate(0, 0, 1)
		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{FromDate: &from})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 transactions from %s, got %d", from, page.TotalItems)
		}
	})

	t.Run("filter_by_amount", func(t *testing.T) {
		min := decimal.NewFromInt(15)
		max := decimal.NewFromInt(25)
		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{MinAmount: &min, MaxAmount: &max})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 {
			t.Errorf("expected 1 transaction in range, got %d", page.TotalItems)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("amount_change_rebalances", func(t *testing.T) {
		db, svc, walletSvc := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWalletWithBalance(t, db, user.ID, "USD", decimal.NewFromInt(100), true)

		tx, err := svc.CreateTransaction(user.ID, TransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionTypeOutflow,
			Amount:   decimal.NewFromInt(30),
			Date:     time.Now(),
		})
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransaction(user.ID, tx.ID, TransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionTypeOutflow,
			Amount:   decimal.NewFromInt(10),
			Date:     tx.Date,
		})
		testutil.AssertNoError(t, err)

		refreshed, err := walletSvc.GetWalletByID(user.ID, wallet.ID)
		testutil.AssertNoError(t, err)
		if !refreshed.Balance.Equal(decimal.NewFromInt(90)) {
			t.Errorf("expected balance 90 after shrinking the outflow, got %s", refreshed.Balance)
		}
	})

	t.Run("wallet_move_fixes_both_balances", func(t *testing.T) {
		db, svc, walletSvc := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		source := testutil.CreateTestWalletWithBalance(t, db, user.ID, "USD", decimal.NewFromInt(100), true)
		target := testutil.CreateTestWalletWithBalance(t, db, user.ID, "USD", decimal.NewFromInt(100), false)

		tx, err := svc.CreateTransaction(user.ID, TransactionInput{
			WalletID: source.ID,
			Type:     models.TransactionTypeOutflow,
			Amount:   decimal.NewFromInt(40),
			Date:     time.Now(),
		})
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransaction(user.ID, tx.ID, TransactionInput{
			WalletID: target.ID,
			Type:     models.TransactionTypeOutflow,
			Amount:   decimal.NewFromInt(40),
			Date:     tx.Date,
		})
		testutil.AssertNoError(t, err)

		refreshedSource, err := walletSvc.GetWalletByID(user.ID, source.ID)
		testutil.AssertNoError(t, err)
		if !refreshedSource.Balance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("source must be restored to 100, got %s", refreshedSource.Balance)
		}
		refreshedTarget, err := walletSvc.GetWalletByID(user.ID, target.ID)
		testutil.AssertNoError(t, err)
		if !refreshedTarget.Balance.Equal(decimal.NewFromInt(60)) {
			t.Errorf("target must carry the outflow, got %s", refreshedTarget.Balance)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	db, svc, walletSvc := newTransactionFixture(t)
	user := testutil.CreateTestUser(t, db)
	wallet := testutil.CreateTestWalletWithBalance(t, db, user.ID, "USD", decimal.NewFromInt(100), true)

	tx, err := svc.CreateTransaction(user.ID, TransactionInput{
		WalletID: wallet.ID,
		Type:     models.TransactionTypeOutflow,
		Amount:   decimal.NewFromInt(25),
		Date:     time.Now(),
	})
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

	refreshed, err := walletSvc.GetWalletByID(user.ID, wallet.ID)
	testutil.AssertNoError(t, err)
	if !refreshed.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("delete must reverse the effect, got %s", refreshed.Balance)
	}

	_, err = svc.GetTransactionByID(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
