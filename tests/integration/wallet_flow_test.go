package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestWalletFlow_CreateListAndMainPromotion(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "wallets@test.com", "password123")

	// First wallet becomes main regardless of the flag
	firstID := app.createWallet(t, token, "Cash", "USD", "100")

	rec := app.request("GET", "/api/v1/wallets/"+firstID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get wallet failed: %d %s", rec.Code, rec.Body.String())
	}
	wallet := parseJSON(t, rec)["wallet"].(map[string]interface{})
	if wallet["is_main"] != true {
		t.Error("expected first wallet to be main")
	}

	// Promote a second wallet to main
	body := `{"name":"Bank","currency_code":"EUR","is_main":true}`
	rec = app.request("POST", "/api/v1/wallets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create second wallet failed: %d %s", rec.Code, rec.Body.String())
	}
	secondID := parseJSON(t, rec)["wallet"].(map[string]interface{})["id"].(string)

	// The first wallet is demoted
	rec = app.request("GET", "/api/v1/wallets/"+firstID, "", token)
	wallet = parseJSON(t, rec)["wallet"].(map[string]interface{})
	if wallet["is_main"] != false {
		t.Error("expected first wallet to be demoted")
	}

	// List returns the main wallet first
	rec = app.request("GET", "/api/v1/wallets", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list wallets failed: %d %s", rec.Code, rec.Body.String())
	}
	items := parseJSON(t, rec)["data"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 wallets, got %d", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["id"] != secondID {
		t.Errorf("expected main wallet first in list, got %v", first["id"])
	}
}

func TestWalletFlow_TotalWalletConvertsBalances(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "total@test.com", "password123")

	// Main wallet in EUR, second in USD. EUR is 0.5 per USD in the test
	// snapshot, so 40 EUR + 100 USD = 40 + 50 = 90 EUR.
	rec := app.request("POST", "/api/v1/wallets",
		`{"name":"Main","currency_code":"EUR","initial_balance":"40","is_main":true}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create wallet failed: %d %s", rec.Code, rec.Body.String())
	}
	app.createWallet(t, token, "Side", "USD", "100")

	rec = app.request("GET", "/api/v1/wallets/total", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("total wallet failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	wallet := result["wallet"].(map[string]interface{})
	if wallet["currency_code"] != "EUR" {
		t.Errorf("expected EUR reporting currency, got %v", wallet["currency_code"])
	}
	if wallet["balance"] != "90" {
		t.Errorf("expected balance 90, got %v", wallet["balance"])
	}
	if result["approximate"] != false {
		t.Errorf("expected exact conversion, got approximate=%v", result["approximate"])
	}
}

func TestWalletFlow_DeleteBlockedByTransactions(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "delete@test.com", "password123")

	walletID := app.createWallet(t, token, "Cash", "USD", "100")
	categoryID := app.createCategory(t, token, "Food", "expense", "")
	app.createTransaction(t, token, walletID, categoryID, "outflow", "10", "2025-06-05T00:00:00Z")

	rec := app.request("DELETE", "/api/v1/wallets/"+walletID, "", token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "WALLET_IN_USE" {
		t.Errorf("expected WALLET_IN_USE, got %v", errObj["code"])
	}
}

func TestWalletFlow_UsersCannotSeeEachOthersWallets(t *testing.T) {
	app := setupApp(t)
	tokenA, _, _ := app.registerUser(t, "alice@test.com", "password123")
	tokenB, _, _ := app.registerUser(t, "bob@test.com", "password123")

	walletID := app.createWallet(t, tokenA, "Alice's", "USD", "100")

	rec := app.request("GET", fmt.Sprintf("/api/v1/wallets/%s", walletID), "", tokenB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign wallet, got %d", rec.Code)
	}
}
