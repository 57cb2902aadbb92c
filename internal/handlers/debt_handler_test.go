package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/ledger"
	"moneta/internal/models"
	"moneta/internal/services"
)

type mockDebtService struct {
	getInfoFn   func(userID string, walletID *string) (*services.DebtInfo, error)
	repaymentFn func(userID, debtID string, amount decimal.Decimal, note string, date time.Time) (*models.Transaction, error)
}

var _ services.DebtServicer = (*mockDebtService)(nil)

func (m *mockDebtService) GetDebtInfo(userID string, walletID *string) (*services.DebtInfo, error) {
	if m.getInfoFn != nil {
		return m.getInfoFn(userID, walletID)
	}
	return &services.DebtInfo{}, nil
}

func (m *mockDebtService) RecordRepayment(userID, debtID string, amount decimal.Decimal, note string, date time.Time) (*models.Transaction, error) {
	if m.repaymentFn != nil {
		return m.repaymentFn(userID, debtID, amount, note, date)
	}
	return &models.Transaction{Base: models.Base{ID: "t1"}, UserID: userID, Amount: amount}, nil
}

func setupDebtRouter(handler *DebtHandler) *gin.Engine {
	r := gin.New()
	authed := r.Group("/", injectUserID("u1"))
	authed.GET("/debts", handler.GetDebtInfo)
	authed.POST("/debts/repayments", handler.RecordRepayment)
	return r
}

func TestDebtHandler_GetDebtInfo(t *testing.T) {
	t.Run("returns reconciled debt state", func(t *testing.T) {
		handler := NewDebtHandler(&mockDebtService{
			getInfoFn: func(userID string, walletID *string) (*services.DebtInfo, error) {
				return &services.DebtInfo{
					Payable:      []ledger.DebtSummary{{DebtID: "d1", Remaining: decimal.NewFromInt(40)}},
					TotalPayable: decimal.NewFromInt(40),
				}, nil
			},
		}, &mockAuditService{})
		r := setupDebtRouter(handler)

		rec := doRequest(r, "GET", "/debts", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		payable, ok := result["payable"].([]interface{})
		if !ok || len(payable) != 1 {
			t.Errorf("expected one payable debt, got %v", result)
		}
	})

	t.Run("forwards wallet filter", func(t *testing.T) {
		var gotWalletID *string
		handler := NewDebtHandler(&mockDebtService{
			getInfoFn: func(userID string, walletID *string) (*services.DebtInfo, error) {
				gotWalletID = walletID
				return &services.DebtInfo{}, nil
			},
		}, &mockAuditService{})
		r := setupDebtRouter(handler)

		rec := doRequest(r, "GET", "/debts?wallet_id=w9", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotWalletID == nil || *gotWalletID != "w9" {
			t.Errorf("expected wallet filter w9, got %v", gotWalletID)
		}
	})
}

func TestDebtHandler_RecordRepayment(t *testing.T) {
	t.Run("returns 201 and defaults date to now", func(t *testing.T) {
		var gotDate time.Time
		handler := NewDebtHandler(&mockDebtService{
			repaymentFn: func(userID, debtID string, amount decimal.Decimal, note string, date time.Time) (*models.Transaction, error) {
				gotDate = date
				return &models.Transaction{Base: models.Base{ID: "t1"}, Amount: amount}, nil
			},
		}, &mockAuditService{})
		r := setupDebtRouter(handler)

		before := time.Now()
		rec := doRequest(r, "POST", "/debts/repayments", `{"debt_id":"d1","amount":"25"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDate.Before(before) {
			t.Errorf("expected date to default to now, got %v", gotDate)
		}
	})

	t.Run("rejects missing debt id", func(t *testing.T) {
		handler := NewDebtHandler(&mockDebtService{}, &mockAuditService{})
		r := setupDebtRouter(handler)

		rec := doRequest(r, "POST", "/debts/repayments", `{"amount":"25"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("maps unknown debt to 404", func(t *testing.T) {
		handler := NewDebtHandler(&mockDebtService{
			repaymentFn: func(userID, debtID string, amount decimal.Decimal, note string, date time.Time) (*models.Transaction, error) {
				return nil, apperrors.ErrDebtNotFound
			},
		}, &mockAuditService{})
		r := setupDebtRouter(handler)

		rec := doRequest(r, "POST", "/debts/repayments", `{"debt_id":"missing","amount":"25"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DEBT_NOT_FOUND")
	})

	t.Run("maps settled debt to 409", func(t *testing.T) {
		handler := NewDebtHandler(&mockDebtService{
			repaymentFn: func(userID, debtID string, amount decimal.Decimal, note string, date time.Time) (*models.Transaction, error) {
				return nil, apperrors.ErrDebtSettled
			},
		}, &mockAuditService{})
		r := setupDebtRouter(handler)

		rec := doRequest(r, "POST", "/debts/repayments", `{"debt_id":"d1","amount":"25"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DEBT_SETTLED")
	})
}
