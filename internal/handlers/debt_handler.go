package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// DebtHandler handles debt reconciliation requests.
type DebtHandler struct {
	debtService  services.DebtServicer
	auditService services.AuditServicer
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtService services.DebtServicer, auditService services.AuditServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService, auditService: auditService}
}

// RecordRepaymentRequest represents the request payload for recording a repayment
type RecordRepaymentRequest struct {
	DebtID string          `json:"debt_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note" binding:"max=500"`
	Date   *time.Time      `json:"date"`
}

// GetDebtInfo returns the reconciled debt state
// @Summary     Get debt info
// @Description Get payable and receivable debt summaries derived from the transaction history
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       wallet_id query string false "Restrict to one wallet"
// @Success     200 {object} services.DebtInfo "Debt info"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [get]
func (h *DebtHandler) GetDebtInfo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var walletID *string
	if id := c.Query("wallet_id"); id != "" {
		walletID = &id
	}

	info, err := h.debtService.GetDebtInfo(userID, walletID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// RecordRepayment books a repayment against an open debt
// @Summary     Record a repayment
// @Description Book a repayment transaction against an open debt or loan
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordRepaymentRequest true "Repayment details"
// @Success     201 {object} models.Transaction "Repayment booked"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     409 {object} ErrorResponse "Debt already settled"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/repayments [post]
func (h *DebtHandler) RecordRepayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	repayment, err := h.debtService.RecordRepayment(userID, req.DebtID, req.Amount, req.Note, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_REPAYMENT", "transaction", repayment.ID, c.ClientIP(),
		map[string]interface{}{"debt_id": req.DebtID, "amount": req.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"transaction": repayment})
}
