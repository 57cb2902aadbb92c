package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// WalletHandler handles wallet-related requests.
type WalletHandler struct {
	walletService services.WalletServicer
	auditService  services.AuditServicer
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService services.WalletServicer, auditService services.AuditServicer) *WalletHandler {
	return &WalletHandler{walletService: walletService, auditService: auditService}
}

// CreateWalletRequest represents the request payload for creating a wallet
type CreateWalletRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=100"`
	CurrencyCode   string          `json:"currency_code" binding:"required,iso4217"`
	Icon           string          `json:"icon" binding:"max=100"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsMain         bool            `json:"is_main"`
}

// UpdateWalletRequest represents the request payload for updating a wallet.
type UpdateWalletRequest struct {
	Name   string `json:"name" binding:"omitempty,min=1,max=100"`
	Icon   string `json:"icon" binding:"omitempty,max=100"`
	IsMain *bool  `json:"is_main"`
}

// WalletResponse represents a wallet in the response
type WalletResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currency_code"`
	Icon         string          `json:"icon"`
	IsMain       bool            `json:"is_main"`
}

// CreateWallet handles the creation of a new wallet
// @Summary     Create a wallet
// @Description Create a new wallet for the authenticated user
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateWalletRequest true "Wallet details"
// @Success     201 {object} WalletResponse "Wallet created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [post]
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.walletService.CreateWallet(userID, req.Name, req.CurrencyCode, req.Icon, req.InitialBalance, req.IsMain)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_WALLET", "wallet", wallet.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "currency_code": req.CurrencyCode})

	c.JSON(http.StatusCreated, gin.H{"wallet": wallet})
}

// GetUserWallets lists the user's wallets
// @Summary     List wallets
// @Description Get the authenticated user's wallets with pagination
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Wallet] "Wallets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [get]
func (h *WalletHandler) GetUserWallets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.walletService.GetUserWallets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTotalWallet returns the synthetic all-wallets aggregate
// @Summary     Get the total wallet
// @Description Get the synthetic aggregate of all wallets in the reporting currency
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} WalletResponse "Total wallet"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/total [get]
func (h *WalletHandler) GetTotalWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.walletService.GetTotalWallet(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":      result.Wallet,
		"approximate": result.Approximate(),
	})
}

// GetWalletByID returns a single wallet
// @Summary     Get a wallet
// @Description Get one of the authenticated user's wallets by ID
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Success     200 {object} WalletResponse "Wallet"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [get]
func (h *WalletHandler) GetWalletByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err := h.walletService.GetWalletByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// UpdateWallet updates a wallet's mutable fields
// @Summary     Update a wallet
// @Description Update a wallet's name, icon, or main flag
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Param       request body UpdateWalletRequest true "Fields to update"
// @Success     200 {object} WalletResponse "Updated wallet"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [put]
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.walletService.UpdateWallet(userID, c.Param("id"), services.WalletUpdateFields{
		Name:   req.Name,
		Icon:   req.Icon,
		IsMain: req.IsMain,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_WALLET", "wallet", wallet.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// DeleteWallet deletes a wallet
// @Summary     Delete a wallet
// @Description Delete a wallet that has no transactions
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Success     204 "Wallet deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     409 {object} ErrorResponse "Wallet has transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [delete]
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	walletID := c.Param("id")
	if err := h.walletService.DeleteWallet(userID, walletID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_WALLET", "wallet", walletID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
