package handler

import (
	"context"
	"strconv"

	"smb-finance-backend/internal/adapter/http/dto"
	"smb-finance-backend/internal/adapter/http/middleware"
	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/pkg/apperror"
	"smb-finance-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet bookkeeping endpoints.
type WalletHandler struct {
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.ledgerSvc.CreateWallet(c.Request.Context(), ports.CreateWalletRequest{
		BusinessID: businessID,
		Name:       req.Name,
		Type:       domain.WalletType(req.Type),
		Currency:   req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWalletResponse(wallet))
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	wallet, err := h.ledgerSvc.GetWallet(c.Request.Context(), businessID, walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// List handles GET /api/v1/wallets.
func (h *WalletHandler) List(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	wallets, err := h.ledgerSvc.ListWallets(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		items = append(items, toWalletResponse(&wallets[i]))
	}
	response.OK(c, items)
}

// Deactivate handles DELETE /api/v1/wallets/:id.
func (h *WalletHandler) Deactivate(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.ledgerSvc.DeactivateWallet(c.Request.Context(), businessID, walletID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deactivated": true})
}

// Credit handles POST /api/v1/wallets/:id/credit.
func (h *WalletHandler) Credit(c *gin.Context) {
	h.applyEntry(c, h.ledgerSvc.Credit)
}

// Debit handles POST /api/v1/wallets/:id/debit.
func (h *WalletHandler) Debit(c *gin.Context) {
	h.applyEntry(c, h.ledgerSvc.Debit)
}

func (h *WalletHandler) applyEntry(c *gin.Context, op func(ctx context.Context, req ports.EntryRequest) (*ports.EntryResult, error)) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := op(c.Request.Context(), ports.EntryRequest{
		BusinessID:  businessID,
		WalletID:    walletID,
		Amount:      req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.EntryResponse{
		Wallet:      toWalletResponse(result.Wallet),
		Transaction: toTransactionResponse(result.Transaction, result.Wallet.Currency),
	})
}

// Transfer handles POST /api/v1/transfers.
func (h *WalletHandler) Transfer(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	fromID, _ := uuid.Parse(req.FromWalletID)
	toID, _ := uuid.Parse(req.ToWalletID)

	result, err := h.ledgerSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		BusinessID:   businessID,
		FromWalletID: fromID,
		ToWalletID:   toID,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TransferResponse{
		FromWallet: toWalletResponse(result.FromWallet),
		ToWallet:   toWalletResponse(result.ToWallet),
		DebitLeg:   toTransactionResponse(result.DebitLeg, result.FromWallet.Currency),
		CreditLeg:  toTransactionResponse(result.CreditLeg, result.ToWallet.Currency),
	})
}

// ListTransactions handles GET /api/v1/wallets/:id/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.TransactionListParams{
		WalletID: walletID,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
	if t := c.Query("type"); t != "" {
		kind := domain.TransactionType(t)
		if kind != domain.TransactionTypeCredit && kind != domain.TransactionTypeDebit {
			response.Error(c, apperror.Validation("type must be credit or debit"))
			return
		}
		params.Type = &kind
	}

	// The wallet is fetched for its currency, which fixes how many
	// fraction digits the amounts render with.
	wallet, err := h.ledgerSvc.GetWallet(c.Request.Context(), businessID, walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	txs, total, err := h.ledgerSvc.ListTransactions(c.Request.Context(), businessID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, toTransactionResponse(&txs[i], wallet.Currency))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// Responses render amounts with the currency's exact fraction digits.
func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		Type:      string(w.Type),
		Currency:  w.Currency,
		Balance:   w.Balance.StringFixed(w.Currency),
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt.Format(timeLayout),
	}
}

func toTransactionResponse(tx *domain.Transaction, currency string) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:           tx.ID.String(),
		WalletID:     tx.WalletID.String(),
		Type:         string(tx.Type),
		Amount:       tx.Amount.StringFixed(currency),
		Description:  tx.Description,
		Reference:    tx.Reference,
		BalanceAfter: tx.BalanceAfter.StringFixed(currency),
		CreatedAt:    tx.CreatedAt.Format(timeLayout),
	}
	if tx.RelatedTransactionID != nil {
		s := tx.RelatedTransactionID.String()
		resp.RelatedTransactionID = &s
	}
	return resp
}

// contextBusinessID pulls the authenticated business out of the request
// context; on failure it writes the error response itself.
func contextBusinessID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxBusinessID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	return v.(uuid.UUID), true
}

// pathUUID parses a UUID path parameter; on failure it writes the error
// response itself.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
