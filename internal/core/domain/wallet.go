package domain

import (
	"time"

	"github.com/google/uuid"

	"smb-finance-backend/pkg/money"
)

// WalletType classifies what a business uses a wallet for.
type WalletType string

const (
	WalletTypeOperating  WalletType = "operating"
	WalletTypeSavings    WalletType = "savings"
	WalletTypeTaxReserve WalletType = "tax_reserve"
)

// Wallet is a business-scoped store of funds in one currency. The balance
// is never set directly: every mutation goes through ApplyEntry, which
// records a transaction carrying the balance immediately after it.
type Wallet struct {
	ID         uuid.UUID   `json:"id"`
	BusinessID uuid.UUID   `json:"business_id"`
	Name       string      `json:"name"`
	Type       WalletType  `json:"wallet_type"`
	Currency   string      `json:"currency"`
	Balance    money.Money `json:"balance"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// BelongsTo reports whether the wallet is owned by the given business.
func (w *Wallet) BelongsTo(businessID uuid.UUID) bool {
	return w.BusinessID == businessID
}

// ApplyEntry applies a signed balance mutation: +amount for a credit,
// -amount for a debit. The returned transaction snapshots the balance
// after the mutation. Debits may overdraw; transfer callers must check
// funds before debiting. Amount validation is the caller's job.
func (w *Wallet) ApplyEntry(amount money.Money, description string, kind TransactionType) *Transaction {
	if kind == TransactionTypeCredit {
		w.Balance = w.Balance.Add(amount)
	} else {
		w.Balance = w.Balance.Sub(amount)
	}
	now := time.Now().UTC()
	w.UpdatedAt = now

	return &Transaction{
		ID:           uuid.New(),
		WalletID:     w.ID,
		Type:         kind,
		Amount:       amount,
		Description:  description,
		BalanceAfter: w.Balance,
		CreatedAt:    now,
	}
}
