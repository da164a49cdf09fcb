package domain

import (
	"time"

	"github.com/google/uuid"

	"smb-finance-backend/pkg/money"
)

// TransactionType represents the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// Transaction is an immutable, append-only ledger entry on a wallet.
// Amount is always stored positive; the sign is implied by Type.
// BalanceAfter is the wallet balance immediately after this entry was
// applied, so replaying a wallet's entries in creation order and summing
// signed amounts must reproduce every BalanceAfter exactly.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	WalletID     uuid.UUID       `json:"wallet_id"`
	Type         TransactionType `json:"transaction_type"`
	Amount       money.Money     `json:"amount"`
	Description  string          `json:"description"`
	Reference    string          `json:"reference,omitempty"`
	BalanceAfter money.Money     `json:"balance_after"`
	// RelatedTransactionID links the two legs of a transfer to each other.
	// The reference is mutual and non-owning: audit navigation only.
	RelatedTransactionID *uuid.UUID `json:"related_transaction_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// SignedAmount returns the balance-affecting value of this entry:
// positive for credits, negative for debits.
func (t *Transaction) SignedAmount() money.Money {
	if t.Type == TransactionTypeCredit {
		return t.Amount
	}
	return t.Amount.Neg()
}

// IsTransferLeg reports whether this entry is one half of a linked transfer.
func (t *Transaction) IsTransferLeg() bool {
	return t.RelatedTransactionID != nil
}
