package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"smb-finance-backend/pkg/money"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Invoice is a bill issued by a business. Subtotal and total are derived
// from the line items and are never authoritative inputs.
type Invoice struct {
	ID            uuid.UUID     `json:"id"`
	BusinessID    uuid.UUID     `json:"business_id"`
	InvoiceNumber string        `json:"invoice_number"`
	Status        InvoiceStatus `json:"status"`

	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email,omitempty"`

	IssueDate time.Time `json:"issue_date"`
	DueDate   time.Time `json:"due_date"`

	Subtotal       money.Money `json:"subtotal"`
	TaxAmount      money.Money `json:"tax_amount"`
	DiscountAmount money.Money `json:"discount_amount"`
	TotalAmount    money.Money `json:"total_amount"`
	Currency       string      `json:"currency"`

	PaidAmount    money.Money `json:"paid_amount"`
	PaidDate      *time.Time  `json:"paid_date,omitempty"`
	PaymentMethod string      `json:"payment_method,omitempty"`

	Items []InvoiceItem `json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceItem is one line on an invoice. Total is quantity x unit price,
// recomputed on every recalculation rather than trusted from storage.
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   money.Money     `json:"unit_price"`
	Total       money.Money     `json:"total"`
}

// Recalculate recomputes every item total, the subtotal, and the grand
// total (subtotal + tax - discount). Item insertion order is irrelevant
// to the result, and recalculating twice with unchanged items yields
// identical totals.
func (inv *Invoice) Recalculate() {
	subtotal := money.Zero
	for i := range inv.Items {
		inv.Items[i].Total = inv.Items[i].UnitPrice.Mul(inv.Items[i].Quantity)
		subtotal = subtotal.Add(inv.Items[i].Total)
	}
	inv.Subtotal = subtotal
	inv.TotalAmount = subtotal.Add(inv.TaxAmount).Sub(inv.DiscountAmount)
	inv.UpdatedAt = time.Now().UTC()
}

// MarkPaid sets the invoice to paid and records what was received. The
// amount is not checked against the total: there is no partial-payment
// state, only a record of the received amount.
func (inv *Invoice) MarkPaid(amount money.Money, method string) {
	now := time.Now().UTC()
	inv.Status = InvoicePaid
	inv.PaidAmount = amount
	inv.PaidDate = &now
	if method != "" {
		inv.PaymentMethod = method
	}
	inv.UpdatedAt = now
}
