package postgres

import (
	"context"
	"errors"
	"fmt"

	"smb-finance-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvoiceRepo implements ports.InvoiceRepository.
type InvoiceRepo struct {
	pool Pool
}

// NewInvoiceRepo creates a new InvoiceRepo.
func NewInvoiceRepo(pool Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

const invoiceColumns = `id, business_id, invoice_number, status, client_name, client_email,
		issue_date, due_date, subtotal, tax_amount, discount_amount, total_amount, currency,
		paid_amount, paid_date, payment_method, created_at, updated_at`

// Create inserts an invoice and its line items.
func (r *InvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	query := `INSERT INTO invoices (id, business_id, invoice_number, status, client_name, client_email,
		issue_date, due_date, subtotal, tax_amount, discount_amount, total_amount, currency,
		paid_amount, paid_date, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.pool.Exec(ctx, query,
		inv.ID, inv.BusinessID, inv.InvoiceNumber, inv.Status, inv.ClientName, inv.ClientEmail,
		inv.IssueDate, inv.DueDate, inv.Subtotal, inv.TaxAmount, inv.DiscountAmount, inv.TotalAmount,
		inv.Currency, inv.PaidAmount, inv.PaidDate, inv.PaymentMethod, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	for i := range inv.Items {
		if err := r.AddItem(ctx, &inv.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches an invoice and its line items.
func (r *InvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	inv := &domain.Invoice{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.BusinessID, &inv.InvoiceNumber, &inv.Status, &inv.ClientName, &inv.ClientEmail,
		&inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.TotalAmount,
		&inv.Currency, &inv.PaidAmount, &inv.PaidDate, &inv.PaymentMethod, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by id: %w", err)
	}

	items, err := r.listItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

// ListByBusiness fetches every invoice of a business, newest first,
// without line items.
func (r *InvoiceRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE business_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.BusinessID, &inv.InvoiceNumber, &inv.Status, &inv.ClientName, &inv.ClientEmail,
			&inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.TotalAmount,
			&inv.Currency, &inv.PaidAmount, &inv.PaidDate, &inv.PaymentMethod, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}
	return invoices, nil
}

// UpdateTotals persists the invoice's derived figures and every
// recomputed item total.
func (r *InvoiceRepo) UpdateTotals(ctx context.Context, inv *domain.Invoice) error {
	query := `UPDATE invoices SET subtotal = $1, total_amount = $2, updated_at = $3 WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, inv.Subtotal, inv.TotalAmount, inv.UpdatedAt, inv.ID)
	if err != nil {
		return fmt.Errorf("update invoice totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice not found: %s", inv.ID)
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		if _, err := r.pool.Exec(ctx,
			`UPDATE invoice_items SET total = $1 WHERE id = $2`,
			item.Total, item.ID,
		); err != nil {
			return fmt.Errorf("update item total: %w", err)
		}
	}
	return nil
}

// UpdatePayment persists the invoice's payment fields and status.
func (r *InvoiceRepo) UpdatePayment(ctx context.Context, inv *domain.Invoice) error {
	query := `UPDATE invoices SET status = $1, paid_amount = $2, paid_date = $3, payment_method = $4, updated_at = $5
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		inv.Status, inv.PaidAmount, inv.PaidDate, inv.PaymentMethod, inv.UpdatedAt, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("update invoice payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice not found: %s", inv.ID)
	}
	return nil
}

// AddItem inserts a line item.
func (r *InvoiceRepo) AddItem(ctx context.Context, item *domain.InvoiceItem) error {
	query := `INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// RemoveItem deletes a line item.
func (r *InvoiceRepo) RemoveItem(ctx context.Context, invoiceID, itemID uuid.UUID) error {
	query := `DELETE FROM invoice_items WHERE id = $1 AND invoice_id = $2`

	tag, err := r.pool.Exec(ctx, query, itemID, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice item not found: %s", itemID)
	}
	return nil
}

func (r *InvoiceRepo) listItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceItem, error) {
	query := `SELECT id, invoice_id, description, quantity, unit_price, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var items []domain.InvoiceItem
	for rows.Next() {
		var item domain.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice item rows: %w", err)
	}
	return items, nil
}
