package service

import (
	"context"
	"fmt"
	"time"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/pkg/apperror"
	"smb-finance-backend/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InvoiceServiceImpl implements ports.InvoiceService.
type InvoiceServiceImpl struct {
	invoiceRepo ports.InvoiceRepository
	log         zerolog.Logger
}

// NewInvoiceService creates a new InvoiceServiceImpl.
func NewInvoiceService(invoiceRepo ports.InvoiceRepository, log zerolog.Logger) *InvoiceServiceImpl {
	return &InvoiceServiceImpl{invoiceRepo: invoiceRepo, log: log}
}

// Create issues a draft invoice with its initial line items and derives
// the totals.
func (s *InvoiceServiceImpl) Create(ctx context.Context, req ports.CreateInvoiceRequest) (*domain.Invoice, error) {
	if req.TaxAmount.IsNegative() || req.DiscountAmount.IsNegative() {
		return nil, apperror.ErrValidation("tax and discount cannot be negative")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	invoice := &domain.Invoice{
		ID:             uuid.New(),
		BusinessID:     req.BusinessID,
		InvoiceNumber:  req.InvoiceNumber,
		Status:         domain.InvoiceDraft,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		Currency:       currency,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, in := range req.Items {
		item, err := newInvoiceItem(invoice.ID, in)
		if err != nil {
			return nil, err
		}
		invoice.Items = append(invoice.Items, *item)
	}
	invoice.Recalculate()

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create invoice: %w", err))
	}

	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("business_id", req.BusinessID.String()).
		Str("total", invoice.TotalAmount.String()).
		Msg("invoice created")

	return invoice, nil
}

// Get fetches an invoice owned by the business.
func (s *InvoiceServiceImpl) Get(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get invoice: %w", err))
	}
	if invoice == nil || invoice.BusinessID != businessID {
		return nil, apperror.ErrNotFound("invoice")
	}
	return invoice, nil
}

// List returns every invoice of a business.
func (s *InvoiceServiceImpl) List(ctx context.Context, businessID uuid.UUID) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list invoices: %w", err))
	}
	return invoices, nil
}

// Recalculate re-derives an invoice's item totals, subtotal and grand
// total from its current line items and persists them.
func (s *InvoiceServiceImpl) Recalculate(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.Get(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}

	invoice.Recalculate()
	if err := s.invoiceRepo.UpdateTotals(ctx, invoice); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update totals: %w", err))
	}
	return invoice, nil
}

// MarkPaid records a payment against an invoice and moves it to paid.
func (s *InvoiceServiceImpl) MarkPaid(ctx context.Context, businessID, invoiceID uuid.UUID, amount money.Money, method string) (*domain.Invoice, error) {
	if amount.IsNegative() {
		return nil, apperror.ErrValidation("paid amount cannot be negative")
	}

	invoice, err := s.Get(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}

	invoice.MarkPaid(amount, method)
	if err := s.invoiceRepo.UpdatePayment(ctx, invoice); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update payment: %w", err))
	}

	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("paid_amount", amount.String()).
		Msg("invoice paid")

	return invoice, nil
}

// AddItem appends a line item and re-derives the totals.
func (s *InvoiceServiceImpl) AddItem(ctx context.Context, businessID, invoiceID uuid.UUID, in ports.InvoiceItemInput) (*domain.Invoice, error) {
	invoice, err := s.Get(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}

	item, err := newInvoiceItem(invoice.ID, in)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.AddItem(ctx, item); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("add item: %w", err))
	}

	invoice.Items = append(invoice.Items, *item)
	invoice.Recalculate()
	if err := s.invoiceRepo.UpdateTotals(ctx, invoice); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update totals: %w", err))
	}
	return invoice, nil
}

// RemoveItem deletes a line item and re-derives the totals.
func (s *InvoiceServiceImpl) RemoveItem(ctx context.Context, businessID, invoiceID, itemID uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.Get(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}

	found := false
	kept := invoice.Items[:0]
	for _, item := range invoice.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, apperror.ErrNotFound("invoice item")
	}
	invoice.Items = kept

	if err := s.invoiceRepo.RemoveItem(ctx, invoiceID, itemID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("remove item: %w", err))
	}

	invoice.Recalculate()
	if err := s.invoiceRepo.UpdateTotals(ctx, invoice); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update totals: %w", err))
	}
	return invoice, nil
}

func newInvoiceItem(invoiceID uuid.UUID, in ports.InvoiceItemInput) (*domain.InvoiceItem, error) {
	if in.Quantity.IsNegative() || in.UnitPrice.IsNegative() {
		return nil, apperror.ErrValidation("quantity and unit price cannot be negative")
	}
	return &domain.InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Total:       in.UnitPrice.Mul(in.Quantity),
	}, nil
}
