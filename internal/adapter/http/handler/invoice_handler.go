package handler

import (
	"time"

	"smb-finance-backend/internal/adapter/http/dto"
	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/pkg/apperror"
	"smb-finance-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceSvc ports.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceSvc ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceSvc: invoiceSvc}
}

// Create handles POST /api/v1/invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		response.Error(c, apperror.Validation("invalid issue_date"))
		return
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		response.Error(c, apperror.Validation("invalid due_date"))
		return
	}

	items := make([]ports.InvoiceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ports.InvoiceItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	invoice, err := h.invoiceSvc.Create(c.Request.Context(), ports.CreateInvoiceRequest{
		BusinessID:     businessID,
		InvoiceNumber:  req.InvoiceNumber,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		Currency:       req.Currency,
		Items:          items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toInvoiceResponse(invoice))
}

// Get handles GET /api/v1/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceSvc.Get(c.Request.Context(), businessID, invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toInvoiceResponse(invoice))
}

// List handles GET /api/v1/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceSvc.List(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, toInvoiceResponse(&invoices[i]))
	}
	response.OK(c, items)
}

// Recalculate handles POST /api/v1/invoices/:id/recalculate.
func (h *InvoiceHandler) Recalculate(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceSvc.Recalculate(c.Request.Context(), businessID, invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toInvoiceResponse(invoice))
}

// MarkPaid handles POST /api/v1/invoices/:id/pay.
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.MarkInvoicePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	invoice, err := h.invoiceSvc.MarkPaid(c.Request.Context(), businessID, invoiceID, req.Amount, req.PaymentMethod)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toInvoiceResponse(invoice))
}

// AddItem handles POST /api/v1/invoices/:id/items.
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.InvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	invoice, err := h.invoiceSvc.AddItem(c.Request.Context(), businessID, invoiceID, ports.InvoiceItemInput{
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toInvoiceResponse(invoice))
}

// RemoveItem handles DELETE /api/v1/invoices/:id/items/:itemID.
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemID")
	if !ok {
		return
	}

	invoice, err := h.invoiceSvc.RemoveItem(c.Request.Context(), businessID, invoiceID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toInvoiceResponse(invoice))
}

func toInvoiceResponse(inv *domain.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		items = append(items, dto.InvoiceItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.StringFixed(inv.Currency),
			Total:       item.Total.StringFixed(inv.Currency),
		})
	}

	resp := dto.InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),

		ClientName:  inv.ClientName,
		ClientEmail: inv.ClientEmail,

		IssueDate: inv.IssueDate.Format(dateLayout),
		DueDate:   inv.DueDate.Format(dateLayout),

		Subtotal:       inv.Subtotal.StringFixed(inv.Currency),
		TaxAmount:      inv.TaxAmount.StringFixed(inv.Currency),
		DiscountAmount: inv.DiscountAmount.StringFixed(inv.Currency),
		TotalAmount:    inv.TotalAmount.StringFixed(inv.Currency),
		Currency:       inv.Currency,

		PaidAmount:    inv.PaidAmount.StringFixed(inv.Currency),
		PaymentMethod: inv.PaymentMethod,

		Items: items,

		CreatedAt: inv.CreatedAt.Format(timeLayout),
		UpdatedAt: inv.UpdatedAt.Format(timeLayout),
	}
	if inv.PaidDate != nil {
		resp.PaidDate = inv.PaidDate.Format(timeLayout)
	}
	return resp
}
