package dto

import (
	"github.com/shopspring/decimal"

	"smb-finance-backend/pkg/money"
)

// RegisterRequest is the request body for owner registration.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email,max=255"`
	Password     string `json:"password" binding:"required,min=8,max=128"`
	FirstName    string `json:"first_name" binding:"required,min=1,max=100"`
	LastName     string `json:"last_name" binding:"required,min=1,max=100"`
	BusinessName string `json:"business_name" binding:"required,min=1,max=255"`
	Industry     string `json:"industry" binding:"omitempty,max=100"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
}

// LoginRequest is the request body for owner login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the response body for register and login.
type AuthResponse struct {
	UserID       string `json:"user_id"`
	BusinessID   string `json:"business_id"`
	BusinessName string `json:"business_name"`
	Token        string `json:"token"`
	Expiry       int64  `json:"expiry"` // Unix timestamp
}

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Type     string `json:"wallet_type" binding:"required,oneof=operating savings tax_reserve"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
}

// EntryRequest is the request body for a standalone credit or debit.
type EntryRequest struct {
	Amount      money.Money `json:"amount" binding:"required"`
	Description string      `json:"description" binding:"required,max=500"`
	Reference   string      `json:"reference" binding:"omitempty,max=100"`
}

// TransferRequest is the request body for a linked two-leg transfer.
type TransferRequest struct {
	FromWalletID string      `json:"from_wallet_id" binding:"required,uuid"`
	ToWalletID   string      `json:"to_wallet_id" binding:"required,uuid"`
	Amount       money.Money `json:"amount" binding:"required"`
	Description  string      `json:"description" binding:"required,max=500"`
}

// WalletResponse is the API shape for a wallet.
type WalletResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"wallet_type"`
	Currency  string `json:"currency"`
	Balance   string `json:"balance"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// TransactionResponse is the API shape for a ledger entry.
type TransactionResponse struct {
	ID                   string  `json:"id"`
	WalletID             string  `json:"wallet_id"`
	Type                 string  `json:"transaction_type"`
	Amount               string  `json:"amount"`
	Description          string  `json:"description"`
	Reference            string  `json:"reference,omitempty"`
	BalanceAfter         string  `json:"balance_after"`
	RelatedTransactionID *string `json:"related_transaction_id,omitempty"`
	CreatedAt            string  `json:"created_at"`
}

// EntryResponse pairs an updated wallet with the entry it recorded.
type EntryResponse struct {
	Wallet      WalletResponse      `json:"wallet"`
	Transaction TransactionResponse `json:"transaction"`
}

// TransferResponse carries both legs and both updated wallets.
type TransferResponse struct {
	FromWallet WalletResponse      `json:"from_wallet"`
	ToWallet   WalletResponse      `json:"to_wallet"`
	DebitLeg   TransactionResponse `json:"debit_leg"`
	CreditLeg  TransactionResponse `json:"credit_leg"`
}

// TransactionListResponse wraps a paginated ledger entry list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// CreateEmployeeRequest is the request body for employee creation.
// Dates use the YYYY-MM-DD layout.
type CreateEmployeeRequest struct {
	EmployeeNumber string          `json:"employee_number" binding:"required,max=50,safe_id"`
	FirstName      string          `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string          `json:"last_name" binding:"required,min=1,max=100"`
	Email          string          `json:"email" binding:"omitempty,email"`
	Position       string          `json:"position" binding:"omitempty,max=100"`
	HireDate       string          `json:"hire_date" binding:"required,datetime=2006-01-02"`
	Salary         money.Money     `json:"salary"`
	HourlyRate     money.Money     `json:"hourly_rate"`
	PayFrequency   string          `json:"pay_frequency" binding:"required,oneof=weekly biweekly monthly"`
	Currency       string          `json:"currency" binding:"omitempty,len=3"`
	TaxWithholding decimal.Decimal `json:"tax_withholding"`
}

// CreatePayrollRequest is the request body for creating a payroll run.
type CreatePayrollRequest struct {
	EmployeeID      string          `json:"employee_id" binding:"required,uuid"`
	Period          string          `json:"payroll_period" binding:"required,oneof=weekly biweekly monthly"`
	StartDate       string          `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate         string          `json:"end_date" binding:"required,datetime=2006-01-02"`
	RegularHours    decimal.Decimal `json:"regular_hours"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	RegularPay      money.Money     `json:"regular_pay"`
	OvertimePay     money.Money     `json:"overtime_pay"`
	Bonus           money.Money     `json:"bonus"`
	TaxWithholding  money.Money     `json:"tax_withholding"`
	SocialSecurity  money.Money     `json:"social_security"`
	Medicare        money.Money     `json:"medicare"`
	OtherDeductions money.Money     `json:"other_deductions"`
}

// EmployeeResponse is the API shape for an employee.
type EmployeeResponse struct {
	ID              string `json:"id"`
	EmployeeNumber  string `json:"employee_number"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email,omitempty"`
	Position        string `json:"position,omitempty"`
	HireDate        string `json:"hire_date"`
	TerminationDate string `json:"termination_date,omitempty"`
	Status          string `json:"employment_status"`
	Salary          string `json:"salary"`
	HourlyRate      string `json:"hourly_rate"`
	PayFrequency    string `json:"pay_frequency"`
	Currency        string `json:"currency"`
	TaxWithholding  string `json:"tax_withholding"`
	CreatedAt       string `json:"created_at"`
}

// PayrollResponse is the API shape for a payroll run.
type PayrollResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Period     string `json:"payroll_period"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`

	RegularHours  string `json:"regular_hours"`
	OvertimeHours string `json:"overtime_hours"`
	RegularPay    string `json:"regular_pay"`
	OvertimePay   string `json:"overtime_pay"`
	Bonus         string `json:"bonus"`
	GrossPay      string `json:"gross_pay"`

	TaxWithholding  string `json:"tax_withholding"`
	SocialSecurity  string `json:"social_security"`
	Medicare        string `json:"medicare"`
	OtherDeductions string `json:"other_deductions"`
	TotalDeductions string `json:"total_deductions"`

	NetPay   string `json:"net_pay"`
	Currency string `json:"currency"`

	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method,omitempty"`
	PaymentDate   string `json:"payment_date,omitempty"`

	CreatedAt string `json:"created_at"`
}

// MarkPayrollPaidRequest is the request body for settling a payroll run.
type MarkPayrollPaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=bank_transfer check cash"`
}

// CreditMetricsRequest carries a partial metrics update: absent fields
// leave the stored value untouched.
type CreditMetricsRequest struct {
	AnnualRevenue       *money.Money     `json:"annual_revenue"`
	MonthlyCashFlow     *money.Money     `json:"monthly_cash_flow"`
	DebtToIncomeRatio   *decimal.Decimal `json:"debt_to_income_ratio"`
	PaymentHistoryScore *int             `json:"payment_history_score" binding:"omitempty,min=0,max=100"`
	BusinessAgeMonths   *int             `json:"business_age_months" binding:"omitempty,min=0"`
	IndustryRiskScore   *int             `json:"industry_risk_score" binding:"omitempty,min=0,max=100"`
	MarketPositionScore *int             `json:"market_position_score" binding:"omitempty,min=0,max=100"`
}

// AssessRequest is the request body for running a credit assessment.
type AssessRequest struct {
	Metrics CreditMetricsRequest   `json:"metrics"`
	Factors map[string]interface{} `json:"factors"`
}

// InvoiceItemRequest is one line item on a create/add request.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   money.Money     `json:"unit_price" binding:"required"`
}

// CreateInvoiceRequest is the request body for invoice creation.
type CreateInvoiceRequest struct {
	InvoiceNumber  string               `json:"invoice_number" binding:"required,max=50,safe_id"`
	ClientName     string               `json:"client_name" binding:"required,min=1,max=255"`
	ClientEmail    string               `json:"client_email" binding:"omitempty,email"`
	IssueDate      string               `json:"issue_date" binding:"required,datetime=2006-01-02"`
	DueDate        string               `json:"due_date" binding:"required,datetime=2006-01-02"`
	TaxAmount      money.Money          `json:"tax_amount"`
	DiscountAmount money.Money          `json:"discount_amount"`
	Currency       string               `json:"currency" binding:"omitempty,len=3"`
	Items          []InvoiceItemRequest `json:"items" binding:"dive"`
}

// MarkInvoicePaidRequest is the request body for recording an invoice payment.
type MarkInvoicePaidRequest struct {
	Amount        money.Money `json:"amount" binding:"required"`
	PaymentMethod string      `json:"payment_method" binding:"omitempty,max=50"`
}

// InvoiceItemResponse is one rendered line item.
type InvoiceItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Total       string `json:"total"`
}

// InvoiceResponse is the API shape for an invoice.
type InvoiceResponse struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`

	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email,omitempty"`

	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date"`

	Subtotal       string `json:"subtotal"`
	TaxAmount      string `json:"tax_amount"`
	DiscountAmount string `json:"discount_amount"`
	TotalAmount    string `json:"total_amount"`
	Currency       string `json:"currency"`

	PaidAmount    string `json:"paid_amount"`
	PaidDate      string `json:"paid_date,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`

	Items []InvoiceItemResponse `json:"items"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
