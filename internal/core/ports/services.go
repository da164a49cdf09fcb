package ports

import (
	"context"
	"time"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID, businessID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
}

// AssessmentCache caches the latest credit profile snapshot (fast path
// for profile reads; writes are best-effort).
type AssessmentCache interface {
	Get(ctx context.Context, businessID uuid.UUID) ([]byte, error) // nil when absent
	Set(ctx context.Context, businessID uuid.UUID, snapshot []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, businessID uuid.UUID) error
}

// --- Service Ports (Business Logic) ---

// EntryRequest holds validated input for a single ledger entry.
type EntryRequest struct {
	BusinessID  uuid.UUID
	WalletID    uuid.UUID
	Amount      money.Money
	Description string
	Reference   string
}

// TransferRequest holds validated input for a linked two-leg transfer.
type TransferRequest struct {
	BusinessID   uuid.UUID
	FromWalletID uuid.UUID
	ToWalletID   uuid.UUID
	Amount       money.Money
	Description  string
}

// TransferResult is the pair of linked legs plus updated wallet snapshots.
type TransferResult struct {
	FromWallet *domain.Wallet
	ToWallet   *domain.Wallet
	DebitLeg   *domain.Transaction
	CreditLeg  *domain.Transaction
}

// EntryResult is the updated wallet snapshot plus the entry it recorded.
type EntryResult struct {
	Wallet      *domain.Wallet
	Transaction *domain.Transaction
}

// CreateWalletRequest holds validated input for wallet creation.
type CreateWalletRequest struct {
	BusinessID uuid.UUID
	Name       string
	Type       domain.WalletType
	Currency   string
}

// LedgerService is the wallet bookkeeping engine.
type LedgerService interface {
	CreateWallet(ctx context.Context, req CreateWalletRequest) (*domain.Wallet, error)
	GetWallet(ctx context.Context, businessID, walletID uuid.UUID) (*domain.Wallet, error)
	ListWallets(ctx context.Context, businessID uuid.UUID) ([]domain.Wallet, error)
	DeactivateWallet(ctx context.Context, businessID, walletID uuid.UUID) error
	Credit(ctx context.Context, req EntryRequest) (*EntryResult, error)
	Debit(ctx context.Context, req EntryRequest) (*EntryResult, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
	ListTransactions(ctx context.Context, businessID uuid.UUID, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// CreateEmployeeRequest holds validated input for employee creation.
type CreateEmployeeRequest struct {
	BusinessID     uuid.UUID
	EmployeeNumber string
	FirstName      string
	LastName       string
	Email          string
	Position       string
	HireDate       time.Time
	Salary         money.Money
	HourlyRate     money.Money
	PayFrequency   domain.PayFrequency
	Currency       string
	TaxWithholding decimal.Decimal
}

// CreatePayrollRequest holds validated input for creating a payroll run.
type CreatePayrollRequest struct {
	BusinessID      uuid.UUID
	EmployeeID      uuid.UUID
	Period          string
	StartDate       time.Time
	EndDate         time.Time
	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	RegularPay      money.Money
	OvertimePay     money.Money
	Bonus           money.Money
	TaxWithholding  money.Money
	SocialSecurity  money.Money
	Medicare        money.Money
	OtherDeductions money.Money
}

// PayrollService computes and settles payroll runs.
type PayrollService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*domain.Employee, error)
	GetEmployee(ctx context.Context, businessID, employeeID uuid.UUID) (*domain.Employee, error)
	ListEmployees(ctx context.Context, businessID uuid.UUID) ([]domain.Employee, error)
	CreateRun(ctx context.Context, req CreatePayrollRequest) (*domain.Payroll, error)
	GetRun(ctx context.Context, businessID, payrollID uuid.UUID) (*domain.Payroll, error)
	ListRuns(ctx context.Context, businessID uuid.UUID) ([]domain.Payroll, error)
	Process(ctx context.Context, businessID, payrollID uuid.UUID) (*domain.Payroll, error)
	MarkPaid(ctx context.Context, businessID, payrollID uuid.UUID, method string) (*domain.Payroll, error)
}

// AssessmentResult pairs the updated profile with the history entry the
// assessment appended.
type AssessmentResult struct {
	Profile *domain.CreditProfile
	History *domain.CreditScore
}

// ReadinessSummary is the condensed lending view of a credit profile.
type ReadinessSummary struct {
	LendingReadinessScore int        `json:"lending_readiness_score"`
	CreditScore           int        `json:"credit_score"`
	CreditRating          string     `json:"credit_rating"`
	AssessmentDate        *time.Time `json:"assessment_date,omitempty"`
}

// CreditService derives credit scores and lending readiness.
type CreditService interface {
	CreateProfile(ctx context.Context, businessID uuid.UUID, metrics domain.CreditMetrics) (*domain.CreditProfile, error)
	GetProfile(ctx context.Context, businessID uuid.UUID) (*domain.CreditProfile, error)
	Assess(ctx context.Context, businessID uuid.UUID, metrics domain.CreditMetrics, factors map[string]any) (*AssessmentResult, error)
	ListHistory(ctx context.Context, businessID uuid.UUID, limit int) ([]domain.CreditScore, error)
	LendingReadiness(ctx context.Context, businessID uuid.UUID) (*ReadinessSummary, error)
}

// CreateInvoiceRequest holds validated input for invoice creation.
type CreateInvoiceRequest struct {
	BusinessID     uuid.UUID
	InvoiceNumber  string
	ClientName     string
	ClientEmail    string
	IssueDate      time.Time
	DueDate        time.Time
	TaxAmount      money.Money
	DiscountAmount money.Money
	Currency       string
	Items          []InvoiceItemInput
}

// InvoiceItemInput is one line item on a create/add request.
type InvoiceItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   money.Money
}

// InvoiceService aggregates line items into invoice totals.
type InvoiceService interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*domain.Invoice, error)
	Get(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, businessID uuid.UUID) ([]domain.Invoice, error)
	Recalculate(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error)
	MarkPaid(ctx context.Context, businessID, invoiceID uuid.UUID, amount money.Money, method string) (*domain.Invoice, error)
	AddItem(ctx context.Context, businessID, invoiceID uuid.UUID, item InvoiceItemInput) (*domain.Invoice, error)
	RemoveItem(ctx context.Context, businessID, invoiceID, itemID uuid.UUID) (*domain.Invoice, error)
}

// RegisterRequest holds validated input for owner registration.
type RegisterRequest struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	BusinessName string
	Industry     string
	Currency     string
}

// AuthResult is the authenticated session plus its owning entities.
type AuthResult struct {
	User     *domain.User
	Business *domain.Business
	Token    string
	Expiry   time.Time
}

// AuthService registers and authenticates business owners.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}
