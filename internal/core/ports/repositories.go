package ports

import (
	"context"

	"smb-finance-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines persistence operations for owner accounts and
// their businesses.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	CreateBusiness(ctx context.Context, business *domain.Business) error
	GetBusinessByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking; balance updates only happen there.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// TransactionListParams holds filter + pagination for listing ledger entries.
type TransactionListParams struct {
	WalletID uuid.UUID
	Type     *domain.TransactionType
	Limit    int
	Offset   int
}

// TransactionRepository defines persistence for the append-only ledger.
// Entries are insert-only; there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	// LinkRelated sets the mutual related-transaction references on the two
	// legs of a transfer, inside the same database transaction that created
	// them. The reference is non-owning.
	LinkRelated(ctx context.Context, tx pgx.Tx, firstID, secondID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	// ListByWalletAsc returns a wallet's full history in creation order,
	// oldest first, for balance replay audits.
	ListByWalletAsc(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
}

// EmployeeRepository defines persistence operations for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) error
}

// PayrollRepository defines persistence operations for payroll runs.
type PayrollRepository interface {
	Create(ctx context.Context, payroll *domain.Payroll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payroll, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Payroll, error)
	Update(ctx context.Context, payroll *domain.Payroll) error
}

// CreditRepository defines persistence for credit profiles and their
// append-only score history.
type CreditRepository interface {
	CreateProfile(ctx context.Context, profile *domain.CreditProfile) error
	GetProfileByBusiness(ctx context.Context, businessID uuid.UUID) (*domain.CreditProfile, error)
	// UpdateProfile persists raw metrics and the recomputed derived fields
	// inside the same database transaction that appends the history row.
	UpdateProfile(ctx context.Context, tx pgx.Tx, profile *domain.CreditProfile) error
	AppendScore(ctx context.Context, tx pgx.Tx, score *domain.CreditScore) error
	ListScores(ctx context.Context, profileID uuid.UUID, limit int) ([]domain.CreditScore, error)
}

// InvoiceRepository defines persistence operations for invoices and items.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Invoice, error)
	// UpdateTotals persists the invoice's derived figures and every
	// recomputed item total.
	UpdateTotals(ctx context.Context, invoice *domain.Invoice) error
	UpdatePayment(ctx context.Context, invoice *domain.Invoice) error
	AddItem(ctx context.Context, item *domain.InvoiceItem) error
	RemoveItem(ctx context.Context, invoiceID, itemID uuid.UUID) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
