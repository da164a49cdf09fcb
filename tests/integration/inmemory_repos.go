package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*domain.User
	businesses map[uuid.UUID]*domain.Business
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{
		users:      make(map[uuid.UUID]*domain.User),
		businesses: make(map[uuid.UUID]*domain.Business),
	}
}

func (r *inMemoryUserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("email already exists")
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *inMemoryUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *inMemoryUserRepo) CreateBusiness(ctx context.Context, b *domain.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.businesses[b.ID] = b
	return nil
}

func (r *inMemoryUserRepo) GetBusinessByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.businesses {
		if b.OwnerID == ownerID {
			return b, nil
		}
	}
	return nil, nil
}

// --- In-Memory Wallet Repo ---

// inMemoryWalletRepo emulates row-level locking: GetByIDForUpdate blocks
// on a per-wallet mutex that is held until the surrounding memTx commits
// or rolls back, matching SELECT ... FOR UPDATE semantics closely enough
// for the concurrency tests to mean something.
type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
	locks   map[uuid.UUID]*sync.Mutex
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{
		wallets: make(map[uuid.UUID]*domain.Wallet),
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *w
	r.wallets[w.ID] = &clone
	r.locks[w.ID] = &sync.Mutex{}
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	clone := *w
	return &clone, nil
}

func (r *inMemoryWalletRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Wallet
	for _, w := range r.wallets {
		if w.BusinessID == businessID {
			result = append(result, *w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	rowLock, ok := r.locks[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	rowLock.Lock()
	if mtx, isMem := tx.(*memTx); isMem {
		mtx.holdLock(rowLock)
	} else {
		rowLock.Unlock()
	}

	return r.GetByID(ctx, id)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[w.ID]; !ok {
		return fmt.Errorf("wallet not found")
	}
	clone := *w
	r.wallets[w.ID] = &clone
	return nil
}

func (r *inMemoryWalletRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.IsActive = active
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu      sync.RWMutex
	entries []*domain.Transaction // append order is creation order
	byID    map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{byID: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	// The related reference is written separately by LinkRelated, mirroring
	// the SQL repo.
	clone.RelatedTransactionID = nil
	r.entries = append(r.entries, &clone)
	r.byID[clone.ID] = &clone
	return nil
}

func (r *inMemoryTransactionRepo) LinkRelated(ctx context.Context, tx pgx.Tx, firstID, secondID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	first, ok1 := r.byID[firstID]
	second, ok2 := r.byID[secondID]
	if !ok1 || !ok2 {
		return fmt.Errorf("transfer legs missing")
	}
	f, s := firstID, secondID
	first.RelatedTransactionID = &s
	second.RelatedTransactionID = &f
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.Transaction
	// newest first
	for i := len(r.entries) - 1; i >= 0; i-- {
		t := r.entries[i]
		if t.WalletID != params.WalletID {
			continue
		}
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		matched = append(matched, *t)
	}
	total := int64(len(matched))

	start := params.Offset
	if start >= len(matched) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *inMemoryTransactionRepo) ListByWalletAsc(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.entries {
		if t.WalletID == walletID {
			result = append(result, *t)
		}
	}
	return result, nil
}

// --- In-Memory Employee / Payroll Repos ---

type inMemoryEmployeeRepo struct {
	mu        sync.RWMutex
	employees map[uuid.UUID]*domain.Employee
}

func newInMemoryEmployeeRepo() *inMemoryEmployeeRepo {
	return &inMemoryEmployeeRepo{employees: make(map[uuid.UUID]*domain.Employee)}
}

func (r *inMemoryEmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *e
	r.employees[e.ID] = &clone
	return nil
}

func (r *inMemoryEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (r *inMemoryEmployeeRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Employee
	for _, e := range r.employees {
		if e.BusinessID == businessID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *inMemoryEmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[e.ID]; !ok {
		return fmt.Errorf("employee not found")
	}
	clone := *e
	r.employees[e.ID] = &clone
	return nil
}

type inMemoryPayrollRepo struct {
	mu       sync.RWMutex
	payrolls map[uuid.UUID]*domain.Payroll
}

func newInMemoryPayrollRepo() *inMemoryPayrollRepo {
	return &inMemoryPayrollRepo{payrolls: make(map[uuid.UUID]*domain.Payroll)}
}

func (r *inMemoryPayrollRepo) Create(ctx context.Context, p *domain.Payroll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.payrolls[p.ID] = &clone
	return nil
}

func (r *inMemoryPayrollRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payroll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payrolls[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *inMemoryPayrollRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Payroll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Payroll
	for _, p := range r.payrolls {
		if p.BusinessID == businessID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *inMemoryPayrollRepo) Update(ctx context.Context, p *domain.Payroll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payrolls[p.ID]; !ok {
		return fmt.Errorf("payroll not found")
	}
	clone := *p
	r.payrolls[p.ID] = &clone
	return nil
}

// --- In-Memory Credit Repo ---

type inMemoryCreditRepo struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*domain.CreditProfile
	scores   []*domain.CreditScore
}

func newInMemoryCreditRepo() *inMemoryCreditRepo {
	return &inMemoryCreditRepo{profiles: make(map[uuid.UUID]*domain.CreditProfile)}
}

func (r *inMemoryCreditRepo) CreateProfile(ctx context.Context, p *domain.CreditProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.profiles[p.ID] = &clone
	return nil
}

func (r *inMemoryCreditRepo) GetProfileByBusiness(ctx context.Context, businessID uuid.UUID) (*domain.CreditProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.BusinessID == businessID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryCreditRepo) UpdateProfile(ctx context.Context, tx pgx.Tx, p *domain.CreditProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return fmt.Errorf("credit profile not found")
	}
	clone := *p
	r.profiles[p.ID] = &clone
	return nil
}

func (r *inMemoryCreditRepo) AppendScore(ctx context.Context, tx pgx.Tx, s *domain.CreditScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.scores = append(r.scores, &clone)
	return nil
}

func (r *inMemoryCreditRepo) ListScores(ctx context.Context, profileID uuid.UUID, limit int) ([]domain.CreditScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.CreditScore
	// newest first
	for i := len(r.scores) - 1; i >= 0 && len(result) < limit; i-- {
		if r.scores[i].CreditProfileID == profileID {
			result = append(result, *r.scores[i])
		}
	}
	return result, nil
}

// --- In-Memory Invoice Repo ---

type inMemoryInvoiceRepo struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]*domain.Invoice
}

func newInMemoryInvoiceRepo() *inMemoryInvoiceRepo {
	return &inMemoryInvoiceRepo{invoices: make(map[uuid.UUID]*domain.Invoice)}
}

func cloneInvoice(inv *domain.Invoice) *domain.Invoice {
	clone := *inv
	clone.Items = append([]domain.InvoiceItem(nil), inv.Items...)
	return &clone
}

func (r *inMemoryInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *inMemoryInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *inMemoryInvoiceRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Invoice
	for _, inv := range r.invoices {
		if inv.BusinessID == businessID {
			result = append(result, *cloneInvoice(inv))
		}
	}
	return result, nil
}

func (r *inMemoryInvoiceRepo) UpdateTotals(ctx context.Context, inv *domain.Invoice) error {
	return r.replace(inv)
}

func (r *inMemoryInvoiceRepo) UpdatePayment(ctx context.Context, inv *domain.Invoice) error {
	return r.replace(inv)
}

func (r *inMemoryInvoiceRepo) replace(inv *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[inv.ID]; !ok {
		return fmt.Errorf("invoice not found")
	}
	r.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *inMemoryInvoiceRepo) AddItem(ctx context.Context, item *domain.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[item.InvoiceID]
	if !ok {
		return fmt.Errorf("invoice not found")
	}
	inv.Items = append(inv.Items, *item)
	return nil
}

func (r *inMemoryInvoiceRepo) RemoveItem(ctx context.Context, invoiceID, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("invoice not found")
	}
	kept := inv.Items[:0]
	for _, item := range inv.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	inv.Items = kept
	return nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor hands out memTx values that carry the row locks
// acquired through GetByIDForUpdate until commit or rollback.
type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{}, nil
}

// memTx is a pgx.Tx stand-in that releases held row locks exactly once,
// on whichever of Commit or Rollback runs first.
type memTx struct {
	mu    sync.Mutex
	held  []*sync.Mutex
	ended bool
}

func (t *memTx) holdLock(l *sync.Mutex) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held = append(t.held, l)
}

func (t *memTx) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ended {
		return
	}
	t.ended = true
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { t.release(); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.release(); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }
