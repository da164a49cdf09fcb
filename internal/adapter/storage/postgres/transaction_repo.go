package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. The ledger is
// append-only: rows are inserted and their related-transaction reference
// is set once; nothing else ever updates or deletes them.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, wallet_id, transaction_type, amount, description, reference, balance_after, related_transaction_id, created_at`

// Create inserts a new ledger entry within a database transaction. The
// related-transaction reference is written separately by LinkRelated so
// both legs of a transfer exist before either points at the other.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, wallet_id, transaction_type, amount, description, reference, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.WalletID, t.Type, t.Amount,
		t.Description, t.Reference, t.BalanceAfter, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// LinkRelated sets the mutual references between two transfer legs.
func (r *TransactionRepo) LinkRelated(ctx context.Context, tx pgx.Tx, firstID, secondID uuid.UUID) error {
	query := `UPDATE transactions SET related_transaction_id = CASE id
		WHEN $1 THEN $2::uuid
		WHEN $2 THEN $1::uuid
		END WHERE id IN ($1, $2)`

	tag, err := tx.Exec(ctx, query, firstID, secondID)
	if err != nil {
		return fmt.Errorf("link transfer legs: %w", err)
	}
	if tag.RowsAffected() != 2 {
		return fmt.Errorf("link transfer legs: expected 2 rows, got %d", tag.RowsAffected())
	}
	return nil
}

// GetByID fetches a ledger entry by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// List fetches a wallet's ledger entries with filtering and pagination,
// newest first.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("wallet_id = $%d", argIdx))
	args = append(args, params.WalletID)
	argIdx++

	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	dataQuery := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY seq DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ListByWalletAsc fetches a wallet's full history in insertion order,
// oldest first. Replaying it and summing signed amounts must reproduce
// every balance-after snapshot. Ordering uses the BIGSERIAL seq column:
// created_at has microsecond resolution, so two entries committed in the
// same tick could otherwise replay out of order.
func (r *TransactionRepo) ListByWalletAsc(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE wallet_id = $1 ORDER BY seq`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list wallet history: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.Description,
			&t.Reference, &t.BalanceAfter, &t.RelatedTransactionID, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.Description,
		&t.Reference, &t.BalanceAfter, &t.RelatedTransactionID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
