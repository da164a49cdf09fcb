package postgres

import (
	"context"
	"errors"
	"fmt"

	"smb-finance-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `id, business_id, name, wallet_type, currency, balance, is_active, created_at, updated_at`

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, business_id, name, wallet_type, currency, balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.BusinessID, w.Name, w.Type, w.Currency,
		w.Balance, w.IsActive, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return scanWallet(r.pool.QueryRow(ctx, query, id))
}

// ListByBusiness fetches every wallet owned by a business.
func (r *WalletRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE business_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(
			&w.ID, &w.BusinessID, &w.Name, &w.Type, &w.Currency,
			&w.Balance, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	return scanWallet(tx.QueryRow(ctx, query, id))
}

// UpdateBalance persists a wallet's balance within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, w.Balance, w.UpdatedAt, w.ID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", w.ID)
	}
	return nil
}

// SetActive flips a wallet's active flag.
func (r *WalletRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE wallets SET is_active = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set wallet active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", id)
	}
	return nil
}

// scanWallet is a helper to scan a single row into a Wallet.
func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.BusinessID, &w.Name, &w.Type, &w.Currency,
		&w.Balance, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}
