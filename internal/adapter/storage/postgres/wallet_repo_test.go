package postgres

import (
	"context"
	"testing"
	"time"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/pkg/money"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(businessID uuid.UUID) *domain.Wallet {
	balance, _ := money.FromString("1250.75")
	return &domain.Wallet{
		ID:         uuid.New(),
		BusinessID: businessID,
		Name:       "Operating",
		Type:       domain.WalletTypeOperating,
		Currency:   "USD",
		Balance:    balance,
		IsActive:   true,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func walletTestColumns() []string {
	return []string{"id", "business_id", "name", "wallet_type", "currency", "balance", "is_active", "created_at", "updated_at"}
}

func walletRow(w *domain.Wallet) *pgxmock.Rows {
	return pgxmock.NewRows(walletTestColumns()).AddRow(
		w.ID, w.BusinessID, w.Name, w.Type, w.Currency,
		w.Balance, w.IsActive, w.CreatedAt, w.UpdatedAt,
	)
}

func TestWalletRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(w.ID, w.BusinessID, w.Name, w.Type, w.Currency,
			w.Balance, w.IsActive, w.CreatedAt, w.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))

	result, err := repo.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.True(t, w.Balance.Equal(result.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(walletTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id = \\$1 FOR UPDATE").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(w.Balance, w.UpdatedAt, w.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateBalance(context.Background(), tx, w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateBalance_WalletGone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(w.Balance, w.UpdatedAt, w.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateBalance(context.Background(), tx, w)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_ListByBusiness(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	businessID := uuid.New()
	w1 := newTestWallet(businessID)
	w2 := newTestWallet(businessID)
	w2.Type = domain.WalletTypeTaxReserve

	rows := pgxmock.NewRows(walletTestColumns()).
		AddRow(w1.ID, w1.BusinessID, w1.Name, w1.Type, w1.Currency, w1.Balance, w1.IsActive, w1.CreatedAt, w1.UpdatedAt).
		AddRow(w2.ID, w2.BusinessID, w2.Name, w2.Type, w2.Currency, w2.Balance, w2.IsActive, w2.CreatedAt, w2.UpdatedAt)

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE business_id").
		WithArgs(businessID).
		WillReturnRows(rows)

	result, err := repo.ListByBusiness(context.Background(), businessID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, domain.WalletTypeTaxReserve, result[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_SetActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE wallets SET is_active").
		WithArgs(false, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.SetActive(context.Background(), id, false)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
