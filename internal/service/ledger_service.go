package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		log:        log,
	}
}

// CreateWallet opens a new wallet with a zero balance.
func (s *LedgerServiceImpl) CreateWallet(ctx context.Context, req ports.CreateWalletRequest) (*domain.Wallet, error) {
	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:         uuid.New(),
		BusinessID: req.BusinessID,
		Name:       req.Name,
		Type:       req.Type,
		Currency:   req.Currency,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("business_id", req.BusinessID.String()).
		Str("type", string(req.Type)).
		Msg("wallet created")

	return wallet, nil
}

// GetWallet fetches a wallet. A wallet owned by another business is
// reported as not found, never as forbidden.
func (s *LedgerServiceImpl) GetWallet(ctx context.Context, businessID, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil || !wallet.BelongsTo(businessID) {
		return nil, apperror.ErrNotFound("wallet")
	}
	return wallet, nil
}

// ListWallets returns every wallet of a business.
func (s *LedgerServiceImpl) ListWallets(ctx context.Context, businessID uuid.UUID) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}

// DeactivateWallet freezes a wallet. Frozen wallets keep their history
// and balance but reject new entries and transfers.
func (s *LedgerServiceImpl) DeactivateWallet(ctx context.Context, businessID, walletID uuid.UUID) error {
	wallet, err := s.GetWallet(ctx, businessID, walletID)
	if err != nil {
		return err
	}
	if err := s.walletRepo.SetActive(ctx, wallet.ID, false); err != nil {
		return apperror.InternalError(fmt.Errorf("deactivate wallet: %w", err))
	}

	s.log.Info().Str("wallet_id", walletID.String()).Msg("wallet deactivated")
	return nil
}

// Credit records an inflow against a wallet.
func (s *LedgerServiceImpl) Credit(ctx context.Context, req ports.EntryRequest) (*ports.EntryResult, error) {
	return s.applyEntry(ctx, req, domain.TransactionTypeCredit)
}

// Debit records an outflow against a wallet. Balances may go negative:
// a standalone debit is an obligation record, not a funds reservation.
func (s *LedgerServiceImpl) Debit(ctx context.Context, req ports.EntryRequest) (*ports.EntryResult, error) {
	return s.applyEntry(ctx, req, domain.TransactionTypeDebit)
}

func (s *LedgerServiceImpl) applyEntry(ctx context.Context, req ports.EntryRequest, kind domain.TransactionType) (*ports.EntryResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil || !wallet.BelongsTo(req.BusinessID) {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsActive {
		return nil, apperror.ErrWalletInactive()
	}
	if !req.Amount.ValidScale(wallet.Currency) {
		return nil, apperror.ErrInvalidAmount()
	}

	txn := wallet.ApplyEntry(req.Amount, req.Description, kind)
	txn.Reference = req.Reference

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("type", string(kind)).
		Str("amount", req.Amount.String()).
		Msg("ledger entry recorded")

	return &ports.EntryResult{Wallet: wallet, Transaction: txn}, nil
}

// Transfer moves funds between two wallets of the same business as a
// pair of linked entries. Both wallets are locked in ascending ID order
// so concurrent opposing transfers cannot deadlock, and both legs commit
// in one database transaction or neither does.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.FromWalletID == req.ToWalletID {
		return nil, apperror.ErrValidation("cannot transfer to the same wallet")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	first, second := req.FromWalletID, req.ToWalletID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}

	locked := make(map[uuid.UUID]*domain.Wallet, 2)
	for _, id := range []uuid.UUID{first, second} {
		w, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if w == nil {
			return nil, apperror.ErrNotFound("wallet")
		}
		if !w.BelongsTo(req.BusinessID) {
			return nil, apperror.ErrCrossTenantTransfer()
		}
		locked[id] = w
	}

	from, to := locked[req.FromWalletID], locked[req.ToWalletID]
	if !from.IsActive || !to.IsActive {
		return nil, apperror.ErrWalletInactive()
	}
	if from.Currency != to.Currency {
		return nil, apperror.ErrValidation("wallets must share a currency")
	}
	if !req.Amount.ValidScale(from.Currency) {
		return nil, apperror.ErrInvalidAmount()
	}
	if from.Balance.Cmp(req.Amount) < 0 {
		return nil, apperror.ErrInsufficientFunds()
	}

	debitLeg := from.ApplyEntry(req.Amount, fmt.Sprintf("Transfer to %s: %s", to.Name, req.Description), domain.TransactionTypeDebit)
	creditLeg := to.ApplyEntry(req.Amount, fmt.Sprintf("Transfer from %s: %s", from.Name, req.Description), domain.TransactionTypeCredit)
	debitLeg.RelatedTransactionID = &creditLeg.ID
	creditLeg.RelatedTransactionID = &debitLeg.ID

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, from); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update source balance: %w", err))
	}
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, to); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update destination balance: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, debitLeg); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create debit leg: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, creditLeg); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create credit leg: %w", err))
	}
	if err := s.txRepo.LinkRelated(ctx, dbTx, debitLeg.ID, creditLeg.ID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("link transfer legs: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("from_wallet", from.ID.String()).
		Str("to_wallet", to.ID.String()).
		Str("amount", req.Amount.String()).
		Msg("transfer completed")

	return &ports.TransferResult{
		FromWallet: from,
		ToWallet:   to,
		DebitLeg:   debitLeg,
		CreditLeg:  creditLeg,
	}, nil
}

// ListTransactions returns a page of ledger entries for a wallet the
// business owns.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, businessID uuid.UUID, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if _, err := s.GetWallet(ctx, businessID, params.WalletID); err != nil {
		return nil, 0, err
	}

	txs, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txs, total, nil
}
