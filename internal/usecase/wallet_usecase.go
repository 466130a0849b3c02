package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// WalletUseCase handles wallet lifecycle: creation, verification, payment
// secret and status transitions.
type WalletUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	owners     OwnerDirectory
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	owners OwnerDirectory,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		owners:     owners,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// GetOrCreateWallet returns the wallet for (ownerID, currency), creating it
// with zero balances on first access. A concurrent create losing the
// uniqueness race falls back to re-reading the winner's row.
func (uc *WalletUseCase) GetOrCreateWallet(ctx context.Context, ownerID, currency string) (*domain.Wallet, error) {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByOwner(ctx, ownerID, currency)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	exists, err := uc.owners.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrOwnerNotFound
	}

	now := time.Now().UTC()
	wallet = &domain.Wallet{
		ID:            uc.idGen.Generate(),
		OwnerID:       ownerID,
		Currency:      currency,
		Balance:       decimal.Zero,
		FrozenBalance: decimal.Zero,
		TotalIncome:   decimal.Zero,
		TotalExpense:  decimal.Zero,
		DailyLimit:    DefaultDailyLimit,
		MonthlyLimit:  DefaultMonthlyLimit,
		Status:        domain.WalletStatusNormal,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		if errors.Is(err, domain.ErrWalletExists) {
			return uc.walletRepo.GetByOwner(ctx, ownerID, currency)
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletsCreated.Inc()
	}

	return wallet, nil
}

// GetWallet retrieves a wallet by ID.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return uc.walletRepo.GetByID(ctx, id)
}

// ListWallets lists all wallets belonging to an owner.
func (uc *WalletUseCase) ListWallets(ctx context.Context, ownerID string) ([]*domain.Wallet, error) {
	return uc.walletRepo.ListByOwner(ctx, ownerID)
}

// SetPaymentSecret hashes and stores the payment secret.
func (uc *WalletUseCase) SetPaymentSecret(ctx context.Context, walletID, secret string) error {
	if err := domain.ValidateSecret(secret); err != nil {
		return err
	}

	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return err
	}
	if wallet.Status == domain.WalletStatusClosed {
		return domain.ErrWalletClosed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return uc.walletRepo.UpdateSecret(ctx, walletID, string(hash), time.Now().UTC())
}

// CheckPaymentSecret verifies the payment secret. Returns ErrSecretNotSet
// when no secret has ever been configured; a wrong secret yields (false, nil).
// The high-value threshold gate that decides when to require this check
// stays with the calling layer.
func (uc *WalletUseCase) CheckPaymentSecret(ctx context.Context, walletID, secret string) (bool, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return false, err
	}

	if !wallet.HasPaymentSecret() {
		return false, domain.ErrSecretNotSet
	}

	if err := bcrypt.CompareHashAndPassword([]byte(wallet.PaymentSecretHash), []byte(secret)); err != nil {
		return false, nil
	}

	return true, nil
}

// VerifyWallet marks a wallet as identity-verified.
func (uc *WalletUseCase) VerifyWallet(ctx context.Context, walletID string) error {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return err
	}
	if wallet.Status == domain.WalletStatusClosed {
		return domain.ErrWalletClosed
	}

	return uc.walletRepo.UpdateVerification(ctx, walletID, time.Now().UTC())
}

// FreezeWallet moves the wallet to frozen status, leaving balances untouched,
// and appends a zero-amount audit entry.
func (uc *WalletUseCase) FreezeWallet(ctx context.Context, walletID, reason string) (*domain.Entry, error) {
	return uc.transitionStatus(ctx, walletID, domain.WalletStatusFrozen, domain.EntryKindFreezeWallet, reason)
}

// UnfreezeWallet returns a frozen wallet to normal status.
func (uc *WalletUseCase) UnfreezeWallet(ctx context.Context, walletID, reason string) (*domain.Entry, error) {
	return uc.transitionStatus(ctx, walletID, domain.WalletStatusNormal, domain.EntryKindUnfreezeWallet, reason)
}

// SuspendWallet moves the wallet to suspended status.
func (uc *WalletUseCase) SuspendWallet(ctx context.Context, walletID, reason string) error {
	_, err := uc.transitionStatus(ctx, walletID, domain.WalletStatusSuspended, "", reason)
	return err
}

// CloseWallet closes the wallet permanently. Closed is terminal.
func (uc *WalletUseCase) CloseWallet(ctx context.Context, walletID, reason string) error {
	_, err := uc.transitionStatus(ctx, walletID, domain.WalletStatusClosed, "", reason)
	return err
}

func (uc *WalletUseCase) transitionStatus(
	ctx context.Context,
	walletID string,
	target domain.WalletStatus,
	auditKind domain.EntryKind,
	reason string,
) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, walletID)
	if err != nil {
		return nil, err
	}

	if wallet.Status == domain.WalletStatusClosed {
		return nil, domain.ErrWalletClosed
	}
	if !wallet.Status.CanTransitionTo(target) {
		return nil, domain.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	if err := uc.walletRepo.UpdateStatus(txCtx, tx, walletID, target, now); err != nil {
		return nil, err
	}

	var entry *domain.Entry
	if auditKind != "" {
		entry = &domain.Entry{
			ID:           uc.idGen.Generate(),
			WalletID:     walletID,
			Kind:         auditKind,
			Amount:       decimal.Zero,
			BalanceAfter: wallet.Balance,
			Status:       domain.EntryStatusCompleted,
			Description:  reason,
			Fee:          decimal.Zero,
			CreatedAt:    now,
		}
		if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
			return nil, err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   walletID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeStatusChanged,
		Payload: map[string]any{
			"wallet_id": walletID,
			"status":    string(target),
			"reason":    reason,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletOperations.WithLabelValues("status_" + string(target)).Inc()
	}

	return entry, nil
}
