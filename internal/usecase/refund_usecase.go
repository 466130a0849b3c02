package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// RefundUseCase reverses completed payment entries. The original entry is
// locked and flipped to refunded inside the same transaction that credits
// the wallet, so a concurrent second refund of the same payment loses the
// eligibility check.
type RefundUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewRefundUseCase creates a new RefundUseCase.
func NewRefundUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *RefundUseCase {
	return &RefundUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// Refund returns the full amount of a completed payment to its wallet.
func (uc *RefundUseCase) Refund(ctx context.Context, entryID, reason string) (*domain.Entry, error) {
	start := time.Now()

	entry, err := uc.refund(ctx, entryID, reason)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.OperationErrors.WithLabelValues("refund", errorType(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Refunds.Inc()
		uc.metrics.OperationDuration.WithLabelValues("refund").Observe(time.Since(start).Seconds())
		amt, _ := entry.Amount.Float64()
		uc.metrics.MovedAmount.WithLabelValues("refund").Observe(amt)
	}

	return entry, nil
}

func (uc *RefundUseCase) refund(ctx context.Context, entryID, reason string) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	original, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, entryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if !original.CanRefund(now) {
		return nil, domain.ErrRefundIneligible
	}

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, original.WalletID)
	if err != nil {
		return nil, err
	}
	if err := wallet.AcceptsCredit(); err != nil {
		return nil, err
	}

	wallet.Balance = wallet.Balance.Add(original.Amount)
	wallet.TotalIncome = wallet.TotalIncome.Add(original.Amount)

	err = uc.walletRepo.UpdateBalances(txCtx, tx, wallet.ID, WalletBalances{
		Balance:           wallet.Balance,
		FrozenBalance:     wallet.FrozenBalance,
		TotalIncome:       wallet.TotalIncome,
		TotalExpense:      wallet.TotalExpense,
		LastTransactionAt: now,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := uc.entryRepo.UpdateStatus(txCtx, tx, original.ID, domain.EntryStatusRefunded); err != nil {
		return nil, err
	}

	description := reason
	if description == "" {
		description = "payment refund"
	}

	refundEntry := &domain.Entry{
		ID:                uc.idGen.Generate(),
		WalletID:          wallet.ID,
		Kind:              domain.EntryKindRefund,
		Amount:            original.Amount,
		BalanceAfter:      wallet.Balance,
		Status:            domain.EntryStatusCompleted,
		Description:       description,
		ExternalReference: original.ID,
		Fee:               decimal.Zero,
		CreatedAt:         now,
	}
	if err := uc.entryRepo.Create(txCtx, tx, refundEntry); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   wallet.ID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeWalletRefund,
		Payload: map[string]any{
			"wallet_id":      wallet.ID,
			"entry_id":       refundEntry.ID,
			"refunded_entry": original.ID,
			"amount":         original.Amount.String(),
			"currency":       wallet.Currency,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return refundEntry, nil
}
