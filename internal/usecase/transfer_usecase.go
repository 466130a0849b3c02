package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// TransferUseCase moves funds between two wallets of the same currency in a
// single database transaction. Rows are locked in sorted ID order so two
// opposing transfers cannot deadlock on each other.
type TransferUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// WithRetrier re-runs transfers that abort on deadlock or serialization
// conflicts. Returns the use case for chaining.
func (uc *TransferUseCase) WithRetrier(retrier Retrier) *TransferUseCase {
	uc.retrier = retrier
	return uc
}

// TransferInput represents input for a transfer between wallets.
type TransferInput struct {
	FromWalletID string
	ToWalletID   string
	Amount       decimal.Decimal
	Description  string
	Metadata     map[string]any
}

// TransferResult carries both legs of a completed transfer. The legs share
// the same reference so a statement reader can pair them.
type TransferResult struct {
	Reference string
	OutEntry  *domain.Entry
	InEntry   *domain.Entry
}

// Transfer debits the sender and credits the receiver atomically.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.FromWalletID == input.ToWalletID {
		return nil, domain.ErrSameWallet
	}
	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}

	start := time.Now()

	result, err := uc.runTransfer(ctx, input)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.OperationErrors.WithLabelValues("transfer", errorType(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Transfers.Inc()
		uc.metrics.OperationDuration.WithLabelValues("transfer").Observe(time.Since(start).Seconds())
		amt, _ := input.Amount.Float64()
		uc.metrics.MovedAmount.WithLabelValues("transfer").Observe(amt)
	}

	return result, nil
}

func (uc *TransferUseCase) runTransfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if uc.retrier == nil {
		return uc.transfer(ctx, input)
	}

	var result *TransferResult
	err := uc.retrier.Retry(ctx, func() error {
		var opErr error
		result, opErr = uc.transfer(ctx, input)
		return opErr
	})
	return result, err
}

func (uc *TransferUseCase) transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	ids := []string{input.FromWalletID, input.ToWalletID}
	sort.Strings(ids)

	wallets, err := uc.walletRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return nil, err
	}
	if len(wallets) != 2 {
		return nil, domain.ErrWalletNotFound
	}

	var from, to *domain.Wallet
	for _, w := range wallets {
		switch w.ID {
		case input.FromWalletID:
			from = w
		case input.ToWalletID:
			to = w
		}
	}
	if from == nil || to == nil {
		return nil, domain.ErrWalletNotFound
	}

	if from.Currency != to.Currency {
		return nil, domain.ErrCurrencyMismatch
	}
	if err := domain.ValidateAmount(input.Amount, from.Currency); err != nil {
		return nil, err
	}
	if err := from.CanSpend(input.Amount); err != nil {
		return nil, err
	}
	if err := to.AcceptsCredit(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reference := uc.idGen.Generate()

	from.Balance = from.Balance.Sub(input.Amount)
	from.TotalExpense = from.TotalExpense.Add(input.Amount)
	to.Balance = to.Balance.Add(input.Amount)
	to.TotalIncome = to.TotalIncome.Add(input.Amount)

	description := input.Description
	if description == "" {
		description = "wallet transfer"
	}

	outEntry := &domain.Entry{
		ID:                uc.idGen.Generate(),
		WalletID:          from.ID,
		Kind:              domain.EntryKindTransferOut,
		Amount:            input.Amount,
		BalanceAfter:      from.Balance,
		Status:            domain.EntryStatusCompleted,
		Description:       description,
		Destination:       to.ID,
		ExternalReference: reference,
		Fee:               decimal.Zero,
		Metadata:          input.Metadata,
		CreatedAt:         now,
	}
	inEntry := &domain.Entry{
		ID:                uc.idGen.Generate(),
		WalletID:          to.ID,
		Kind:              domain.EntryKindTransferIn,
		Amount:            input.Amount,
		BalanceAfter:      to.Balance,
		Status:            domain.EntryStatusCompleted,
		Description:       description,
		Source:            from.ID,
		ExternalReference: reference,
		Fee:               decimal.Zero,
		Metadata:          input.Metadata,
		CreatedAt:         now,
	}

	for _, w := range []*domain.Wallet{from, to} {
		err = uc.walletRepo.UpdateBalances(txCtx, tx, w.ID, WalletBalances{
			Balance:           w.Balance,
			FrozenBalance:     w.FrozenBalance,
			TotalIncome:       w.TotalIncome,
			TotalExpense:      w.TotalExpense,
			LastTransactionAt: now,
		}, now)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.entryRepo.Create(txCtx, tx, outEntry); err != nil {
		return nil, err
	}
	if err := uc.entryRepo.Create(txCtx, tx, inEntry); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   from.ID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeWalletTransfer,
		Payload: map[string]any{
			"reference":      reference,
			"from_wallet_id": from.ID,
			"to_wallet_id":   to.ID,
			"amount":         input.Amount.String(),
			"currency":       from.Currency,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &TransferResult{
		Reference: reference,
		OutEntry:  outEntry,
		InEntry:   inEntry,
	}, nil
}
