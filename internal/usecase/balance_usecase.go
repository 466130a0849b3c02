package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// BalanceUseCase handles single-wallet balance mutations: deposits,
// withdrawals, payments and freezing/unfreezing of funds. Every mutation is
// one unit of work: lock the wallet row, validate against the locked state,
// write the new balances and exactly one ledger entry, commit.
type BalanceUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *BalanceUseCase {
	return &BalanceUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// WithRetrier re-runs mutations that abort on deadlock or serialization
// conflicts. Returns the use case for chaining.
func (uc *BalanceUseCase) WithRetrier(retrier Retrier) *BalanceUseCase {
	uc.retrier = retrier
	return uc
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	WalletID    string
	Amount      decimal.Decimal
	Source      string
	Description string
	Reference   string
	Metadata    map[string]any
}

// Deposit credits the wallet. Deposits are accepted while the wallet is
// frozen or suspended; only a closed wallet refuses them.
func (uc *BalanceUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Entry, error) {
	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}

	start := time.Now()

	entry, err := uc.mutate(ctx, input.WalletID, func(wallet *domain.Wallet, now time.Time) (*domain.Entry, error) {
		if err := domain.ValidateAmount(input.Amount, wallet.Currency); err != nil {
			return nil, err
		}
		if err := wallet.AcceptsCredit(); err != nil {
			return nil, err
		}

		wallet.Balance = wallet.Balance.Add(input.Amount)
		wallet.TotalIncome = wallet.TotalIncome.Add(input.Amount)

		description := input.Description
		if description == "" {
			description = "wallet deposit"
		}

		return &domain.Entry{
			ID:                uc.idGen.Generate(),
			WalletID:          wallet.ID,
			Kind:              domain.EntryKindDeposit,
			Amount:            input.Amount,
			BalanceAfter:      wallet.Balance,
			Status:            domain.EntryStatusCompleted,
			Description:       description,
			Source:            input.Source,
			ExternalReference: input.Reference,
			Fee:               decimal.Zero,
			Metadata:          input.Metadata,
			CreatedAt:         now,
		}, nil
	}, domain.EventTypeWalletDeposit)
	if err != nil {
		uc.countError("deposit", err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Deposits.Inc()
		uc.metrics.OperationDuration.WithLabelValues("deposit").Observe(time.Since(start).Seconds())
		amt, _ := input.Amount.Float64()
		uc.metrics.MovedAmount.WithLabelValues("deposit").Observe(amt)
	}

	return entry, nil
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	WalletID    string
	Amount      decimal.Decimal
	Destination string
	Description string
	Reference   string
	Metadata    map[string]any
}

// Withdraw debits the wallet after the spending gate passes.
func (uc *BalanceUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Entry, error) {
	return uc.spend(ctx, spendInput{
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Destination: input.Destination,
		Description: input.Description,
		Reference:   input.Reference,
		Metadata:    input.Metadata,
	}, domain.EntryKindWithdraw, "wallet withdrawal", domain.EventTypeWalletWithdraw)
}

// PayInput represents input for a payment.
type PayInput struct {
	WalletID    string
	Amount      decimal.Decimal
	Destination string
	Description string
	Reference   string
	Fee         decimal.Decimal
	Metadata    map[string]any
}

// Pay debits the wallet for a purchase. Payment entries are the only kind
// eligible for refunds later.
func (uc *BalanceUseCase) Pay(ctx context.Context, input PayInput) (*domain.Entry, error) {
	return uc.spend(ctx, spendInput{
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Destination: input.Destination,
		Description: input.Description,
		Reference:   input.Reference,
		Fee:         input.Fee,
		Metadata:    input.Metadata,
	}, domain.EntryKindPayment, "wallet payment", domain.EventTypeWalletPayment)
}

type spendInput struct {
	WalletID    string
	Amount      decimal.Decimal
	Destination string
	Description string
	Reference   string
	Fee         decimal.Decimal
	Metadata    map[string]any
}

func (uc *BalanceUseCase) spend(
	ctx context.Context,
	input spendInput,
	kind domain.EntryKind,
	defaultDescription string,
	eventType string,
) (*domain.Entry, error) {
	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}
	if input.Fee.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	start := time.Now()
	operation := string(kind)

	entry, err := uc.mutate(ctx, input.WalletID, func(wallet *domain.Wallet, now time.Time) (*domain.Entry, error) {
		if err := domain.ValidateAmount(input.Amount, wallet.Currency); err != nil {
			return nil, err
		}
		if err := wallet.CanSpend(input.Amount); err != nil {
			return nil, err
		}

		wallet.Balance = wallet.Balance.Sub(input.Amount)
		wallet.TotalExpense = wallet.TotalExpense.Add(input.Amount)

		description := input.Description
		if description == "" {
			description = defaultDescription
		}

		return &domain.Entry{
			ID:                uc.idGen.Generate(),
			WalletID:          wallet.ID,
			Kind:              kind,
			Amount:            input.Amount,
			BalanceAfter:      wallet.Balance,
			Status:            domain.EntryStatusCompleted,
			Description:       description,
			Destination:       input.Destination,
			ExternalReference: input.Reference,
			Fee:               input.Fee,
			Metadata:          input.Metadata,
			CreatedAt:         now,
		}, nil
	}, eventType)
	if err != nil {
		uc.countError(operation, err)
		return nil, err
	}

	if uc.metrics != nil {
		switch kind {
		case domain.EntryKindWithdraw:
			uc.metrics.Withdrawals.Inc()
		case domain.EntryKindPayment:
			uc.metrics.Payments.Inc()
		}
		uc.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		amt, _ := input.Amount.Float64()
		uc.metrics.MovedAmount.WithLabelValues(operation).Observe(amt)
	}

	return entry, nil
}

// FreezeFunds moves amount from available to frozen balance.
func (uc *BalanceUseCase) FreezeFunds(ctx context.Context, walletID string, amount decimal.Decimal, reason string) (*domain.Entry, error) {
	entry, err := uc.mutate(ctx, walletID, func(wallet *domain.Wallet, now time.Time) (*domain.Entry, error) {
		if err := domain.ValidateAmount(amount, wallet.Currency); err != nil {
			return nil, err
		}
		if err := wallet.ValidateFreeze(amount); err != nil {
			return nil, err
		}

		wallet.Balance = wallet.Balance.Sub(amount)
		wallet.FrozenBalance = wallet.FrozenBalance.Add(amount)

		description := reason
		if description == "" {
			description = "funds frozen"
		}

		return &domain.Entry{
			ID:           uc.idGen.Generate(),
			WalletID:     wallet.ID,
			Kind:         domain.EntryKindFreeze,
			Amount:       amount,
			BalanceAfter: wallet.Balance,
			Status:       domain.EntryStatusCompleted,
			Description:  description,
			Fee:          decimal.Zero,
			CreatedAt:    now,
		}, nil
	}, domain.EventTypeFundsFrozen)
	if err != nil {
		uc.countError("freeze", err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.FundsFrozen.Inc()
	}

	return entry, nil
}

// UnfreezeFunds releases amount from frozen back to available balance.
func (uc *BalanceUseCase) UnfreezeFunds(ctx context.Context, walletID string, amount decimal.Decimal, reason string) (*domain.Entry, error) {
	entry, err := uc.mutate(ctx, walletID, func(wallet *domain.Wallet, now time.Time) (*domain.Entry, error) {
		if err := domain.ValidateAmount(amount, wallet.Currency); err != nil {
			return nil, err
		}
		if err := wallet.ValidateUnfreeze(amount); err != nil {
			return nil, err
		}

		wallet.FrozenBalance = wallet.FrozenBalance.Sub(amount)
		wallet.Balance = wallet.Balance.Add(amount)

		description := reason
		if description == "" {
			description = "funds unfrozen"
		}

		return &domain.Entry{
			ID:           uc.idGen.Generate(),
			WalletID:     wallet.ID,
			Kind:         domain.EntryKindUnfreeze,
			Amount:       amount,
			BalanceAfter: wallet.Balance,
			Status:       domain.EntryStatusCompleted,
			Description:  description,
			Fee:          decimal.Zero,
			CreatedAt:    now,
		}, nil
	}, domain.EventTypeFundsUnfrozen)
	if err != nil {
		uc.countError("unfreeze", err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.FundsUnfrozen.Inc()
	}

	return entry, nil
}

// mutate is the shared unit of work for single-wallet operations: lock the
// row, let apply validate and adjust the in-memory wallet and produce the
// entry, then persist balances, entry and outbox event atomically. With a
// retrier attached, aborted transactions are re-run from the lock.
func (uc *BalanceUseCase) mutate(
	ctx context.Context,
	walletID string,
	apply func(wallet *domain.Wallet, now time.Time) (*domain.Entry, error),
	eventType string,
) (*domain.Entry, error) {
	if uc.retrier == nil {
		return uc.mutateInTx(ctx, walletID, apply, eventType)
	}

	var entry *domain.Entry
	err := uc.retrier.Retry(ctx, func() error {
		var opErr error
		entry, opErr = uc.mutateInTx(ctx, walletID, apply, eventType)
		return opErr
	})
	return entry, err
}

func (uc *BalanceUseCase) mutateInTx(
	ctx context.Context,
	walletID string,
	apply func(wallet *domain.Wallet, now time.Time) (*domain.Entry, error),
	eventType string,
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

	now := time.Now().UTC()

	entry, err := apply(wallet, now)
	if err != nil {
		return nil, err
	}

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

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   wallet.ID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     eventType,
		Payload: map[string]any{
			"wallet_id": wallet.ID,
			"entry_id":  entry.ID,
			"kind":      string(entry.Kind),
			"amount":    entry.Amount.String(),
			"currency":  wallet.Currency,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *BalanceUseCase) countError(operation string, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.OperationErrors.WithLabelValues(operation, errorType(err)).Inc()
}
