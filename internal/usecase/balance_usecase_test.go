package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func newTestWallet(id string) *domain.Wallet {
	now := time.Now().UTC()
	return &domain.Wallet{
		ID:            id,
		OwnerID:       "owner-" + id,
		Currency:      "CNY",
		Balance:       decimal.NewFromInt(500),
		FrozenBalance: decimal.Zero,
		TotalIncome:   decimal.NewFromInt(500),
		TotalExpense:  decimal.Zero,
		DailyLimit:    decimal.NewFromInt(10000),
		MonthlyLimit:  decimal.NewFromInt(100000),
		Status:        domain.WalletStatusNormal,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newBalanceUseCase(walletRepo *mocks.MockWalletRepository, entryRepo *mocks.MockEntryRepository, outboxRepo *mocks.MockOutboxRepository) *usecase.BalanceUseCase {
	return usecase.NewBalanceUseCase(
		mocks.NewMockTransactionManager(),
		walletRepo,
		entryRepo,
		outboxRepo,
		mocks.NewMockIDGenerator(),
		nil,
	)
}

func TestBalanceUseCase_Deposit(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(w *domain.Wallet)
		amount      decimal.Decimal
		wantErr     error
		wantBalance decimal.Decimal
	}{
		{
			name:        "successful deposit",
			amount:      decimal.NewFromInt(100),
			wantBalance: decimal.NewFromInt(600),
		},
		{
			name:        "deposit accepted while frozen",
			setup:       func(w *domain.Wallet) { w.Status = domain.WalletStatusFrozen },
			amount:      decimal.NewFromInt(100),
			wantBalance: decimal.NewFromInt(600),
		},
		{
			name:        "deposit accepted while suspended",
			setup:       func(w *domain.Wallet) { w.Status = domain.WalletStatusSuspended },
			amount:      decimal.NewFromInt(100),
			wantBalance: decimal.NewFromInt(600),
		},
		{
			name:    "deposit rejected when closed",
			setup:   func(w *domain.Wallet) { w.Status = domain.WalletStatusClosed },
			amount:  decimal.NewFromInt(100),
			wantErr: domain.ErrWalletClosed,
		},
		{
			name:    "zero amount rejected",
			amount:  decimal.Zero,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount rejected",
			amount:  decimal.NewFromInt(-5),
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "precision beyond currency rejected",
			amount:  decimal.RequireFromString("1.005"),
			wantErr: domain.ErrAmountPrecision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet := newTestWallet("w-1")
			if tt.setup != nil {
				tt.setup(wallet)
			}

			walletRepo := mocks.NewMockWalletRepository()
			walletRepo.Seed(wallet)
			entryRepo := mocks.NewMockEntryRepository()
			outboxRepo := mocks.NewMockOutboxRepository()
			uc := newBalanceUseCase(walletRepo, entryRepo, outboxRepo)

			entry, err := uc.Deposit(context.Background(), usecase.DepositInput{
				WalletID: wallet.ID,
				Amount:   tt.amount,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(entryRepo.All()) != 0 {
					t.Error("failed deposit must not write entries")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entry.Kind != domain.EntryKindDeposit {
				t.Errorf("expected deposit entry, got %s", entry.Kind)
			}
			if !entry.BalanceAfter.Equal(tt.wantBalance) {
				t.Errorf("expected balance after %s, got %s", tt.wantBalance, entry.BalanceAfter)
			}
			if !wallet.Balance.Equal(tt.wantBalance) {
				t.Errorf("expected wallet balance %s, got %s", tt.wantBalance, wallet.Balance)
			}
			if entry.Status != domain.EntryStatusCompleted {
				t.Errorf("expected completed entry, got %s", entry.Status)
			}
			if len(outboxRepo.Events()) != 1 {
				t.Errorf("expected 1 outbox event, got %d", len(outboxRepo.Events()))
			}
		})
	}
}

func TestBalanceUseCase_Withdraw(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(w *domain.Wallet)
		amount  decimal.Decimal
		wantErr error
	}{
		{
			name:   "successful withdrawal",
			amount: decimal.NewFromInt(200),
		},
		{
			name:   "exact balance drains wallet to zero",
			amount: decimal.NewFromInt(500),
		},
		{
			name:    "insufficient available balance",
			amount:  decimal.NewFromInt(501),
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name: "frozen balance does not cover withdrawals",
			setup: func(w *domain.Wallet) {
				w.Balance = decimal.NewFromInt(100)
				w.FrozenBalance = decimal.NewFromInt(400)
			},
			amount:  decimal.NewFromInt(200),
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:    "rejected while frozen",
			setup:   func(w *domain.Wallet) { w.Status = domain.WalletStatusFrozen },
			amount:  decimal.NewFromInt(100),
			wantErr: domain.ErrWalletStatus,
		},
		{
			name:    "rejected while suspended",
			setup:   func(w *domain.Wallet) { w.Status = domain.WalletStatusSuspended },
			amount:  decimal.NewFromInt(100),
			wantErr: domain.ErrWalletStatus,
		},
		{
			name:    "rejected when closed",
			setup:   func(w *domain.Wallet) { w.Status = domain.WalletStatusClosed },
			amount:  decimal.NewFromInt(100),
			wantErr: domain.ErrWalletClosed,
		},
		{
			name:    "rejected when deactivated",
			setup:   func(w *domain.Wallet) { w.IsActive = false },
			amount:  decimal.NewFromInt(100),
			wantErr: domain.ErrWalletDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet := newTestWallet("w-1")
			if tt.setup != nil {
				tt.setup(wallet)
			}
			startBalance := wallet.Balance

			walletRepo := mocks.NewMockWalletRepository()
			walletRepo.Seed(wallet)
			entryRepo := mocks.NewMockEntryRepository()
			outboxRepo := mocks.NewMockOutboxRepository()
			uc := newBalanceUseCase(walletRepo, entryRepo, outboxRepo)

			entry, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
				WalletID:    wallet.ID,
				Amount:      tt.amount,
				Destination: "bank:6222",
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !wallet.Balance.Equal(startBalance) {
					t.Error("failed withdrawal must not change balance")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := startBalance.Sub(tt.amount)
			if !wallet.Balance.Equal(want) {
				t.Errorf("expected balance %s, got %s", want, wallet.Balance)
			}
			if !entry.BalanceAfter.Equal(want) {
				t.Errorf("expected balance after %s, got %s", want, entry.BalanceAfter)
			}
			if entry.Kind != domain.EntryKindWithdraw {
				t.Errorf("expected withdraw entry, got %s", entry.Kind)
			}
			if !wallet.TotalExpense.Equal(tt.amount) {
				t.Errorf("expected total expense %s, got %s", tt.amount, wallet.TotalExpense)
			}
		})
	}
}

func TestBalanceUseCase_Pay_RecordsPaymentEntry(t *testing.T) {
	wallet := newTestWallet("w-1")
	walletRepo := mocks.NewMockWalletRepository()
	walletRepo.Seed(wallet)
	entryRepo := mocks.NewMockEntryRepository()
	uc := newBalanceUseCase(walletRepo, entryRepo, mocks.NewMockOutboxRepository())

	entry, err := uc.Pay(context.Background(), usecase.PayInput{
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(120),
		Destination: "merchant-77",
		Reference:   "order-42",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Kind != domain.EntryKindPayment {
		t.Errorf("expected payment entry, got %s", entry.Kind)
	}
	if entry.ExternalReference != "order-42" {
		t.Errorf("expected reference order-42, got %s", entry.ExternalReference)
	}
	if !wallet.Balance.Equal(decimal.NewFromInt(380)) {
		t.Errorf("expected balance 380, got %s", wallet.Balance)
	}
}

func TestBalanceUseCase_Pay_NegativeFeeRejected(t *testing.T) {
	wallet := newTestWallet("w-1")
	walletRepo := mocks.NewMockWalletRepository()
	walletRepo.Seed(wallet)
	uc := newBalanceUseCase(walletRepo, mocks.NewMockEntryRepository(), mocks.NewMockOutboxRepository())

	_, err := uc.Pay(context.Background(), usecase.PayInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(10),
		Fee:      decimal.NewFromInt(-1),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestBalanceUseCase_FreezeUnfreezeFunds(t *testing.T) {
	wallet := newTestWallet("w-1")
	walletRepo := mocks.NewMockWalletRepository()
	walletRepo.Seed(wallet)
	entryRepo := mocks.NewMockEntryRepository()
	uc := newBalanceUseCase(walletRepo, entryRepo, mocks.NewMockOutboxRepository())

	ctx := context.Background()
	total := wallet.TotalBalance()

	entry, err := uc.FreezeFunds(ctx, wallet.ID, decimal.NewFromInt(300), "dispute")
	if err != nil {
		t.Fatalf("freeze failed: %v", err)
	}
	if entry.Kind != domain.EntryKindFreeze {
		t.Errorf("expected freeze entry, got %s", entry.Kind)
	}
	if !wallet.Balance.Equal(decimal.NewFromInt(200)) || !wallet.FrozenBalance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected 200/300 split, got %s/%s", wallet.Balance, wallet.FrozenBalance)
	}
	if !wallet.TotalBalance().Equal(total) {
		t.Error("freezing must not change total holdings")
	}

	// Freezing more than available fails without clamping.
	if _, err := uc.FreezeFunds(ctx, wallet.ID, decimal.NewFromInt(201), ""); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Unfreezing more than frozen fails without clamping.
	if _, err := uc.UnfreezeFunds(ctx, wallet.ID, decimal.NewFromInt(301), ""); !errors.Is(err, domain.ErrInsufficientFrozenBalance) {
		t.Fatalf("expected ErrInsufficientFrozenBalance, got %v", err)
	}

	entry, err = uc.UnfreezeFunds(ctx, wallet.ID, decimal.NewFromInt(300), "resolved")
	if err != nil {
		t.Fatalf("unfreeze failed: %v", err)
	}
	if entry.Kind != domain.EntryKindUnfreeze {
		t.Errorf("expected unfreeze entry, got %s", entry.Kind)
	}
	if !wallet.Balance.Equal(decimal.NewFromInt(500)) || !wallet.FrozenBalance.IsZero() {
		t.Fatalf("expected funds restored, got %s/%s", wallet.Balance, wallet.FrozenBalance)
	}
	if !wallet.TotalIncome.Equal(decimal.NewFromInt(500)) || !wallet.TotalExpense.IsZero() {
		t.Error("freeze cycle must not touch lifetime totals")
	}
}

func TestBalanceUseCase_FrozenFundsSpendableAfterRelease(t *testing.T) {
	wallet := newTestWallet("w-1")
	walletRepo := mocks.NewMockWalletRepository()
	walletRepo.Seed(wallet)
	uc := newBalanceUseCase(walletRepo, mocks.NewMockEntryRepository(), mocks.NewMockOutboxRepository())

	ctx := context.Background()

	if _, err := uc.FreezeFunds(ctx, wallet.ID, decimal.NewFromInt(450), ""); err != nil {
		t.Fatalf("freeze failed: %v", err)
	}
	if _, err := uc.Withdraw(ctx, usecase.WithdrawInput{WalletID: wallet.ID, Amount: decimal.NewFromInt(100)}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds while frozen, got %v", err)
	}
	if _, err := uc.UnfreezeFunds(ctx, wallet.ID, decimal.NewFromInt(450), ""); err != nil {
		t.Fatalf("unfreeze failed: %v", err)
	}
	if _, err := uc.Withdraw(ctx, usecase.WithdrawInput{WalletID: wallet.ID, Amount: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("withdrawal after release failed: %v", err)
	}
}

func TestBalanceUseCase_RollbackOnEntryFailure(t *testing.T) {
	wallet := newTestWallet("w-1")
	walletRepo := mocks.NewMockWalletRepository()
	walletRepo.Seed(wallet)

	entryRepo := mocks.NewMockEntryRepository()
	entryRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
		return errors.New("insert failed")
	}

	txMgr := mocks.NewMockTransactionManager()
	rolledBack := false
	txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			RollbackFunc: func(ctx context.Context) error {
				rolledBack = true
				return nil
			},
		}, nil
	}

	uc := usecase.NewBalanceUseCase(txMgr, walletRepo, entryRepo, mocks.NewMockOutboxRepository(), mocks.NewMockIDGenerator(), nil)

	_, err := uc.Deposit(context.Background(), usecase.DepositInput{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(100),
	})
	if err == nil {
		t.Fatal("expected error when entry insert fails")
	}
	if !rolledBack {
		t.Error("expected transaction rollback")
	}
}

func TestBalanceUseCase_RetriesAbortedMutation(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	entryRepo := mocks.NewMockEntryRepository()
	retrier := &reRunRetrier{}
	uc := newBalanceUseCase(walletRepo, entryRepo, mocks.NewMockOutboxRepository()).WithRetrier(retrier)

	walletRepo.Seed(newTestWallet("w-1"))

	var createCalls int
	entryRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
		createCalls++
		if createCalls == 1 {
			return errors.New("deadlock detected")
		}
		return nil
	}

	entry, err := uc.Deposit(context.Background(), usecase.DepositInput{
		WalletID: "w-1",
		Amount:   decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected an entry after the re-run")
	}
	if retrier.attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", retrier.attempts)
	}
}
