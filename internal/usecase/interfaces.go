package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletBalances carries the balance fields written back after a mutation.
type WalletBalances struct {
	Balance           decimal.Decimal
	FrozenBalance     decimal.Decimal
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	LastTransactionAt time.Time
}

// EntryFilter narrows ledger entry listings.
type EntryFilter struct {
	Kind   domain.EntryKind
	Status domain.EntryStatus
	Limit  int
	Offset int
}

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	// Create inserts a wallet under the (owner_id, currency) uniqueness
	// constraint and returns domain.ErrWalletExists when a concurrent
	// insert won the race.
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByOwner(ctx context.Context, ownerID, currency string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Wallet, error)
	UpdateBalances(ctx context.Context, tx Transaction, id string, balances WalletBalances, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.WalletStatus, updatedAt time.Time) error
	UpdateSecret(ctx context.Context, id, secretHash string, setAt time.Time) error
	UpdateVerification(ctx context.Context, id string, verifiedAt time.Time) error
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Wallet, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.EntryStatus) error
	ListByWallet(ctx context.Context, walletID string, filter EntryFilter) ([]*domain.Entry, error)
	GetByReference(ctx context.Context, reference string) ([]*domain.Entry, error)
	// SumByKinds totals entry amounts of the given kinds with created_at in
	// [from, to).
	SumByKinds(ctx context.Context, walletID string, kinds []domain.EntryKind, from, to time.Time) (decimal.Decimal, error)
	CountInPeriod(ctx context.Context, walletID string, from, to time.Time) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// OwnerDirectory is the outbound port to the identity system. The ledger
// only ever asks whether an owner exists and is active.
type OwnerDirectory interface {
	Exists(ctx context.Context, ownerID string) (bool, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs a unit of work after transient database failures such as
// deadlocks and serialization conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
