package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const walletColumns = `id, owner_id, currency, balance, frozen_balance, total_income, total_expense,
	daily_limit, monthly_limit, status, is_active, is_verified, verified_at,
	payment_secret_hash, payment_secret_set_at, last_transaction_at, created_at, updated_at`

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create inserts a wallet. The (owner_id, currency) unique constraint decides
// concurrent create races; the loser sees zero affected rows and gets
// domain.ErrWalletExists.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (owner_id, currency) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		wallet.ID, wallet.OwnerID, wallet.Currency,
		decimalToNumeric(wallet.Balance), decimalToNumeric(wallet.FrozenBalance),
		decimalToNumeric(wallet.TotalIncome), decimalToNumeric(wallet.TotalExpense),
		decimalToNumeric(wallet.DailyLimit), decimalToNumeric(wallet.MonthlyLimit),
		string(wallet.Status), wallet.IsActive, wallet.IsVerified,
		timePtrToPgTimestamptz(wallet.VerifiedAt),
		wallet.PaymentSecretHash, timePtrToPgTimestamptz(wallet.PaymentSecretSetAt),
		timePtrToPgTimestamptz(wallet.LastTransactionAt),
		timeToPgTimestamptz(wallet.CreatedAt), timeToPgTimestamptz(wallet.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletExists
	}

	return nil
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	return r.scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetByOwner retrieves the wallet for an (owner, currency) pair.
func (r *WalletRepository) GetByOwner(ctx context.Context, ownerID, currency string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 AND currency = $2`

	return r.scanWallet(r.pool.QueryRow(ctx, query, ownerID, currency))
}

// GetByIDForUpdate retrieves a wallet by ID with a FOR UPDATE lock.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	return r.scanWallet(pgxTx.QueryRow(ctx, query, id))
}

// GetByIDsForUpdate locks multiple wallets in ascending ID order, which keeps
// concurrent multi-wallet transactions from deadlocking on each other.
func (r *WalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := pgxTx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock wallets: %w", err)
	}
	defer rows.Close()

	wallets := make([]*domain.Wallet, 0, len(ids))
	for rows.Next() {
		wallet, err := scanWalletRow(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

// UpdateBalances writes back the balance fields after a mutation.
func (r *WalletRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, id string, balances usecase.WalletBalances, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `UPDATE wallets
		SET balance = $2, frozen_balance = $3, total_income = $4, total_expense = $5,
		    last_transaction_at = $6, updated_at = $7
		WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id,
		decimalToNumeric(balances.Balance), decimalToNumeric(balances.FrozenBalance),
		decimalToNumeric(balances.TotalIncome), decimalToNumeric(balances.TotalExpense),
		timeToPgTimestamptz(balances.LastTransactionAt), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("update wallet balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// UpdateStatus writes a new wallet status.
func (r *WalletRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.WalletStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `UPDATE wallets SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, string(status), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return fmt.Errorf("update wallet status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// UpdateSecret stores a new payment secret hash.
func (r *WalletRepository) UpdateSecret(ctx context.Context, id, secretHash string, setAt time.Time) error {
	query := `UPDATE wallets SET payment_secret_hash = $2, payment_secret_set_at = $3, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, secretHash, timeToPgTimestamptz(setAt))
	if err != nil {
		return fmt.Errorf("update wallet secret: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// UpdateVerification marks a wallet as verified.
func (r *WalletRepository) UpdateVerification(ctx context.Context, id string, verifiedAt time.Time) error {
	query := `UPDATE wallets SET is_verified = TRUE, verified_at = $2, updated_at = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, timeToPgTimestamptz(verifiedAt))
	if err != nil {
		return fmt.Errorf("update wallet verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// ListByOwner lists all wallets belonging to an owner.
func (r *WalletRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := scanWalletRow(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

func (r *WalletRepository) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	wallet, err := scanWalletRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	return wallet, nil
}

func scanWalletRow(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	var balance, frozen, income, expense, daily, monthly pgtype.Numeric
	var verifiedAt, secretSetAt, lastTxAt, createdAt, updatedAt pgtype.Timestamptz
	var status string

	err := row.Scan(
		&w.ID, &w.OwnerID, &w.Currency, &balance, &frozen, &income, &expense,
		&daily, &monthly, &status, &w.IsActive, &w.IsVerified, &verifiedAt,
		&w.PaymentSecretHash, &secretSetAt, &lastTxAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.Balance = numericToDecimal(balance)
	w.FrozenBalance = numericToDecimal(frozen)
	w.TotalIncome = numericToDecimal(income)
	w.TotalExpense = numericToDecimal(expense)
	w.DailyLimit = numericToDecimal(daily)
	w.MonthlyLimit = numericToDecimal(monthly)
	w.Status = domain.WalletStatus(status)
	w.VerifiedAt = pgTimestamptzToTimePtr(verifiedAt)
	w.PaymentSecretSetAt = pgTimestamptzToTimePtr(secretSetAt)
	w.LastTransactionAt = pgTimestamptzToTimePtr(lastTxAt)
	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time

	return &w, nil
}
