package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const entryColumns = `id, wallet_id, kind, amount, balance_after, status, description,
	source, destination, external_reference, fee, metadata, created_at`

// EntryRepository implements usecase.EntryRepository over the append-only
// wallet_transactions table.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends a ledger entry within the given transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal entry metadata: %w", err)
		}
	}

	query := `INSERT INTO wallet_transactions (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID, entry.WalletID, string(entry.Kind),
		decimalToNumeric(entry.Amount), decimalToNumeric(entry.BalanceAfter),
		string(entry.Status), entry.Description, entry.Source, entry.Destination,
		entry.ExternalReference, decimalToNumeric(entry.Fee), metadata,
		timeToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	return nil
}

// GetByID retrieves a ledger entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM wallet_transactions WHERE id = $1`

	return scanEntry(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a ledger entry with a FOR UPDATE lock.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + entryColumns + ` FROM wallet_transactions WHERE id = $1 FOR UPDATE`

	return scanEntry(pgxTx.QueryRow(ctx, query, id))
}

// UpdateStatus changes an entry's processing status. The only transition the
// ledger performs is completed to refunded.
func (r *EntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `UPDATE wallet_transactions SET status = $2 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("update entry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// ListByWallet returns a page of a wallet's entries, newest first.
func (r *EntryRepository) ListByWallet(ctx context.Context, walletID string, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM wallet_transactions WHERE wallet_id = $1`
	args := []any{walletID}

	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetByReference returns all entries sharing an external reference, such as
// the two legs of a transfer.
func (r *EntryRepository) GetByReference(ctx context.Context, reference string) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM wallet_transactions
		WHERE external_reference = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("get entries by reference: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// SumByKinds totals completed entry amounts of the given kinds with
// created_at in [from, to).
func (r *EntryRepository) SumByKinds(ctx context.Context, walletID string, kinds []domain.EntryKind, from, to time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions
		WHERE wallet_id = $1 AND kind = ANY($2) AND status = $3
		  AND created_at >= $4 AND created_at < $5`

	kindStrings := make([]string, len(kinds))
	for i, k := range kinds {
		kindStrings[i] = string(k)
	}

	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, query, walletID, kindStrings,
		string(domain.EntryStatusCompleted),
		timeToPgTimestamptz(from), timeToPgTimestamptz(to),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum entries: %w", err)
	}

	return numericToDecimal(sum), nil
}

// CountInPeriod counts a wallet's entries with created_at in [from, to).
func (r *EntryRepository) CountInPeriod(ctx context.Context, walletID string, from, to time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM wallet_transactions
		WHERE wallet_id = $1 AND created_at >= $2 AND created_at < $3`

	var count int64
	err := r.pool.QueryRow(ctx, query, walletID,
		timeToPgTimestamptz(from), timeToPgTimestamptz(to),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}

	return count, nil
}

func collectEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	entry, err := scanEntryRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

func scanEntryRow(row pgx.Row) (*domain.Entry, error) {
	var e domain.Entry
	var amount, balanceAfter, fee pgtype.Numeric
	var createdAt pgtype.Timestamptz
	var kind, status string
	var metadata []byte

	err := row.Scan(
		&e.ID, &e.WalletID, &kind, &amount, &balanceAfter, &status,
		&e.Description, &e.Source, &e.Destination, &e.ExternalReference,
		&fee, &metadata, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	e.Kind = domain.EntryKind(kind)
	e.Status = domain.EntryStatus(status)
	e.Amount = numericToDecimal(amount)
	e.BalanceAfter = numericToDecimal(balanceAfter)
	e.Fee = numericToDecimal(fee)
	e.CreatedAt = createdAt.Time

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal entry metadata: %w", err)
		}
	}

	return &e, nil
}
