package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnerDirectory implements usecase.OwnerDirectory against the identity
// service's users table. The ledger never writes to it.
type OwnerDirectory struct {
	pool *pgxpool.Pool
}

// NewOwnerDirectory creates a new OwnerDirectory.
func NewOwnerDirectory(pool *pgxpool.Pool) *OwnerDirectory {
	return &OwnerDirectory{pool: pool}
}

// Exists reports whether an active owner with the given ID exists.
func (d *OwnerDirectory) Exists(ctx context.Context, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND is_active = TRUE)`

	var exists bool
	if err := d.pool.QueryRow(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check owner exists: %w", err)
	}

	return exists, nil
}
