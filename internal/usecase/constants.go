package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. This prevents long-running transactions from blocking rows.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// StatsCacheTTL is how long wallet stats stay cached.
	StatsCacheTTL = 2 * time.Minute
)

// Default per-period spend limits for new wallets. Informational only;
// enforcement stays with the policy layer above this core.
var (
	DefaultDailyLimit   = decimal.NewFromInt(10000)
	DefaultMonthlyLimit = decimal.NewFromInt(100000)
)
