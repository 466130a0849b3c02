package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// StatementUseCase serves read-side queries over the ledger: entry listings,
// period spend aggregates and wallet statistics. Period windows are half-open
// [start, end) in UTC.
type StatementUseCase struct {
	walletRepo WalletRepository
	entryRepo  EntryRepository
	cache      Cache
	metrics    *metrics.Metrics
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	cache Cache,
	metrics *metrics.Metrics,
) *StatementUseCase {
	return &StatementUseCase{
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		cache:      cache,
		metrics:    metrics,
	}
}

// ListEntries returns a page of a wallet's ledger ordered newest first.
func (uc *StatementUseCase) ListEntries(ctx context.Context, walletID string, filter EntryFilter) ([]*domain.Entry, error) {
	if filter.Kind != "" && !filter.Kind.IsValid() {
		return nil, domain.ErrInvalidEntryKind
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.ErrInvalidEntryStatus
	}

	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	if _, err := uc.walletRepo.GetByID(ctx, walletID); err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByWallet(ctx, walletID, filter)
}

// GetEntry returns a single ledger entry.
func (uc *StatementUseCase) GetEntry(ctx context.Context, entryID string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, entryID)
}

// EntriesByReference returns all entries sharing an external reference, such
// as the two legs of a transfer.
func (uc *StatementUseCase) EntriesByReference(ctx context.Context, reference string) ([]*domain.Entry, error) {
	return uc.entryRepo.GetByReference(ctx, reference)
}

// DailySpent sums completed outbound spending for the UTC day containing ts.
// Only real spending counts: freezes and internal moves do not.
func (uc *StatementUseCase) DailySpent(ctx context.Context, walletID string, ts time.Time) (decimal.Decimal, error) {
	day := ts.UTC().Truncate(24 * time.Hour)
	return uc.entryRepo.SumByKinds(ctx, walletID, domain.SpendKinds, day, day.Add(24*time.Hour))
}

// MonthlySpent sums completed outbound spending for the given UTC month.
func (uc *StatementUseCase) MonthlySpent(ctx context.Context, walletID string, year int, month time.Month) (decimal.Decimal, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	return uc.entryRepo.SumByKinds(ctx, walletID, domain.SpendKinds, from, to)
}

// WalletStats is a point-in-time snapshot of a wallet's activity.
type WalletStats struct {
	WalletID        string          `json:"wallet_id"`
	Currency        string          `json:"currency"`
	Balance         decimal.Decimal `json:"balance"`
	FrozenBalance   decimal.Decimal `json:"frozen_balance"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	BalanceBand     string          `json:"balance_band"`
	DailySpent      decimal.Decimal `json:"daily_spent"`
	MonthlySpent    decimal.Decimal `json:"monthly_spent"`
	DailyLimit      decimal.Decimal `json:"daily_limit"`
	MonthlyLimit    decimal.Decimal `json:"monthly_limit"`
	MonthEntryCount int64           `json:"month_entry_count"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// Stats assembles wallet statistics, served from cache for a short window.
// The snapshot may lag writes by up to StatsCacheTTL.
func (uc *StatementUseCase) Stats(ctx context.Context, walletID string) (*WalletStats, error) {
	cacheKey := statsCacheKey(walletID)

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var stats WalletStats
			if err := json.Unmarshal(data, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	daily, err := uc.DailySpent(ctx, walletID, now)
	if err != nil {
		return nil, err
	}
	monthly, err := uc.MonthlySpent(ctx, walletID, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	count, err := uc.entryRepo.CountInPeriod(ctx, walletID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	stats := &WalletStats{
		WalletID:        wallet.ID,
		Currency:        wallet.Currency,
		Balance:         wallet.Balance,
		FrozenBalance:   wallet.FrozenBalance,
		TotalBalance:    wallet.TotalBalance(),
		TotalIncome:     wallet.TotalIncome,
		TotalExpense:    wallet.TotalExpense,
		BalanceBand:     wallet.BalanceBand(),
		DailySpent:      daily,
		MonthlySpent:    monthly,
		DailyLimit:      wallet.DailyLimit,
		MonthlyLimit:    wallet.MonthlyLimit,
		MonthEntryCount: count,
		GeneratedAt:     now,
	}

	if uc.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, data, StatsCacheTTL)
		}
	}

	return stats, nil
}

// InvalidateStats drops the cached snapshot for a wallet.
func (uc *StatementUseCase) InvalidateStats(ctx context.Context, walletID string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Delete(ctx, statsCacheKey(walletID))
}

func statsCacheKey(walletID string) string {
	return fmt.Sprintf("wallet:stats:%s", walletID)
}
