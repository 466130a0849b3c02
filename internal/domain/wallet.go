package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletStatus is the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusNormal    WalletStatus = "normal"
	WalletStatusFrozen    WalletStatus = "frozen"
	WalletStatusSuspended WalletStatus = "suspended"
	WalletStatusClosed    WalletStatus = "closed"
)

// IsValid reports whether the status is one of the known states.
func (s WalletStatus) IsValid() bool {
	switch s {
	case WalletStatusNormal, WalletStatusFrozen, WalletStatusSuspended, WalletStatusClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine permits moving to target.
// Closed is terminal.
func (s WalletStatus) CanTransitionTo(target WalletStatus) bool {
	if s == WalletStatusClosed {
		return false
	}
	if target == WalletStatusClosed {
		return true
	}

	switch s {
	case WalletStatusNormal:
		return target == WalletStatusFrozen || target == WalletStatusSuspended
	case WalletStatusFrozen:
		return target == WalletStatusNormal || target == WalletStatusSuspended
	case WalletStatusSuspended:
		return target == WalletStatusNormal
	}

	return false
}

// Wallet holds the authoritative balance state for one owner in one currency.
// Balance is the spendable amount; FrozenBalance is set aside and excluded
// from spending but counted in total holdings.
type Wallet struct {
	ID                 string
	OwnerID            string
	Currency           string
	Balance            decimal.Decimal
	FrozenBalance      decimal.Decimal
	TotalIncome        decimal.Decimal
	TotalExpense       decimal.Decimal
	DailyLimit         decimal.Decimal
	MonthlyLimit       decimal.Decimal
	Status             WalletStatus
	IsActive           bool
	IsVerified         bool
	VerifiedAt         *time.Time
	PaymentSecretHash  string
	PaymentSecretSetAt *time.Time
	LastTransactionAt  *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TotalBalance returns available plus frozen funds.
func (w *Wallet) TotalBalance() decimal.Decimal {
	return w.Balance.Add(w.FrozenBalance)
}

// CanSpend is the single spending gate consulted by withdraw, payment and
// the sender leg of a transfer. Checks run in priority order: status,
// active flag, then funds.
func (w *Wallet) CanSpend(amount decimal.Decimal) error {
	if w.Status == WalletStatusClosed {
		return ErrWalletClosed
	}

	if w.Status != WalletStatusNormal {
		return ErrWalletStatus
	}

	if !w.IsActive {
		return ErrWalletDisabled
	}

	if w.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	return nil
}

// AcceptsCredit reports whether inbound funds (deposits, transfers in,
// refunds) may land on the wallet. Frozen and suspended wallets still take
// credits; only closed wallets refuse everything.
func (w *Wallet) AcceptsCredit() error {
	if w.Status == WalletStatusClosed {
		return ErrWalletClosed
	}
	return nil
}

// ValidateFreeze checks that amount can be moved from available to frozen.
func (w *Wallet) ValidateFreeze(amount decimal.Decimal) error {
	if w.Status == WalletStatusClosed {
		return ErrWalletClosed
	}
	if w.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateUnfreeze checks that amount can be released from frozen funds.
// No implicit clamping: releasing more than is frozen fails.
func (w *Wallet) ValidateUnfreeze(amount decimal.Decimal) error {
	if w.Status == WalletStatusClosed {
		return ErrWalletClosed
	}
	if w.FrozenBalance.LessThan(amount) {
		return ErrInsufficientFrozenBalance
	}
	return nil
}

// ValidateLimits enforces the daily <= monthly limit invariant.
func (w *Wallet) ValidateLimits() error {
	if w.DailyLimit.GreaterThan(w.MonthlyLimit) {
		return ErrLimitOrder
	}
	return nil
}

// HasPaymentSecret reports whether a payment secret has been set.
func (w *Wallet) HasPaymentSecret() bool {
	return w.PaymentSecretHash != ""
}

// Balance bands used by the stats endpoint.
const (
	BalanceBandEmpty  = "empty"
	BalanceBandLow    = "low"
	BalanceBandNormal = "normal"
	BalanceBandHigh   = "high"
)

var (
	lowBalanceThreshold  = decimal.NewFromInt(100)
	highBalanceThreshold = decimal.NewFromInt(1000)
)

// BalanceBand buckets the available balance for reporting.
func (w *Wallet) BalanceBand() string {
	switch {
	case w.Balance.LessThanOrEqual(decimal.Zero):
		return BalanceBandEmpty
	case w.Balance.LessThan(lowBalanceThreshold):
		return BalanceBandLow
	case w.Balance.LessThan(highBalanceThreshold):
		return BalanceBandNormal
	default:
		return BalanceBandHigh
	}
}
