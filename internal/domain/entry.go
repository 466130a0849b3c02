package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger entry. Amounts are always non-negative;
// direction is implied by the kind, not the sign.
type EntryKind string

const (
	EntryKindDeposit        EntryKind = "deposit"
	EntryKindWithdraw       EntryKind = "withdraw"
	EntryKindTransferIn     EntryKind = "transfer_in"
	EntryKindTransferOut    EntryKind = "transfer_out"
	EntryKindPayment        EntryKind = "payment"
	EntryKindRefund         EntryKind = "refund"
	EntryKindFreeze         EntryKind = "freeze"
	EntryKindUnfreeze       EntryKind = "unfreeze"
	EntryKindFreezeWallet   EntryKind = "freeze_account"
	EntryKindUnfreezeWallet EntryKind = "unfreeze_account"
	EntryKindAdjustment     EntryKind = "adjustment"
	EntryKindReward         EntryKind = "reward"
	EntryKindPenalty        EntryKind = "penalty"
)

// ExpenseKinds are the kinds counted against daily/monthly spend.
var ExpenseKinds = []EntryKind{EntryKindWithdraw, EntryKindTransferOut, EntryKindPayment, EntryKindPenalty}

// IncomeKinds are the kinds counted as income.
var IncomeKinds = []EntryKind{EntryKindDeposit, EntryKindTransferIn, EntryKindRefund, EntryKindReward}

// SpendKinds are the expense kinds that consume the per-period limits.
// Penalties are imposed, not spent, so they are excluded.
var SpendKinds = []EntryKind{EntryKindWithdraw, EntryKindTransferOut, EntryKindPayment}

// IsValid reports whether the kind is one of the known kinds.
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindDeposit, EntryKindWithdraw, EntryKindTransferIn, EntryKindTransferOut,
		EntryKindPayment, EntryKindRefund, EntryKindFreeze, EntryKindUnfreeze,
		EntryKindFreezeWallet, EntryKindUnfreezeWallet, EntryKindAdjustment,
		EntryKindReward, EntryKindPenalty:
		return true
	}
	return false
}

// IsIncome reports whether the kind increases available balance.
func (k EntryKind) IsIncome() bool {
	switch k {
	case EntryKindDeposit, EntryKindTransferIn, EntryKindRefund, EntryKindReward:
		return true
	}
	return false
}

// IsExpense reports whether the kind decreases available balance.
func (k EntryKind) IsExpense() bool {
	switch k {
	case EntryKindWithdraw, EntryKindTransferOut, EntryKindPayment, EntryKindPenalty:
		return true
	}
	return false
}

// IsNeutral reports whether the kind leaves total holdings unchanged
// (freezes, status audit markers, adjustments).
func (k EntryKind) IsNeutral() bool {
	return !k.IsIncome() && !k.IsExpense()
}

// EntryStatus is the processing state of a ledger entry.
type EntryStatus string

const (
	EntryStatusPending    EntryStatus = "pending"
	EntryStatusProcessing EntryStatus = "processing"
	EntryStatusCompleted  EntryStatus = "completed"
	EntryStatusFailed     EntryStatus = "failed"
	EntryStatusCancelled  EntryStatus = "cancelled"
	EntryStatusRefunded   EntryStatus = "refunded"
)

// IsValid reports whether the status is one of the known statuses.
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusPending, EntryStatusProcessing, EntryStatusCompleted,
		EntryStatusFailed, EntryStatusCancelled, EntryStatusRefunded:
		return true
	}
	return false
}

// RefundWindow is how long after creation a completed payment stays
// refundable.
const RefundWindow = 30 * 24 * time.Hour

// Entry is one immutable record of an economic event against a wallet.
// Entries are append-only; the only mutation ever applied is the status
// transition completed -> refunded when a refund is processed.
type Entry struct {
	ID                string
	WalletID          string
	Kind              EntryKind
	Amount            decimal.Decimal
	BalanceAfter      decimal.Decimal
	Status            EntryStatus
	Description       string
	Source            string
	Destination       string
	ExternalReference string
	Fee               decimal.Decimal
	Metadata          map[string]any
	CreatedAt         time.Time
}

// CanRefund reports whether the entry is eligible for a refund at the given
// moment: a completed payment no older than the refund window.
func (e *Entry) CanRefund(now time.Time) bool {
	return e.Kind == EntryKindPayment &&
		e.Status == EntryStatusCompleted &&
		now.Sub(e.CreatedAt) <= RefundWindow
}
