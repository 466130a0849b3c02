package domain

import "time"

// Event types
const (
	EventTypeWalletCreated  = "wallet.created"
	EventTypeWalletDeposit  = "wallet.deposited"
	EventTypeWalletWithdraw = "wallet.withdrawn"
	EventTypeWalletPayment  = "wallet.paid"
	EventTypeWalletTransfer = "wallet.transferred"
	EventTypeWalletRefund   = "wallet.refunded"
	EventTypeFundsFrozen    = "wallet.funds_frozen"
	EventTypeFundsUnfrozen  = "wallet.funds_unfrozen"
	EventTypeStatusChanged  = "wallet.status_changed"
)

// Aggregate types
const (
	AggregateTypeWallet = "wallet"
	AggregateTypeEntry  = "entry"
)

// OutboxEvent represents an event to be published after commit.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
