package usecase

import (
	"errors"

	"github.com/iho/gowallet/internal/domain"
)

// errorType buckets an operation failure for the error counter label.
func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrWalletNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrInsufficientFrozenBalance):
		return "insufficient_frozen"
	case errors.Is(err, domain.ErrWalletClosed),
		errors.Is(err, domain.ErrWalletStatus),
		errors.Is(err, domain.ErrWalletDisabled):
		return "wallet_state"
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountPrecision):
		return "invalid_amount"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, domain.ErrSameWallet):
		return "same_wallet"
	case errors.Is(err, domain.ErrRefundIneligible):
		return "refund_ineligible"
	default:
		return "internal"
	}
}
