package domain

import "errors"

var (
	// Wallet errors
	ErrWalletNotFound            = errors.New("wallet not found")
	ErrWalletExists              = errors.New("wallet already exists for owner and currency")
	ErrWalletClosed              = errors.New("wallet is closed")
	ErrWalletStatus              = errors.New("wallet status does not permit this operation")
	ErrWalletDisabled            = errors.New("wallet has been deactivated")
	ErrInsufficientFunds         = errors.New("insufficient available balance")
	ErrInsufficientFrozenBalance = errors.New("insufficient frozen balance")
	ErrInvalidStatusTransition   = errors.New("invalid wallet status transition")
	ErrLimitOrder                = errors.New("daily limit cannot exceed monthly limit")
	ErrOwnerNotFound             = errors.New("owner not found")

	// Entry errors
	ErrEntryNotFound      = errors.New("ledger entry not found")
	ErrRefundIneligible   = errors.New("entry is not eligible for refund")
	ErrInvalidEntryKind   = errors.New("invalid entry kind")
	ErrInvalidEntryStatus = errors.New("invalid entry status")

	// Shared validation errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrSameWallet       = errors.New("cannot transfer to same wallet")
	ErrCurrencyMismatch = errors.New("cannot transfer between different currencies")

	// Payment secret errors
	ErrSecretNotSet = errors.New("payment secret has not been set")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
