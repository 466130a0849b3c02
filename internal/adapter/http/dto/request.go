package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/usecase"
)

// OpenWalletRequest represents a request to open (or fetch) a wallet.
type OpenWalletRequest struct {
	OwnerID  string `json:"owner_id"`
	Currency string `json:"currency"`
}

// DepositRequest represents a request to credit a wallet.
type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source,omitempty"`
	Description string          `json:"description,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(walletID string) usecase.DepositInput {
	return usecase.DepositInput{
		WalletID:    walletID,
		Amount:      r.Amount,
		Source:      r.Source,
		Description: r.Description,
		Reference:   r.Reference,
		Metadata:    r.Metadata,
	}
}

// WithdrawRequest represents a request to debit a wallet.
type WithdrawRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Destination string          `json:"destination,omitempty"`
	Description string          `json:"description,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawRequest) ToUseCaseInput(walletID string) usecase.WithdrawInput {
	return usecase.WithdrawInput{
		WalletID:    walletID,
		Amount:      r.Amount,
		Destination: r.Destination,
		Description: r.Description,
		Reference:   r.Reference,
		Metadata:    r.Metadata,
	}
}

// PayRequest represents a request to pay from a wallet.
type PayRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Destination string          `json:"destination,omitempty"`
	Description string          `json:"description,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Fee         decimal.Decimal `json:"fee,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PayRequest) ToUseCaseInput(walletID string) usecase.PayInput {
	return usecase.PayInput{
		WalletID:    walletID,
		Amount:      r.Amount,
		Destination: r.Destination,
		Description: r.Description,
		Reference:   r.Reference,
		Fee:         r.Fee,
		Metadata:    r.Metadata,
	}
}

// TransferRequest represents a request to move funds between wallets.
type TransferRequest struct {
	FromWalletID string          `json:"from_wallet_id"`
	ToWalletID   string          `json:"to_wallet_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromWalletID: r.FromWalletID,
		ToWalletID:   r.ToWalletID,
		Amount:       r.Amount,
		Description:  r.Description,
		Metadata:     r.Metadata,
	}
}

// FreezeFundsRequest represents a request to freeze or release funds.
type FreezeFundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason,omitempty"`
}

// RefundRequest represents a request to refund a payment entry.
type RefundRequest struct {
	Reason string `json:"reason,omitempty"`
}

// StatusChangeRequest represents a wallet status change.
type StatusChangeRequest struct {
	Reason string `json:"reason,omitempty"`
}

// SetSecretRequest represents a request to set the payment secret.
type SetSecretRequest struct {
	Secret string `json:"secret"`
}

// CheckSecretRequest represents a request to check the payment secret.
type CheckSecretRequest struct {
	Secret string `json:"secret"`
}
