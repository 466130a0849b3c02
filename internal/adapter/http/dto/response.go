package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID                string              `json:"id"`
	OwnerID           string              `json:"owner_id"`
	Currency          string              `json:"currency"`
	Balance           decimal.Decimal     `json:"balance"`
	FrozenBalance     decimal.Decimal     `json:"frozen_balance"`
	TotalBalance      decimal.Decimal     `json:"total_balance"`
	TotalIncome       decimal.Decimal     `json:"total_income"`
	TotalExpense      decimal.Decimal     `json:"total_expense"`
	DailyLimit        decimal.Decimal     `json:"daily_limit"`
	MonthlyLimit      decimal.Decimal     `json:"monthly_limit"`
	Status            domain.WalletStatus `json:"status"`
	IsActive          bool                `json:"is_active"`
	IsVerified        bool                `json:"is_verified"`
	HasPaymentSecret  bool                `json:"has_payment_secret"`
	LastTransactionAt *time.Time          `json:"last_transaction_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// WalletFromDomain converts domain wallet to response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:                w.ID,
		OwnerID:           w.OwnerID,
		Currency:          w.Currency,
		Balance:           w.Balance,
		FrozenBalance:     w.FrozenBalance,
		TotalBalance:      w.TotalBalance(),
		TotalIncome:       w.TotalIncome,
		TotalExpense:      w.TotalExpense,
		DailyLimit:        w.DailyLimit,
		MonthlyLimit:      w.MonthlyLimit,
		Status:            w.Status,
		IsActive:          w.IsActive,
		IsVerified:        w.IsVerified,
		HasPaymentSecret:  w.HasPaymentSecret(),
		LastTransactionAt: w.LastTransactionAt,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// ListWalletsResponse wraps a wallet listing.
type ListWalletsResponse struct {
	Wallets []*WalletResponse `json:"wallets"`
	Total   int64             `json:"total"`
}

// CurrencyResponse describes one supported currency.
type CurrencyResponse struct {
	Code     string `json:"code"`
	Exponent int32  `json:"exponent"`
}

// ListCurrenciesResponse wraps the supported currency listing.
type ListCurrenciesResponse struct {
	Currencies []CurrencyResponse `json:"currencies"`
	Default    string             `json:"default"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID                string             `json:"id"`
	WalletID          string             `json:"wallet_id"`
	Kind              domain.EntryKind   `json:"kind"`
	Amount            decimal.Decimal    `json:"amount"`
	BalanceAfter      decimal.Decimal    `json:"balance_after"`
	Status            domain.EntryStatus `json:"status"`
	Description       string             `json:"description,omitempty"`
	Source            string             `json:"source,omitempty"`
	Destination       string             `json:"destination,omitempty"`
	ExternalReference string             `json:"external_reference,omitempty"`
	Fee               decimal.Decimal    `json:"fee"`
	Metadata          map[string]any     `json:"metadata,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:                e.ID,
		WalletID:          e.WalletID,
		Kind:              e.Kind,
		Amount:            e.Amount,
		BalanceAfter:      e.BalanceAfter,
		Status:            e.Status,
		Description:       e.Description,
		Source:            e.Source,
		Destination:       e.Destination,
		ExternalReference: e.ExternalReference,
		Fee:               e.Fee,
		Metadata:          e.Metadata,
		CreatedAt:         e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps an entry listing.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// TransferResponse represents both legs of a completed transfer.
type TransferResponse struct {
	Reference string         `json:"reference"`
	OutEntry  *EntryResponse `json:"out_entry"`
	InEntry   *EntryResponse `json:"in_entry"`
}

// TransferFromResult converts a transfer result to response.
func TransferFromResult(res *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		Reference: res.Reference,
		OutEntry:  EntryFromDomain(res.OutEntry),
		InEntry:   EntryFromDomain(res.InEntry),
	}
}

// SpentResponse reports aggregate spend for a period.
type SpentResponse struct {
	WalletID string          `json:"wallet_id"`
	Period   string          `json:"period"`
	Spent    decimal.Decimal `json:"spent"`
}

// CheckSecretResponse reports a payment secret check.
type CheckSecretResponse struct {
	Valid bool `json:"valid"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
