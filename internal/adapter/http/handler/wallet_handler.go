package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/domain"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	GetOrCreateWallet(ctx context.Context, ownerID, currency string) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, ownerID string) ([]*domain.Wallet, error)
	SetPaymentSecret(ctx context.Context, walletID, secret string) error
	CheckPaymentSecret(ctx context.Context, walletID, secret string) (bool, error)
	VerifyWallet(ctx context.Context, walletID string) error
	FreezeWallet(ctx context.Context, walletID, reason string) (*domain.Entry, error)
	UnfreezeWallet(ctx context.Context, walletID, reason string) (*domain.Entry, error)
	SuspendWallet(ctx context.Context, walletID, reason string) error
	CloseWallet(ctx context.Context, walletID, reason string) error
}

// WalletHandler handles wallet lifecycle HTTP requests.
type WalletHandler struct {
	walletUC WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Open returns the owner's wallet for a currency, creating it on first
// access.
func (h *WalletHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.walletUC.GetOrCreateWallet(r.Context(), req.OwnerID, req.Currency)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// Mine returns the authenticated owner's wallet for a currency, creating it
// on first access. The currency comes from ?currency= and defaults to the
// service default.
func (h *WalletHandler) Mine(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	wallet, err := h.walletUC.GetOrCreateWallet(r.Context(), owner.ID, currency)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// Currencies lists the supported currencies with their decimal places.
func (h *WalletHandler) Currencies(w http.ResponseWriter, r *http.Request) {
	codes := domain.Currencies()
	currencies := make([]dto.CurrencyResponse, len(codes))
	for i, code := range codes {
		currencies[i] = dto.CurrencyResponse{
			Code:     code,
			Exponent: domain.CurrencyExponent(code),
		}
	}

	writeJSON(w, http.StatusOK, dto.ListCurrenciesResponse{
		Currencies: currencies,
		Default:    domain.DefaultCurrency,
	})
}

// Get retrieves a wallet by ID.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	wallet, err := h.walletUC.GetWallet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// ListByOwner lists all wallets of an owner.
func (h *WalletHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "missing owner ID", "")
		return
	}

	wallets, err := h.walletUC.ListWallets(r.Context(), ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list wallets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListWalletsResponse{
		Wallets: dto.WalletsFromDomain(wallets),
		Total:   int64(len(wallets)),
	})
}

// SetSecret sets or replaces the wallet's payment secret.
func (h *WalletHandler) SetSecret(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.SetSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.walletUC.SetPaymentSecret(r.Context(), id, req.Secret); err != nil {
		writeError(w, mapDomainError(err), "failed to set payment secret", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckSecret verifies the supplied payment secret.
func (h *WalletHandler) CheckSecret(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.CheckSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	valid, err := h.walletUC.CheckPaymentSecret(r.Context(), id, req.Secret)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check payment secret", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CheckSecretResponse{Valid: valid})
}

// Verify marks the wallet as identity-verified.
func (h *WalletHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.walletUC.VerifyWallet(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to verify wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// Freeze freezes the whole wallet.
func (h *WalletHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, func(ctx context.Context, id, reason string) error {
		_, err := h.walletUC.FreezeWallet(ctx, id, reason)
		return err
	}, "failed to freeze wallet")
}

// Unfreeze returns a frozen wallet to normal.
func (h *WalletHandler) Unfreeze(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, func(ctx context.Context, id, reason string) error {
		_, err := h.walletUC.UnfreezeWallet(ctx, id, reason)
		return err
	}, "failed to unfreeze wallet")
}

// Suspend suspends the wallet.
func (h *WalletHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.walletUC.SuspendWallet, "failed to suspend wallet")
}

// Close permanently closes the wallet.
func (h *WalletHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.walletUC.CloseWallet, "failed to close wallet")
}

func (h *WalletHandler) changeStatus(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, id, reason string) error,
	failMsg string,
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	var req dto.StatusChangeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	if err := change(r.Context(), id, req.Reason); err != nil {
		writeError(w, mapDomainError(err), failMsg, err.Error())
		return
	}

	wallet, err := h.walletUC.GetWallet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}
