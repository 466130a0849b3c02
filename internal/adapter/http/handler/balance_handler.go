package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Entry, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Entry, error)
	Pay(ctx context.Context, input usecase.PayInput) (*domain.Entry, error)
	FreezeFunds(ctx context.Context, walletID string, amount decimal.Decimal, reason string) (*domain.Entry, error)
	UnfreezeFunds(ctx context.Context, walletID string, amount decimal.Decimal, reason string) (*domain.Entry, error)
}

// BalanceHandler handles balance mutation HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Deposit credits the wallet.
func (h *BalanceHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.balanceUC.Deposit(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Withdraw debits the wallet.
func (h *BalanceHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.balanceUC.Withdraw(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Pay debits the wallet for a purchase.
func (h *BalanceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.balanceUC.Pay(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to pay", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// FreezeFunds moves available funds into the frozen bucket.
func (h *BalanceHandler) FreezeFunds(w http.ResponseWriter, r *http.Request) {
	h.moveFrozen(w, r, h.balanceUC.FreezeFunds, "failed to freeze funds")
}

// UnfreezeFunds releases frozen funds back to available.
func (h *BalanceHandler) UnfreezeFunds(w http.ResponseWriter, r *http.Request) {
	h.moveFrozen(w, r, h.balanceUC.UnfreezeFunds, "failed to unfreeze funds")
}

func (h *BalanceHandler) moveFrozen(
	w http.ResponseWriter,
	r *http.Request,
	move func(ctx context.Context, walletID string, amount decimal.Decimal, reason string) (*domain.Entry, error),
	failMsg string,
) {
	id := chi.URLParam(r, "id")

	var req dto.FreezeFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := move(r.Context(), id, req.Amount, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), failMsg, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
