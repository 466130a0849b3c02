package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// StatementService defines the read-side behavior needed by EntryHandler.
type StatementService interface {
	ListEntries(ctx context.Context, walletID string, filter usecase.EntryFilter) ([]*domain.Entry, error)
	GetEntry(ctx context.Context, entryID string) (*domain.Entry, error)
	EntriesByReference(ctx context.Context, reference string) ([]*domain.Entry, error)
	DailySpent(ctx context.Context, walletID string, ts time.Time) (decimal.Decimal, error)
	MonthlySpent(ctx context.Context, walletID string, year int, month time.Month) (decimal.Decimal, error)
	Stats(ctx context.Context, walletID string) (*usecase.WalletStats, error)
}

// RefundService defines the refund behavior needed by EntryHandler.
type RefundService interface {
	Refund(ctx context.Context, entryID, reason string) (*domain.Entry, error)
}

// EntryHandler handles ledger entry HTTP requests.
type EntryHandler struct {
	statementUC StatementService
	refundUC    RefundService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(statementUC StatementService, refundUC RefundService) *EntryHandler {
	return &EntryHandler{statementUC: statementUC, refundUC: refundUC}
}

// ListByWallet lists ledger entries for a wallet, newest first.
func (h *EntryHandler) ListByWallet(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	filter := usecase.EntryFilter{
		Kind:   domain.EntryKind(r.URL.Query().Get("kind")),
		Status: domain.EntryStatus(r.URL.Query().Get("status")),
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}

	entries, err := h.statementUC.ListEntries(r.Context(), walletID, filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// ListByReference returns all entries sharing an external reference, such as
// the two legs of a transfer. The reference comes from ?reference=.
func (h *EntryHandler) ListByReference(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		writeError(w, http.StatusBadRequest, "missing reference", "")
		return
	}

	entries, err := h.statementUC.EntriesByReference(r.Context(), reference)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// Get retrieves a ledger entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.statementUC.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Refund refunds a completed payment entry.
func (h *EntryHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.RefundRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	entry, err := h.refundUC.Refund(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to refund", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// DailySpent reports the wallet's spend for one day. The day defaults to
// today and can be overridden with ?date=YYYY-MM-DD.
func (h *EntryHandler) DailySpent(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	ts := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
		ts = parsed
	}

	spent, err := h.statementUC.DailySpent(r.Context(), walletID, ts)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get daily spend", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SpentResponse{
		WalletID: walletID,
		Period:   ts.Format("2006-01-02"),
		Spent:    spent,
	})
}

// MonthlySpent reports the wallet's spend for one calendar month. Defaults
// to the current month; override with ?year= and ?month=.
func (h *EntryHandler) MonthlySpent(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	now := time.Now().UTC()
	year := parseIntQuery(r, "year", now.Year())
	month := parseIntQuery(r, "month", int(now.Month()))
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month", "month must be between 1 and 12")
		return
	}

	spent, err := h.statementUC.MonthlySpent(r.Context(), walletID, year, time.Month(month))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get monthly spend", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SpentResponse{
		WalletID: walletID,
		Period:   time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		Spent:    spent,
	})
}

// Stats returns the wallet's aggregate statistics.
func (h *EntryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	stats, err := h.statementUC.Stats(r.Context(), walletID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get stats", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
