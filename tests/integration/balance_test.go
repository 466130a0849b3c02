package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/tests/testutil"
)

func TestBalanceOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouter(testDB)
	ownerID := testDB.CreateTestOwner(ctx, "bob")

	w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/",
		dto.OpenWalletRequest{OwnerID: ownerID, Currency: "USD"})
	if w.Code != http.StatusOK {
		t.Fatalf("open wallet: got %d: %s", w.Code, w.Body.String())
	}
	walletID := decodeJSON[dto.WalletResponse](t, w).ID

	t.Run("deposit credits the wallet", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/deposit",
			dto.DepositRequest{Amount: decimal.RequireFromString("100.50"), Source: "bank"})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		entry := decodeJSON[dto.EntryResponse](t, w)
		if entry.Kind != "deposit" {
			t.Errorf("expected kind deposit, got %q", entry.Kind)
		}
		if !entry.BalanceAfter.Equal(decimal.RequireFromString("100.50")) {
			t.Errorf("expected balance after 100.50, got %s", entry.BalanceAfter)
		}
	})

	t.Run("withdraw debits the wallet", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/withdraw",
			dto.WithdrawRequest{Amount: decimal.RequireFromString("30.50"), Destination: "bank"})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		entry := decodeJSON[dto.EntryResponse](t, w)
		if !entry.BalanceAfter.Equal(decimal.NewFromInt(70)) {
			t.Errorf("expected balance after 70, got %s", entry.BalanceAfter)
		}
	})

	t.Run("withdraw beyond balance returns 422", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/withdraw",
			dto.WithdrawRequest{Amount: decimal.NewFromInt(1000)})

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status %d, got %d: %s", http.StatusUnprocessableEntity, w.Code, w.Body.String())
		}
	})

	t.Run("zero amount returns 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/deposit",
			dto.DepositRequest{Amount: decimal.Zero})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
		}
	})

	t.Run("payment with fee", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/pay",
			dto.PayRequest{
				Amount:      decimal.NewFromInt(20),
				Fee:         decimal.NewFromInt(1),
				Destination: "merchant-42",
			})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		entry := decodeJSON[dto.EntryResponse](t, w)
		if entry.Kind != "payment" {
			t.Errorf("expected kind payment, got %q", entry.Kind)
		}
		if !entry.BalanceAfter.Equal(decimal.NewFromInt(50)) {
			t.Errorf("expected balance after 50, got %s", entry.BalanceAfter)
		}
		if !entry.Fee.Equal(decimal.NewFromInt(1)) {
			t.Errorf("expected fee 1, got %s", entry.Fee)
		}
	})

	t.Run("freeze and unfreeze funds", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/funds/freeze",
			dto.FreezeFundsRequest{Amount: decimal.NewFromInt(10), Reason: "dispute"})
		if w.Code != http.StatusCreated {
			t.Fatalf("freeze: expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		gw := doJSON(t, router, http.MethodGet, "/api/v1/wallets/"+walletID, nil)
		wallet := decodeJSON[dto.WalletResponse](t, gw)
		if !wallet.FrozenBalance.Equal(decimal.NewFromInt(10)) {
			t.Errorf("expected frozen balance 10, got %s", wallet.FrozenBalance)
		}
		if !wallet.TotalBalance.Equal(decimal.NewFromInt(50)) {
			t.Errorf("expected total balance 50, got %s", wallet.TotalBalance)
		}

		w = doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/funds/unfreeze",
			dto.FreezeFundsRequest{Amount: decimal.NewFromInt(25)})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("over-release: expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
		}

		w = doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/funds/unfreeze",
			dto.FreezeFundsRequest{Amount: decimal.NewFromInt(10)})
		if w.Code != http.StatusCreated {
			t.Fatalf("unfreeze: expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}
	})

	t.Run("daily spent reflects expenses", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/wallets/"+walletID+"/spent/daily", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.SpentResponse](t, w)
		// 30.50 withdrawn plus 20 paid; fees are informational.
		if !resp.Spent.Equal(decimal.RequireFromString("50.50")) {
			t.Errorf("expected spent 50.50, got %s", resp.Spent)
		}
	})

	t.Run("entries listing filters by kind", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/wallets/"+walletID+"/entries?kind=deposit", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.ListEntriesResponse](t, w)
		if resp.Total != 1 {
			t.Errorf("expected 1 deposit entry, got %d", resp.Total)
		}
		for _, e := range resp.Entries {
			if e.Kind != "deposit" {
				t.Errorf("unexpected kind %q in filtered listing", e.Kind)
			}
		}
	})
}
