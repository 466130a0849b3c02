package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/tests/testutil"
)

func TestConcurrentDeposits(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouterNoOutbox(testDB)
	ownerID := testDB.CreateTestOwner(ctx, "dave")

	w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/",
		dto.OpenWalletRequest{OwnerID: ownerID, Currency: "USD"})
	walletID := decodeJSON[dto.WalletResponse](t, w).ID

	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/deposit",
				dto.DepositRequest{Amount: decimal.NewFromInt(1)})
			if w.Code != http.StatusCreated {
				t.Errorf("deposit: got %d: %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	w = doJSON(t, router, http.MethodGet, "/api/v1/wallets/"+walletID, nil)
	wallet := decodeJSON[dto.WalletResponse](t, w)
	if !wallet.Balance.Equal(decimal.NewFromInt(workers)) {
		t.Errorf("expected balance %d, got %s", workers, wallet.Balance)
	}
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouterNoOutbox(testDB)
	ownerID := testDB.CreateTestOwner(ctx, "erin")

	w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/",
		dto.OpenWalletRequest{OwnerID: ownerID, Currency: "USD"})
	walletID := decodeJSON[dto.WalletResponse](t, w).ID

	doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/deposit",
		dto.DepositRequest{Amount: decimal.NewFromInt(10)})

	// 20 workers race to withdraw 1 each from a balance of 10.
	const workers = 20

	var wg sync.WaitGroup
	succeeded := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/withdraw",
				dto.WithdrawRequest{Amount: decimal.NewFromInt(1)})
			switch w.Code {
			case http.StatusCreated:
				succeeded <- struct{}{}
			case http.StatusUnprocessableEntity:
			default:
				t.Errorf("withdraw: unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()
	close(succeeded)

	if got := len(succeeded); got != 10 {
		t.Errorf("expected 10 successful withdrawals, got %d", got)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/wallets/"+walletID, nil)
	wallet := decodeJSON[dto.WalletResponse](t, w)
	if !wallet.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", wallet.Balance)
	}
}
