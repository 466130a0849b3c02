package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/tests/testutil"
)

func TestOutboxEventsRecorded(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouter(testDB)
	outboxRepo := postgres.NewOutboxRepository(testDB.Pool)
	ownerID := testDB.CreateTestOwner(ctx, "frank")

	w := doJSON(t, router, http.MethodPost, "/api/v1/wallets/",
		dto.OpenWalletRequest{OwnerID: ownerID, Currency: "USD"})
	walletID := decodeJSON[dto.WalletResponse](t, w).ID

	w = doJSON(t, router, http.MethodPost, "/api/v1/wallets/"+walletID+"/deposit",
		dto.DepositRequest{Amount: decimal.NewFromInt(50)})
	if w.Code != http.StatusCreated {
		t.Fatalf("deposit: got %d: %s", w.Code, w.Body.String())
	}

	events, err := outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to load unpublished events: %v", err)
	}

	var depositEvent *domain.OutboxEvent
	for _, e := range events {
		if e.EventType == domain.EventTypeWalletDeposit && e.AggregateID == walletID {
			depositEvent = e
		}
	}
	if depositEvent == nil {
		t.Fatal("expected an unpublished deposit event")
	}
	if depositEvent.AggregateType != domain.AggregateTypeWallet {
		t.Errorf("expected aggregate type %q, got %q", domain.AggregateTypeWallet, depositEvent.AggregateType)
	}

	if err := outboxRepo.MarkPublished(ctx, depositEvent.ID, time.Now().UTC()); err != nil {
		t.Fatalf("failed to mark event published: %v", err)
	}

	events, err = outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to reload unpublished events: %v", err)
	}
	for _, e := range events {
		if e.ID == depositEvent.ID {
			t.Error("expected published event to drop out of the unpublished set")
		}
	}

	if err := outboxRepo.DeletePublished(ctx, time.Now().UTC().Add(time.Second)); err != nil {
		t.Fatalf("failed to sweep published events: %v", err)
	}
}
