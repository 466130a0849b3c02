package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	adapterhttp "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/tests/testutil"
)

// newTestRouter wires the full stack against the test database. Metrics and
// cache are left out so repeated test runs do not fight over the Prometheus
// default registry.
func newTestRouter(testDB *testutil.TestDB) http.Handler {
	return newRouterWithOutbox(testDB, postgres.NewOutboxRepository(testDB.Pool))
}

// newTestRouterNoOutbox skips event recording for tests that hammer the
// mutation paths and do not inspect events.
func newTestRouterNoOutbox(testDB *testutil.TestDB) http.Handler {
	return newRouterWithOutbox(testDB, postgres.NewNullOutboxRepository())
}

func newRouterWithOutbox(testDB *testutil.TestDB, outboxRepo usecase.OutboxRepository) http.Handler {
	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	walletRepo := postgres.NewWalletRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	owners := postgres.NewOwnerDirectory(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, entryRepo, outboxRepo, owners, idGen, nil)
	balanceUC := usecase.NewBalanceUseCase(txManager, walletRepo, entryRepo, outboxRepo, idGen, nil).WithRetrier(retrier)
	transferUC := usecase.NewTransferUseCase(txManager, walletRepo, entryRepo, outboxRepo, idGen, nil).WithRetrier(retrier)
	refundUC := usecase.NewRefundUseCase(txManager, walletRepo, entryRepo, outboxRepo, idGen, nil)
	statementUC := usecase.NewStatementUseCase(walletRepo, entryRepo, nil, nil)

	return adapterhttp.NewRouter(adapterhttp.RouterConfig{
		WalletHandler:   handler.NewWalletHandler(walletUC),
		BalanceHandler:  handler.NewBalanceHandler(balanceUC),
		TransferHandler: handler.NewTransferHandler(transferUC),
		EntryHandler:    handler.NewEntryHandler(statementUC, refundUC),
		HealthHandler:   handler.NewHealthHandler(pool, nil),
	})
}

// doJSON issues a JSON request against the router and returns the recorder.
func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return out
}
