package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/auth"
)

type recordedRequest struct {
	Method  string
	Path    string
	Query   string
	Body    map[string]any
	Headers http.Header
}

func newTestAPI(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Headers: r.Header.Clone()}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.Body))
		}
		requests = append(requests, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("longerstring", 6))
	assert.Equal(t, "lo", truncate("longerstring", 2))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestAccountsCreate(t *testing.T) {
	srv, reqs := newTestAPI(t, http.StatusCreated, `{"id":"acc-1","code":"OPS"}`)

	out, err := execute(t, "--url", srv.URL, "--user-id", "u-1", "--user-role", "admin",
		"accounts", "create", "--name", "Operating", "--code", "OPS", "--currency", "EUR")
	require.NoError(t, err)

	require.Len(t, *reqs, 1)
	req := (*reqs)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/accounts", req.Path)
	assert.Equal(t, "Operating", req.Body["name"])
	assert.Equal(t, "EUR", req.Body["currency"])
	assert.Equal(t, "u-1", req.Headers.Get("X-User-Id"))
	assert.Equal(t, "admin", req.Headers.Get("X-User-Role"))
	assert.Contains(t, out, `"id": "acc-1"`)
}

func TestAccountsAddFunds(t *testing.T) {
	srv, reqs := newTestAPI(t, http.StatusOK,
		`{"transaction":{"id":"txn-1"},"account":{"id":"acc-1","balance":"150","currency":"USD"}}`)

	out, err := execute(t, "--url", srv.URL, "accounts", "add-funds", "acc-1",
		"--amount", "50.00", "--reference", "wire-9", "--idempotency-key", "dep-1")
	require.NoError(t, err)

	req := (*reqs)[0]
	assert.Equal(t, "/api/v1/accounts/acc-1/add-funds", req.Path)
	assert.Equal(t, "50.00", req.Body["amount"])
	assert.Equal(t, "wire-9", req.Body["reference"])
	assert.Equal(t, "dep-1", req.Headers.Get("Idempotency-Key"))
	assert.Equal(t, "Deposited 50.00, new balance 150 USD\n", out)
}

func TestAccountsTransactions(t *testing.T) {
	srv, reqs := newTestAPI(t, http.StatusOK, `{
		"data":[{"id":"txn-2","type":"payment","amount":"-30","balanceAfter":"70","description":"Invoice 7","createdAt":"2024-01-02T00:00:00Z"}],
		"pagination":{"page":2,"limit":1,"total":2,"totalPages":2}
	}`)

	out, err := execute(t, "--url", srv.URL, "accounts", "transactions", "acc-1", "--page", "2", "--limit", "1")
	require.NoError(t, err)

	req := (*reqs)[0]
	assert.Equal(t, "/api/v1/accounts/acc-1/transactions", req.Path)
	assert.Equal(t, "limit=1&page=2", req.Query)
	assert.Contains(t, out, "txn-2")
	assert.Contains(t, out, "Invoice 7")
	assert.Contains(t, out, "page 2/2 (2 total)")
}

func TestPaymentsProcessError(t *testing.T) {
	srv, _ := newTestAPI(t, http.StatusBadRequest, `{"error":"insufficient funds","status":400,"code":"INSUFFICIENT_FUNDS"}`)

	_, err := execute(t, "--url", srv.URL, "payments", "process", "pay-1")
	require.Error(t, err)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "INSUFFICIENT_FUNDS", apiErr.Code)
	assert.Equal(t, "insufficient funds", apiErr.Message)
}

func TestPaymentsProcess(t *testing.T) {
	srv, reqs := newTestAPI(t, http.StatusOK, `{"id":"pay-1","status":"paid","totalAmount":"30","currency":"USD"}`)

	out, err := execute(t, "--url", srv.URL, "--token", "abc", "payments", "process", "pay-1")
	require.NoError(t, err)

	req := (*reqs)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/payments/pay-1/process", req.Path)
	assert.Equal(t, "Bearer abc", req.Headers.Get("Authorization"))
	assert.Equal(t, "Payment pay-1 paid (30 USD)\n", out)
}

func TestReconcileReport(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		srv, reqs := newTestAPI(t, http.StatusOK, `{"totalAccounts":3,"reconciledAccounts":3,"discrepancies":[]}`)

		out, err := execute(t, "--url", srv.URL, "reconcile")
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/reconciliation", (*reqs)[0].Path)
		assert.Contains(t, out, "Reconciled 3/3 accounts")
	})

	t.Run("discrepancy", func(t *testing.T) {
		srv, _ := newTestAPI(t, http.StatusOK, `{"totalAccounts":2,"reconciledAccounts":1,
			"discrepancies":[{"accountId":"acc-2","recordedBalance":"10","calculatedBalance":"8","difference":"2"}]}`)

		out, err := execute(t, "--url", srv.URL, "reconcile")
		require.Error(t, err)
		assert.Contains(t, out, "acc-2: recorded 10, ledger 8, difference 2")
	})

	t.Run("single account", func(t *testing.T) {
		srv, reqs := newTestAPI(t, http.StatusOK, `{"accountId":"acc-1","currency":"USD","recordedBalance":"5","isReconciled":true}`)

		out, err := execute(t, "--url", srv.URL, "reconcile", "acc-1")
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/accounts/acc-1/reconciliation", (*reqs)[0].Path)
		assert.Contains(t, out, "Account acc-1 reconciled: 5 USD")
	})

	t.Run("single account running balance break", func(t *testing.T) {
		srv, _ := newTestAPI(t, http.StatusOK, `{"accountId":"acc-1","recordedBalance":"65","calculatedBalance":"65",
			"difference":"0","runningBalanceBreaks":2,"firstBreakTransactionId":"t2","isReconciled":false}`)

		out, err := execute(t, "--url", srv.URL, "reconcile", "acc-1")
		require.Error(t, err)
		assert.Contains(t, out, "Account acc-1 MISMATCH: recorded 65, ledger 65, difference 0, 2 running balance break(s) from t2")
	})
}

func TestMigrateUsesFlags(t *testing.T) {
	var gotURL, gotPath string
	orig := runMigrationsUp
	runMigrationsUp = func(_ zerolog.Logger, databaseURL, migrationsPath string) error {
		gotURL, gotPath = databaseURL, migrationsPath
		return nil
	}
	defer func() { runMigrationsUp = orig }()

	_, err := execute(t, "migrate", "up", "--database-url", "postgres://x@db/settle", "--path", "/srv/migrations")
	require.NoError(t, err)

	assert.Equal(t, "postgres://x@db/settle", gotURL)
	assert.Equal(t, "/srv/migrations", gotPath)
}

func TestTokenCmd(t *testing.T) {
	out, err := execute(t, "token", "--secret", "cli-secret", "--ttl", "1h", "--id", "u-5", "--role", "finance")
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("cli-secret", time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u-5", claims.UserID)
	assert.Equal(t, domain.RoleFinance, claims.Role)
}

func TestTokenCmdRejectsUnknownRole(t *testing.T) {
	_, err := execute(t, "token", "--secret", "cli-secret", "--ttl", "1h", "--id", "u-5", "--role", "owner")
	assert.Error(t, err)
}
