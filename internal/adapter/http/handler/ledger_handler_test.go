package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

func TestLedgerHandler_Analytics(t *testing.T) {
	svc := &stubLedgerService{
		analyticsFn: func(ctx context.Context, accountID string) (*usecase.AccountAnalytics, error) {
			return &usecase.AccountAnalytics{
				Balance:          decimal.NewFromInt(70),
				InflowTotal:      decimal.NewFromInt(100),
				OutflowTotal:     decimal.NewFromInt(30),
				TransactionCount: 2,
				PaymentCount:     1,
			}, nil
		},
	}
	h := NewLedgerHandler(svc)

	rec := httptest.NewRecorder()
	h.Analytics(rec, newRequest(http.MethodGet, "/api/v1/accounts/acc-1/analytics", "", "acc-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, "70", raw["balance"])
	assert.Equal(t, "100", raw["inflowTotal"])
	assert.Equal(t, "30", raw["outflowTotal"])
	assert.EqualValues(t, 2, raw["transactionCount"])
	assert.EqualValues(t, 1, raw["paymentCount"])
}

func TestLedgerHandler_TransactionsPaging(t *testing.T) {
	var gotPage, gotLimit int
	svc := &stubLedgerService{
		listFn: func(ctx context.Context, accountID string, page, limit int) (*usecase.TransactionPage, error) {
			gotPage, gotLimit = page, limit
			return &usecase.TransactionPage{
				Data: []*domain.AccountTransaction{
					{ID: "txn-2", AccountID: accountID, Type: domain.TransactionTypePayment, Amount: decimal.NewFromInt(-30)},
				},
				Pagination: usecase.Pagination{Page: page, Limit: limit, Total: 3, TotalPages: 2},
			}, nil
		},
	}
	h := NewLedgerHandler(svc)

	rec := httptest.NewRecorder()
	h.Transactions(rec, newRequest(http.MethodGet, "/api/v1/accounts/acc-1/transactions?page=2&limit=2", "", "acc-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 2, gotLimit)

	var resp dto.TransactionPageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, dto.PaginationResponse{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, resp.Pagination)
}

func TestLedgerHandler_TransactionsDefaults(t *testing.T) {
	var gotPage, gotLimit int
	svc := &stubLedgerService{
		listFn: func(ctx context.Context, accountID string, page, limit int) (*usecase.TransactionPage, error) {
			gotPage, gotLimit = page, limit
			return nil, domain.ErrAccountNotFound
		},
	}
	h := NewLedgerHandler(svc)

	rec := httptest.NewRecorder()
	h.Transactions(rec, newRequest(http.MethodGet, "/api/v1/accounts/acc-1/transactions?page=abc", "", "acc-1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, domain.DefaultPageSize, gotLimit)
}
