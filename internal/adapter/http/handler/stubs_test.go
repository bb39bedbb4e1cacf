package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

type stubAccountService struct {
	createFn     func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn        func(ctx context.Context, id string) (*domain.Account, error)
	listFn       func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	deactivateFn func(ctx context.Context, id string) (*domain.Account, error)
}

func (s *stubAccountService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *stubAccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *stubAccountService) DeactivateAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.deactivateFn(ctx, id)
}

type stubSettlementService struct {
	addFundsFn func(ctx context.Context, input usecase.AddFundsInput) (*usecase.AddFundsResult, error)
	processFn  func(ctx context.Context, paymentID string) (*domain.Payment, error)
}

func (s *stubSettlementService) AddFunds(ctx context.Context, input usecase.AddFundsInput) (*usecase.AddFundsResult, error) {
	return s.addFundsFn(ctx, input)
}

func (s *stubSettlementService) ProcessPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.processFn(ctx, paymentID)
}

type stubPaymentService struct {
	createFn func(ctx context.Context, input usecase.CreatePaymentInput) (*domain.Payment, error)
	getFn    func(ctx context.Context, id string) (*domain.Payment, error)
}

func (s *stubPaymentService) CreatePayment(ctx context.Context, input usecase.CreatePaymentInput) (*domain.Payment, error) {
	return s.createFn(ctx, input)
}

func (s *stubPaymentService) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return s.getFn(ctx, id)
}

type stubLedgerService struct {
	analyticsFn func(ctx context.Context, accountID string) (*usecase.AccountAnalytics, error)
	listFn      func(ctx context.Context, accountID string, page, limit int) (*usecase.TransactionPage, error)
}

func (s *stubLedgerService) GetAccountAnalytics(ctx context.Context, accountID string) (*usecase.AccountAnalytics, error) {
	return s.analyticsFn(ctx, accountID)
}

func (s *stubLedgerService) ListAccountTransactions(ctx context.Context, accountID string, page, limit int) (*usecase.TransactionPage, error) {
	return s.listFn(ctx, accountID, page, limit)
}

type stubReconciliationService struct {
	accountFn func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	reportFn  func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *stubReconciliationService) ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	return s.accountFn(ctx, accountID)
}

func (s *stubReconciliationService) GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.reportFn(ctx)
}

type stubAuditService struct {
	listFn func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func (s *stubAuditService) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	return s.listFn(ctx, filter)
}

// newRequest builds a request with the {id} route parameter set.
func newRequest(method, target, body, id string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}
