package handler

import (
	"context"
	"net/http"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// LedgerService defines the read side of an account's ledger.
type LedgerService interface {
	GetAccountAnalytics(ctx context.Context, accountID string) (*usecase.AccountAnalytics, error)
	ListAccountTransactions(ctx context.Context, accountID string, page, limit int) (*usecase.TransactionPage, error)
}

// LedgerHandler serves analytics and transaction history.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Analytics returns balance, inflow, outflow and counts for an account.
func (h *LedgerHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "accountId")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	analytics, err := h.ledgerUC.GetAccountAnalytics(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AnalyticsFromResult(analytics))
}

// Transactions returns a page of the account's transactions, newest first.
func (h *LedgerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "accountId")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	page := parseIntQuery(r, "page", 1)
	limit := parseIntQuery(r, "limit", domain.DefaultPageSize)

	result, err := h.ledgerUC.ListAccountTransactions(r.Context(), id, page, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionPageFromResult(result))
}
