package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Code                 string          `json:"code"`
	Currency             string          `json:"currency"`
	Balance              decimal.Decimal `json:"balance"`
	Version              int64           `json:"version"`
	AllowNegativeBalance bool            `json:"allowNegativeBalance"`
	IsActive             bool            `json:"isActive"`
	Description          string          `json:"description,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                   a.ID,
		Name:                 a.Name,
		Code:                 a.Code,
		Currency:             a.Currency,
		Balance:              a.Balance,
		Version:              a.Version,
		AllowNegativeBalance: a.AllowNegativeBalance,
		IsActive:             a.IsActive,
		Description:          a.Description,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// ListAccountsResponse is a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Count    int                `json:"count"`
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a ledger transaction.
type TransactionResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"accountId"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Currency     string          `json:"currency"`
	Description  *string         `json:"description"`
	Reference    *string         `json:"reference"`
	PaymentID    *string         `json:"paymentId"`
	CreatedBy    *string         `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.AccountTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Type:         string(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Currency:     t.Currency,
		Description:  t.Description,
		Reference:    t.Reference,
		PaymentID:    t.PaymentID,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}

// AddFundsResponse is the committed deposit and the refreshed account.
type AddFundsResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Account     *AccountResponse     `json:"account"`
}

// AddFundsFromResult converts the use case result.
func AddFundsFromResult(r *usecase.AddFundsResult) *AddFundsResponse {
	return &AddFundsResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		Account:     AccountFromDomain(r.Account),
	}
}

// PaginationResponse describes one page of a listing.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// TransactionPageResponse is a page of transactions.
type TransactionPageResponse struct {
	Data       []*TransactionResponse `json:"data"`
	Pagination PaginationResponse     `json:"pagination"`
}

// TransactionPageFromResult converts the use case page.
func TransactionPageFromResult(p *usecase.TransactionPage) *TransactionPageResponse {
	data := make([]*TransactionResponse, len(p.Data))
	for i, t := range p.Data {
		data[i] = TransactionFromDomain(t)
	}

	return &TransactionPageResponse{
		Data: data,
		Pagination: PaginationResponse{
			Page:       p.Pagination.Page,
			Limit:      p.Pagination.Limit,
			Total:      p.Pagination.Total,
			TotalPages: p.Pagination.TotalPages,
		},
	}
}

// AnalyticsResponse summarizes an account's ledger.
type AnalyticsResponse struct {
	Balance          decimal.Decimal `json:"balance"`
	InflowTotal      decimal.Decimal `json:"inflowTotal"`
	OutflowTotal     decimal.Decimal `json:"outflowTotal"`
	TransactionCount int64           `json:"transactionCount"`
	PaymentCount     int64           `json:"paymentCount"`
}

// AnalyticsFromResult converts the use case analytics.
func AnalyticsFromResult(a *usecase.AccountAnalytics) *AnalyticsResponse {
	return &AnalyticsResponse{
		Balance:          a.Balance,
		InflowTotal:      a.InflowTotal,
		OutflowTotal:     a.OutflowTotal,
		TransactionCount: a.TransactionCount,
		PaymentCount:     a.PaymentCount,
	}
}

// PaymentItemResponse is one line of a payment.
type PaymentItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitAmount  decimal.Decimal `json:"unitAmount"`
	Amount      decimal.Decimal `json:"amount"`
}

// PaymentApprovalResponse is one approval level decision.
type PaymentApprovalResponse struct {
	ID           string     `json:"id"`
	Level        int        `json:"level"`
	ApproverID   string     `json:"approverId"`
	ApproverName string     `json:"approverName"`
	Status       string     `json:"status"`
	Comment      string     `json:"comment,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt"`
}

// PaymentResponse represents a payment with its items, approvals and payee.
type PaymentResponse struct {
	ID             string                    `json:"id"`
	PayerAccountID *string                   `json:"payerAccountId"`
	TotalAmount    decimal.Decimal           `json:"totalAmount"`
	Currency       string                    `json:"currency"`
	Status         string                    `json:"status"`
	Reference      string                    `json:"reference"`
	Payee          domain.PayeeSnapshot      `json:"payee"`
	Items          []PaymentItemResponse     `json:"items"`
	Approvals      []PaymentApprovalResponse `json:"approvals"`
	CreatedAt      time.Time                 `json:"createdAt"`
	UpdatedAt      time.Time                 `json:"updatedAt"`
}

// PaymentFromDomain converts a domain payment to response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	items := make([]PaymentItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = PaymentItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitAmount:  item.UnitAmount,
			Amount:      item.Amount,
		}
	}

	approvals := make([]PaymentApprovalResponse, len(p.Approvals))
	for i, a := range p.Approvals {
		approvals[i] = PaymentApprovalResponse{
			ID:           a.ID,
			Level:        a.Level,
			ApproverID:   a.ApproverID,
			ApproverName: a.ApproverName,
			Status:       a.Status,
			Comment:      a.Comment,
			DecidedAt:    a.DecidedAt,
		}
	}

	return &PaymentResponse{
		ID:             p.ID,
		PayerAccountID: p.PayerAccountID,
		TotalAmount:    p.TotalAmount,
		Currency:       p.Currency,
		Status:         string(p.Status),
		Reference:      p.Reference,
		Payee:          p.Payee,
		Items:          items,
		Approvals:      approvals,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ReconciliationResponse is the outcome of reconciling one account.
type ReconciliationResponse struct {
	AccountID               string          `json:"accountId"`
	Currency                string          `json:"currency"`
	RecordedBalance         decimal.Decimal `json:"recordedBalance"`
	CalculatedBalance       decimal.Decimal `json:"calculatedBalance"`
	Difference              decimal.Decimal `json:"difference"`
	TransactionCount        int64           `json:"transactionCount"`
	RunningBalanceBreaks    int64           `json:"runningBalanceBreaks"`
	FirstBreakTransactionID string          `json:"firstBreakTransactionId,omitempty"`
	IsReconciled            bool            `json:"isReconciled"`
	CheckedAt               time.Time       `json:"checkedAt"`
}

// ReconciliationFromResult converts a reconciliation result.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:               r.AccountID,
		Currency:                r.Currency,
		RecordedBalance:         r.RecordedBalance,
		CalculatedBalance:       r.CalculatedBalance,
		Difference:              r.Difference,
		TransactionCount:        r.TransactionCount,
		RunningBalanceBreaks:    r.RunningBalanceBreaks,
		FirstBreakTransactionID: r.FirstBreakTransactionID,
		IsReconciled:            r.IsReconciled,
		CheckedAt:               r.LastChecked,
	}
}

// ReconciliationReportResponse summarizes reconciliation across accounts.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"totalAccounts"`
	ReconciledAccounts int                       `json:"reconciledAccounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checkedAt"`
}

// ReconciliationReportFromResult converts a reconciliation report.
func ReconciliationReportFromResult(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromResult(d)
	}

	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

// AuditLogResponse represents an audit entry.
type AuditLogResponse struct {
	ID          string               `json:"id"`
	ActorID     string               `json:"actorId"`
	Actor       domain.ActorSnapshot `json:"actor"`
	Action      string               `json:"action"`
	EntityType  string               `json:"entityType"`
	EntityID    string               `json:"entityId"`
	Description string               `json:"description,omitempty"`
	BeforeData  domain.JSON          `json:"beforeData"`
	AfterData   domain.JSON          `json:"afterData"`
	IPAddress   string               `json:"ipAddress,omitempty"`
	UserAgent   string               `json:"userAgent,omitempty"`
	RequestID   string               `json:"requestId,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// AuditLogsFromDomain converts audit entries to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:          l.ID,
			ActorID:     l.ActorID,
			Actor:       l.Actor,
			Action:      string(l.Action),
			EntityType:  l.EntityType,
			EntityID:    l.EntityID,
			Description: l.Description,
			BeforeData:  l.BeforeData,
			AfterData:   l.AfterData,
			IPAddress:   l.IPAddress,
			UserAgent:   l.UserAgent,
			RequestID:   l.RequestID,
			CreatedAt:   l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Status  int                 `json:"status"`
	Code    string              `json:"code"`
	Details []domain.FieldError `json:"details,omitempty"`
}
