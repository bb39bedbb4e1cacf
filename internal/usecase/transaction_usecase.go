package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
)

// TransactionUseCase serves read-only views over an account's ledger.
type TransactionUseCase struct {
	accountRepo AccountRepository
	txnRepo     AccountTransactionRepository
	paymentRepo PaymentRepository
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	accountRepo AccountRepository,
	txnRepo AccountTransactionRepository,
	paymentRepo PaymentRepository,
) *TransactionUseCase {
	return &TransactionUseCase{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		paymentRepo: paymentRepo,
	}
}

// AccountAnalytics summarizes an account's ledger.
type AccountAnalytics struct {
	Balance          decimal.Decimal
	InflowTotal      decimal.Decimal
	OutflowTotal     decimal.Decimal
	TransactionCount int64
	PaymentCount     int64
}

// GetAccountAnalytics aggregates the account's full transaction history.
// Totals are recomputed on every call.
func (uc *TransactionUseCase) GetAccountAnalytics(ctx context.Context, accountID string) (*AccountAnalytics, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totals, err := uc.txnRepo.TotalsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	paid, err := uc.paymentRepo.CountPaidByPayer(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &AccountAnalytics{
		Balance:          account.Balance,
		InflowTotal:      totals.Inflow,
		OutflowTotal:     totals.Outflow,
		TransactionCount: totals.TransactionCount,
		PaymentCount:     paid,
	}, nil
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// TransactionPage is one page of an account's transactions, newest first.
type TransactionPage struct {
	Data       []*domain.AccountTransaction
	Pagination Pagination
}

// ListAccountTransactions returns a page of the account's transactions.
// Limit defaults to 50 and is capped at 100.
func (uc *TransactionUseCase) ListAccountTransactions(ctx context.Context, accountID string, page, limit int) (*TransactionPage, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	page, limit = domain.NormalizePage(page, limit)

	total, err := uc.txnRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	txns, err := uc.txnRepo.ListByAccount(ctx, accountID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []*domain.AccountTransaction{}
	}

	return &TransactionPage{
		Data: txns,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: domain.TotalPages(total, limit),
		},
	}, nil
}
