package postgres

import (
	"context"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
	"github.com/iho/gosettle/internal/usecase"
)

// AccountTransactionRepository implements usecase.AccountTransactionRepository.
type AccountTransactionRepository struct {
	queries *generated.Queries
}

// NewAccountTransactionRepository creates a new AccountTransactionRepository.
func NewAccountTransactionRepository(db generated.DBTX) *AccountTransactionRepository {
	return &AccountTransactionRepository{
		queries: generated.New(db),
	}
}

// Create appends a ledger row within a transaction.
func (r *AccountTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.AccountTransaction) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	err := queries.CreateAccountTransaction(ctx, generated.CreateAccountTransactionParams{
		ID:           txn.ID,
		AccountID:    txn.AccountID,
		Type:         string(txn.Type),
		Amount:       decimalToNumeric(txn.Amount),
		BalanceAfter: decimalToNumeric(txn.BalanceAfter),
		Currency:     txn.Currency,
		Description:  stringPtrToText(txn.Description),
		Reference:    stringPtrToText(txn.Reference),
		PaymentID:    stringPtrToText(txn.PaymentID),
		CreatedBy:    stringPtrToText(txn.CreatedBy),
		CreatedAt:    timeToPgTimestamptz(txn.CreatedAt),
	})
	// The partial unique index on payment_id allows one debit per payment.
	if isUniqueViolation(err) && txn.PaymentID != nil {
		return domain.ErrPaymentAlreadyPaid
	}

	return err
}

// ListByAccount returns the account's transactions, newest first.
func (r *AccountTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.AccountTransaction, error) {
	limit32, offset32, ok := pageWindow(limit, offset)
	if !ok {
		return []*domain.AccountTransaction{}, nil
	}

	rows, err := r.queries.ListAccountTransactions(ctx, generated.ListAccountTransactionsParams{
		AccountID: accountID,
		Limit:     limit32,
		Offset:    offset32,
	})
	if err != nil {
		return nil, err
	}

	txns := make([]*domain.AccountTransaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToAccountTransaction(row))
	}

	return txns, nil
}

// CountByAccount counts the account's transactions.
func (r *AccountTransactionRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	return r.queries.CountAccountTransactions(ctx, accountID)
}

// TotalsByAccount sums inflow, outflow and net over the account's history.
func (r *AccountTransactionRepository) TotalsByAccount(ctx context.Context, accountID string) (*domain.AccountTotals, error) {
	row, err := r.queries.GetAccountTotals(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &domain.AccountTotals{
		Inflow:           numericToDecimal(row.Inflow),
		Outflow:          numericToDecimal(row.Outflow),
		Net:              numericToDecimal(row.Net),
		TransactionCount: row.TransactionCount,
	}, nil
}

// RunningBalanceBreaks replays the account's rows oldest first and reports
// those whose BalanceAfter does not match the running sum.
func (r *AccountTransactionRepository) RunningBalanceBreaks(ctx context.Context, accountID string) (*domain.RunningBalanceCheck, error) {
	row, err := r.queries.GetRunningBalanceBreaks(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &domain.RunningBalanceCheck{Breaks: row.Breaks, FirstBreakID: row.FirstBreakID}, nil
}

func rowToAccountTransaction(row generated.AccountTransaction) *domain.AccountTransaction {
	return &domain.AccountTransaction{
		ID:           row.ID,
		AccountID:    row.AccountID,
		Type:         domain.TransactionType(row.Type),
		Amount:       numericToDecimal(row.Amount),
		BalanceAfter: numericToDecimal(row.BalanceAfter),
		Currency:     row.Currency,
		Description:  textToStringPtr(row.Description),
		Reference:    textToStringPtr(row.Reference),
		PaymentID:    textToStringPtr(row.PaymentID),
		CreatedBy:    textToStringPtr(row.CreatedBy),
		CreatedAt:    row.CreatedAt.Time,
	}
}
