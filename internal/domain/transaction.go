package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of balance mutation recorded by a transaction.
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "deposit"
	TransactionTypeWithdrawal  TransactionType = "withdrawal"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
	TransactionTypePayment     TransactionType = "payment"
)

// AccountTransaction is an immutable ledger entry. Amount is signed:
// credits are positive, debits negative.
type AccountTransaction struct {
	CreatedAt    time.Time
	ID           string
	AccountID    string
	Type         TransactionType
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Currency     string
	Description  *string
	Reference    *string
	PaymentID    *string
	CreatedBy    *string
}

// AccountTotals aggregates an account's transaction history.
type AccountTotals struct {
	Inflow           decimal.Decimal
	Outflow          decimal.Decimal
	Net              decimal.Decimal
	TransactionCount int64
}

// RunningBalanceCheck counts ledger rows whose BalanceAfter differs from the
// running sum of amounts up to and including that row, oldest first.
type RunningBalanceCheck struct {
	Breaks       int64
	FirstBreakID string
}
