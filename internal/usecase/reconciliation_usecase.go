package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationUseCase checks that each account's ledger replays to its balance.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	txnRepo     AccountTransactionRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(accountRepo AccountRepository, txnRepo AccountTransactionRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	Currency          string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	TransactionCount  int64

	// RunningBalanceBreaks counts rows whose BalanceAfter disagrees with the
	// running sum of amounts up to that row.
	RunningBalanceBreaks    int64
	FirstBreakTransactionID string

	IsReconciled bool
	LastChecked  time.Time
}

// ReconcileAccount replays the account's transactions from zero and compares
// the result with the stored balance. Every row's BalanceAfter must also match
// the running sum at that row.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totals, err := uc.txnRepo.TotalsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	check, err := uc.txnRepo.RunningBalanceBreaks(ctx, accountID)
	if err != nil {
		return nil, err
	}

	diff := account.Balance.Sub(totals.Net)

	return &ReconciliationResult{
		AccountID:               accountID,
		Currency:                account.Currency,
		RecordedBalance:         account.Balance,
		CalculatedBalance:       totals.Net,
		Difference:              diff,
		TransactionCount:        totals.TransactionCount,
		RunningBalanceBreaks:    check.Breaks,
		FirstBreakTransactionID: check.FirstBreakID,
		IsReconciled:            diff.IsZero() && check.Breaks == 0,
		LastChecked:             time.Now().UTC(),
	}, nil
}

// ReconcileAllAccounts reconciles every account, one page at a time.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	for offset := 0; ; offset += maxAccountListLimit {
		accounts, err := uc.accountRepo.List(ctx, maxAccountListLimit, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.ReconcileAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
			}
			results = append(results, result)
		}

		if len(accounts) < maxAccountListLimit {
			break
		}
	}

	return results, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// GenerateReconciliationReport reconciles all accounts and lists the ones
// whose ledger does not match their balance.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
