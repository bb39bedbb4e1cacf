package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

type reconciliationRow struct {
	AccountID               string `json:"accountId"`
	Currency                string `json:"currency"`
	RecordedBalance         string `json:"recordedBalance"`
	CalculatedBalance       string `json:"calculatedBalance"`
	Difference              string `json:"difference"`
	RunningBalanceBreaks    int64  `json:"runningBalanceBreaks"`
	FirstBreakTransactionID string `json:"firstBreakTransactionId"`
	IsReconciled            bool   `json:"isReconciled"`
}

func (r reconciliationRow) mismatch() string {
	msg := fmt.Sprintf("recorded %s, ledger %s, difference %s", r.RecordedBalance, r.CalculatedBalance, r.Difference)
	if r.RunningBalanceBreaks > 0 {
		msg += fmt.Sprintf(", %d running balance break(s) from %s", r.RunningBalanceBreaks, r.FirstBreakTransactionID)
	}
	return msg
}

func reconcileCmd(c *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [ACCOUNT_ID]",
		Short: "Compare stored balances with ledger history",
		Long:  "Reconciles a single account, or every account when no id is given. Exits non-zero on any discrepancy.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				var row reconciliationRow
				path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/reconciliation"
				if err := c.do(cmd.Context(), http.MethodGet, path, nil, nil, &row); err != nil {
					return err
				}
				if !row.IsReconciled {
					fmt.Fprintf(out, "Account %s MISMATCH: %s\n", row.AccountID, row.mismatch())
					return fmt.Errorf("account %s is not reconciled", row.AccountID)
				}
				fmt.Fprintf(out, "Account %s reconciled: %s %s\n", row.AccountID, row.RecordedBalance, row.Currency)
				return nil
			}

			var report struct {
				TotalAccounts      int                 `json:"totalAccounts"`
				ReconciledAccounts int                 `json:"reconciledAccounts"`
				Discrepancies      []reconciliationRow `json:"discrepancies"`
			}
			if err := c.do(cmd.Context(), http.MethodGet, "/api/v1/reconciliation", nil, nil, &report); err != nil {
				return err
			}

			fmt.Fprintf(out, "Reconciled %d/%d accounts\n", report.ReconciledAccounts, report.TotalAccounts)
			for _, d := range report.Discrepancies {
				fmt.Fprintf(out, "  %s: %s\n", d.AccountID, d.mismatch())
			}
			if len(report.Discrepancies) > 0 {
				return fmt.Errorf("%d account(s) not reconciled", len(report.Discrepancies))
			}
			return nil
		},
	}
}
