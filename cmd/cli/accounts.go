package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func accountsCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	cmd.AddCommand(
		accountsCreateCmd(c),
		accountsGetCmd(c),
		accountsAddFundsCmd(c),
		accountsAnalyticsCmd(c),
		accountsTransactionsCmd(c),
	)

	return cmd
}

func accountsCreateCmd(c *apiClient) *cobra.Command {
	var req struct {
		Name                 string `json:"name"`
		Code                 string `json:"code"`
		Currency             string `json:"currency"`
		Description          string `json:"description,omitempty"`
		AllowNegativeBalance bool   `json:"allowNegativeBalance"`
	}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			if err := c.do(cmd.Context(), http.MethodPost, "/api/v1/accounts", req, nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Account name")
	cmd.Flags().StringVar(&req.Code, "code", "", "Unique account code")
	cmd.Flags().StringVar(&req.Currency, "currency", "USD", "ISO 4217 currency code")
	cmd.Flags().StringVar(&req.Description, "description", "", "Optional description")
	cmd.Flags().BoolVar(&req.AllowNegativeBalance, "allow-negative", false, "Allow the balance to go below zero")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func accountsGetCmd(c *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "get ACCOUNT_ID",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			if err := c.do(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func accountsAddFundsCmd(c *apiClient) *cobra.Command {
	var (
		amount         string
		description    string
		reference      string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "add-funds ACCOUNT_ID",
		Short: "Credit an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"amount": amount}
			if description != "" {
				body["description"] = description
			}
			if reference != "" {
				body["reference"] = reference
			}

			var out struct {
				Transaction map[string]any `json:"transaction"`
				Account     map[string]any `json:"account"`
			}
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/add-funds"
			headers := map[string]string{"Idempotency-Key": idempotencyKey}
			if err := c.do(cmd.Context(), http.MethodPost, path, body, headers, &out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deposited %s, new balance %v %v\n",
				amount, out.Account["balance"], out.Account["currency"])
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Positive amount, e.g. 100.50")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	cmd.Flags().StringVar(&reference, "reference", "", "Optional external reference")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header value")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func accountsAnalyticsCmd(c *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics ACCOUNT_ID",
		Short: "Show balance, inflow and outflow totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/analytics"
			if err := c.do(cmd.Context(), http.MethodGet, path, nil, nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

type transactionRow struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Amount       string  `json:"amount"`
	BalanceAfter string  `json:"balanceAfter"`
	Description  *string `json:"description"`
	CreatedAt    string  `json:"createdAt"`
}

func accountsTransactionsCmd(c *apiClient) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "transactions ACCOUNT_ID",
		Short: "List an account's transactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("limit", strconv.Itoa(limit))

			var out struct {
				Data       []transactionRow `json:"data"`
				Pagination struct {
					Page       int   `json:"page"`
					Limit      int   `json:"limit"`
					Total      int64 `json:"total"`
					TotalPages int   `json:"totalPages"`
				} `json:"pagination"`
			}
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/transactions?" + q.Encode()
			if err := c.do(cmd.Context(), http.MethodGet, path, nil, nil, &out); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tAMOUNT\tBALANCE\tDESCRIPTION\tCREATED")
			for _, t := range out.Data {
				desc := ""
				if t.Description != nil {
					desc = truncate(*t.Description, 32)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Type, t.Amount, t.BalanceAfter, desc, t.CreatedAt)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d total)\n",
				out.Pagination.Page, out.Pagination.TotalPages, out.Pagination.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size, at most 100")

	return cmd
}
