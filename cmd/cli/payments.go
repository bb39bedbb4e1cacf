package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func paymentsCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Payment operations",
	}

	cmd.AddCommand(paymentsGetCmd(c), paymentsProcessCmd(c))

	return cmd
}

func paymentsGetCmd(c *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "get PAYMENT_ID",
		Short: "Show a payment with items and approvals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			if err := c.do(cmd.Context(), http.MethodGet, "/api/v1/payments/"+url.PathEscape(args[0]), nil, nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func paymentsProcessCmd(c *apiClient) *cobra.Command {
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   "process PAYMENT_ID",
		Short: "Settle a payment against its payer account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				ID          string `json:"id"`
				Status      string `json:"status"`
				TotalAmount string `json:"totalAmount"`
				Currency    string `json:"currency"`
			}
			path := "/api/v1/payments/" + url.PathEscape(args[0]) + "/process"
			headers := map[string]string{"Idempotency-Key": idempotencyKey}
			if err := c.do(cmd.Context(), http.MethodPost, path, nil, headers, &out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Payment %s %s (%s %s)\n", out.ID, out.Status, out.TotalAmount, out.Currency)
			return nil
		},
	}

	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header value")

	return cmd
}
