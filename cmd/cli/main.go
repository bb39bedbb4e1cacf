package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "gosettle-cli",
		Short:         "GoSettle CLI tool",
		Long:          `A command line interface for the GoSettle account and payment settlement API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&client.baseURL, "url", envOr("GOSETTLE_URL", "http://localhost:8080"), "Base URL of the GoSettle API")
	flags.DurationVar(&client.timeout, "timeout", 10*time.Second, "Request timeout")
	flags.StringVar(&client.token, "token", os.Getenv("GOSETTLE_TOKEN"), "Bearer token, when the server has authentication enabled")
	flags.StringVar(&client.actor.id, "user-id", "", "Actor id sent as X-User-Id")
	flags.StringVar(&client.actor.name, "user-name", "", "Actor name sent as X-User-Name")
	flags.StringVar(&client.actor.email, "user-email", "", "Actor email sent as X-User-Email")
	flags.StringVar(&client.actor.role, "user-role", "", "Actor role sent as X-User-Role")

	rootCmd.AddCommand(
		accountsCmd(client),
		paymentsCmd(client),
		reconcileCmd(client),
		migrateCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
