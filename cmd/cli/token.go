package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/auth"
	"github.com/iho/gosettle/internal/infrastructure/config"
)

func tokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
		actor  domain.Actor
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a local or test actor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" || ttl == 0 {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if secret == "" {
					secret = cfg.JWTSecret
				}
				if ttl == 0 {
					ttl = cfg.JWTExpiration
				}
			}
			if secret == "" {
				return errors.New("a signing secret is required: pass --secret or set JWT_SECRET")
			}

			actor.Role = domain.Role(role)
			token, err := auth.NewJWTManager(secret, ttl).Generate(actor)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRATION)")
	cmd.Flags().StringVar(&actor.ID, "id", "", "Actor id")
	cmd.Flags().StringVar(&actor.Name, "name", "", "Actor name")
	cmd.Flags().StringVar(&actor.Email, "email", "", "Actor email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "Role: admin, finance or viewer")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
