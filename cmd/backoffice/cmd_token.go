package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/backoffice/internal/config"
	"github.com/rpggio/backoffice/internal/identity"
)

func tokenCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Custom auth tokens",
	}
	cmd.AddCommand(tokenMintCmd(cfg))
	return cmd
}

func tokenMintCmd(cfg *config.Config) *cobra.Command {
	var (
		uid string
		ttl time.Duration
	)
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a custom token for a user id",
		Long:  "Mint prints a token signed with the configured secret. Pass it as BACKOFFICE_INITIAL_AUTH_TOKEN to sign in as that user, or as a bearer token for the HTTP surface.",
		RunE: func(cmd *cobra.Command, args []string) error {
			minter, err := identity.NewMinter(cfg.Identity.TokenSecret, cfg.App.TenantID)
			if err != nil {
				return fmt.Errorf("token mint: %w", err)
			}
			token, err := minter.Mint(uid, ttl)
			if err != nil {
				return fmt.Errorf("token mint: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "user id to sign in as")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}
