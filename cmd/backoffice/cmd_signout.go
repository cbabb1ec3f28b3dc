package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpggio/backoffice/internal/config"
	"github.com/rpggio/backoffice/internal/identity"
	"github.com/rpggio/backoffice/internal/sqlite"
)

func signOutCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the stored session for this client",
		Long:  "Signout deletes the session stored for the configured client id. The next serve resolves identity again: bootstrap token first, then a new anonymous user.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signOut(cmd.Context(), *cfg); err != nil {
				return fmt.Errorf("signout: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed out client %s\n", cfg.Identity.ClientID)
			return nil
		},
	}
}

func signOut(ctx context.Context, cfg config.Config) error {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return err
	}

	provider := identity.NewLocalProvider(sqlite.NewAuthRepository(db), cfg.App.TenantID, cfg.Identity.ClientID, nil, nil)
	return provider.SignOut(ctx)
}
