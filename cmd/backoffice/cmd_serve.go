package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/backoffice/internal/config"
	"github.com/rpggio/backoffice/internal/dashboard"
	"github.com/rpggio/backoffice/internal/identity"
	"github.com/rpggio/backoffice/internal/mcp"
	"github.com/rpggio/backoffice/internal/metrics"
	"github.com/rpggio/backoffice/internal/sqlite"
	"github.com/rpggio/backoffice/internal/transport"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over MCP (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog := newLogger(*cfg)
			defer closeLog()
			return serve(cmd.Context(), *cfg, logger, &sdkmcp.StdioTransport{})
		},
	}
}

// serve runs until ctx ends or, in stdio mode, until stdio closes.
func serve(ctx context.Context, cfg config.Config, logger *slog.Logger, stdio sdkmcp.Transport) error {
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

	docs := sqlite.NewDocumentStore(db, logger)
	defer docs.Close()
	m := metrics.New()
	store := m.InstrumentStore(docs)

	host := dashboard.NewHost(store, cfg.App.TenantID, dashboard.Options{Observer: m}, logger)
	defer host.Close()

	server := mcp.NewServer(mcp.Config{Source: host, Logger: logger, Version: version})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	resolver := newResolver(cfg, db, logger)
	resolver.Start(ctx)
	g.Go(func() error {
		if err := host.Establish(ctx, resolver); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})

	switch cfg.Transport.Mode {
	case config.TransportStdio:
		logger.Info("starting stdio transport")
		g.Go(func() error {
			// Run returns when stdin closes; that ends the process.
			defer cancel()
			if err := server.Run(ctx, stdio); err != nil && ctx.Err() == nil {
				return fmt.Errorf("stdio server: %w", err)
			}
			return nil
		})
	default:
		handlerCfg := transport.Config{
			MCP:            server,
			Source:         host,
			Metrics:        m.Handler(),
			SessionTimeout: cfg.Server.SessionTimeout,
			Logger:         logger,
		}
		if cfg.Auth.Enabled {
			verifier, err := identity.NewVerifier(cfg.Identity.TokenSecret, cfg.App.TenantID)
			if err != nil {
				return fmt.Errorf("configuring bearer auth: %w", err)
			}
			handlerCfg.Verifier = verifier
		}
		httpServer := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           transport.NewHandler(handlerCfg),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			logger.Info("server listening", "addr", httpServer.Addr, "auth", cfg.Auth.Enabled)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// newResolver builds identity resolution from config. Missing pieces
// degrade resolution to demo mode rather than failing startup.
func newResolver(cfg config.Config, db *sqlite.DB, logger *slog.Logger) *identity.Resolver {
	if strings.TrimSpace(cfg.App.TenantID) == "" {
		logger.Warn("no app id configured, identity disabled")
		return identity.NewResolver(nil, "", logger)
	}

	var verifier *identity.Verifier
	if cfg.Identity.TokenSecret != "" {
		v, err := identity.NewVerifier(cfg.Identity.TokenSecret, cfg.App.TenantID)
		if err != nil {
			logger.Warn("custom tokens disabled", "error", err)
		} else {
			verifier = v
		}
	}

	provider := identity.NewLocalProvider(sqlite.NewAuthRepository(db), cfg.App.TenantID, cfg.Identity.ClientID, verifier, logger)
	return identity.NewResolver(provider, cfg.Identity.BootstrapToken, logger)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
