package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/config"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/server"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/store"
)

const shutdownTimeout = 10 * time.Second

var servePort string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio over HTTP",
		Long: `Serve the portfolio site. Press Ctrl+C to stop; open event streams are
closed and the server drains for up to 10 seconds.

Examples:
  portfolio serve
  portfolio serve --port 3000 --content ./portfolio.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if servePort != "" {
				cfg.Port = servePort
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, stderrLogger(cfg))
		},
	}
	cmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	src, err := openContent(cfg, logger)
	if err != nil {
		return err
	}
	if src.Path() != "" {
		go func() {
			if err := src.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("content: watch", "path", src.Path(), "error", err)
			}
		}()
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithLocation(cfg.Location()),
		server.WithVisitorSeed(cfg.VisitorSeed),
		server.WithRetention(cfg.VisitorRetention),
		server.WithAdmin(cfg.AdminUsername, cfg.AdminPassword),
	}
	if cfg.VisitorTracking {
		ledger, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer ledger.Close()
		if n, err := ledger.Cleanup(ctx, cfg.VisitorRetention); err != nil {
			logger.Error("store: privacy cleanup", "error", err)
		} else if n > 0 {
			logger.Info("store: privacy cleanup", "deleted", n)
		}
		opts = append(opts, server.WithLedger(ledger))
		logger.Info("store: visit tracking enabled", "path", cfg.DatabasePath)
	}
	if !cfg.AdminEnabled() {
		logger.Info("admin: disabled, set ADMIN_PASSWORD to enable")
	}

	srv, err := server.New(src, opts...)
	if err != nil {
		return err
	}

	// Requests inherit baseCtx so event streams end when shutdown starts.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", httpSrv.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("http: shutting down")
	cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
