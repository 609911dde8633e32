package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/config"
	stratumhttp "github.com/sagarc03/stratum/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspection server",
	Long: `Resolve a configuration and serve it over HTTP for inspection.

Routes:
  GET  /healthz       liveness
  GET  /config        every value with its source (secrets masked)
  GET  /config/{key}  a single value
  POST /reload        resolve again; a rejected configuration keeps the old one

SIGHUP also triggers a reload. Set --server-token to require a bearer token.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveTarget target

func init() {
	serveTarget.registerFlags(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	schema, err := serveTarget.schema()
	if err != nil {
		return err
	}

	store, closeStore, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	src, err := serveTarget.sources(store)
	if err != nil {
		return err
	}

	handle, err := stratum.NewHandle(ctx, serveTarget.resolver(schema), func() stratum.Sources { return src })
	if err != nil {
		return fmt.Errorf("initial resolve:\n%w", err)
	}
	slog.Info("configuration resolved", "values", handle.Current().Len(), "cache", cfg.Cache.Type)

	handler := stratumhttp.NewHandler(&stratumhttp.HandlerConfig{
		Token: cfg.Server.Token,
		CORS:  cfg.CORS,
	}, handle)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					reload(ctx, handle)
					continue
				}
			}

			slog.Info("shutting down server...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("server shutdown error", "err", err)
			}
			shutdownCancel()
			cancel()
			return
		}
	}()

	slog.Info("starting server", "addr", addr, "auth", cfg.Server.Token != "")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func reload(ctx context.Context, handle *stratum.Handle) {
	res, err := handle.Reload(ctx)
	if err != nil {
		slog.Error("reload rejected, keeping previous configuration", "err", err)
		return
	}
	slog.Info("configuration reloaded", "values", res.Len())
}
