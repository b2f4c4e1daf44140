package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/grafana/docindex/internal/config"
	"github.com/grafana/docindex/internal/logging"
	"github.com/grafana/docindex/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr, indexURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve index lookups over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.Default()

			catalog, origin, err := opts.openCatalog(indexURL, opts.buildLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			if _, err := catalog.Resolver.Index(cmd.Context()); err != nil {
				logger.Warn("Index not loaded yet, lookups will retry",
					slog.String("origin", origin),
					slog.String("error", err.Error()))
			}

			serverOpts := []server.Option{server.WithLogger(logger)}
			if catalog.Locator != nil {
				serverOpts = append(serverOpts, server.WithLocator(catalog.Locator))
			}
			srv := server.New(addr, catalog.Resolver, serverOpts...)

			logger.Info("Starting HTTP server",
				slog.String("addr", addr),
				slog.String("origin", origin))

			return listenAndServe(cmd.Context(), srv, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOrDefault(config.EnvAddr, ":8080"), "HTTP address to listen on")
	cmd.Flags().StringVar(&indexURL, "index-url", envOrDefault(config.EnvIndexURL, ""),
		"Base URL serving apiIndex.json; lookups are fetched from it instead of the local index")

	return cmd
}

// listenAndServe runs srv until ctx is cancelled, then shuts it down gracefully.
func listenAndServe(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
