package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/skyhook-sim/internal/api"
	"github.com/rewired-gh/skyhook-sim/internal/logger"
	"github.com/rewired-gh/skyhook-sim/internal/universe"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx := cmd.Context()

			var g *universe.Graph
			if loaded, err := a.loadGraph(ctx); err != nil {
				logger.Warn("Serving without a universe, reachability requests will fail: %v", err)
			} else {
				g = loaded
			}

			srv := &http.Server{
				Addr:         addr,
				Handler:      api.NewServer(a.cfg, g).Handler(os.Stdout),
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Listening on %s", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
				logger.Info("Shutdown signal received, cleaning up...")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address; defaults to server.addr")
	return cmd
}
