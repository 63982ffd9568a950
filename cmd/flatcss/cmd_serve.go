package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhamidi/flatcss/server"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the flatten API over HTTP",
		Long: `Serve the flatten API over HTTP.

Endpoints:
  POST /flatten  nested CSS in, flat CSS out
  POST /parse    nested CSS in, JSON syntax tree out
  GET  /health

Environment variables:
  FLATCSS_ADDR             listen address (default :8080)
  FLATCSS_MAX_BODY_BYTES   request body limit (default 1048576)
  FLATCSS_STRICT_AT_RULES  reject unknown at-rules (default false)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := commonlog.GetLogger("flatcss.server")

			cfg := server.Load()
			if addr != "" {
				cfg.Addr = addr
			}

			httpServer := &http.Server{
				Addr:         cfg.Addr,
				Handler:      server.NewServer(cfg),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info("shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			log.Infof("listening on %s", cfg.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides FLATCSS_ADDR")

	return cmd
}
