// Package serve implements the serve command.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/daily-budget/cmd/root"
	"fjacquet/daily-budget/internal/api"
	"fjacquet/daily-budget/internal/container"
	"fjacquet/daily-budget/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner over an HTTP JSON API",
	Long: `Serve the planner over HTTP.

Endpoints:
  POST /v1/plans            plan a period
  POST /v1/classifications  classify an income
  GET  /healthz             liveness

Example:
  daily-budget serve --address :8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return Run(ctx, c, address)
	},
}

func init() {
	Cmd.Flags().StringVar(&address, "address", "", "Listen address (default server.address)")
}

// NewServer builds the HTTP server for c.
func NewServer(c *container.Container, addr string) *http.Server {
	if addr == "" {
		addr = c.GetConfig().Server.Address
	}
	if c.GetConfig().Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	return &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(c.GetPlanner(), c.GetLogger()),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, c *container.Container, addr string) error {
	logger := c.GetLogger()
	srv := NewServer(c, addr)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", logging.F("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
