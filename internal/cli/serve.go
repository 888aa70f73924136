package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablekit/tablekit/internal/server"
)

// shutdownTimeout bounds how long serve waits for in-flight requests after
// an interrupt.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command for running the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dataset HTTP server",
		Long: `Start the HTTP server for storing and reshaping datasets.

Without a config file the server listens on :8080 with the in-memory store
and no result cache. See the server package documentation for the config
file format and the endpoint list.

Examples:
  tablekit serve
  tablekit serve --addr :9090
  tablekit serve --config server.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "server config file (TOML)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe starts the server and blocks until it fails or ctx is cancelled,
// then shuts it down gracefully.
func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	store, err := server.NewStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	cch, err := server.NewCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	srv := server.New(cfg, store, cch, c.Logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
