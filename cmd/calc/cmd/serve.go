package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Runs the calculator HTTP and WebSocket API until SIGINT or SIGTERM.

Telemetry exporters follow the [telemetry] config section and the standard
OTEL_EXPORTER_OTLP_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, cfg)
		},
	}

	c.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return c
}
