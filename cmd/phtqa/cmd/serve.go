package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpserver "github.com/0xcro3dile/phtqa/internal/infrastructure/http"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Watch.Enabled {
		if err := a.watch(ctx); err != nil {
			return err
		}
	}

	addr := a.cfg.Listen
	if listenAddr != "" {
		addr = listenAddr
	}
	srv := httpserver.NewServer(a.query, a.intent, a.ingest, a.markup, addr, a.logger)
	return srv.Start(ctx)
}
