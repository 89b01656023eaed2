package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/slicingpie/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	Long: `Start a JSON API over the ledger with Prometheus metrics at /metrics.

Endpoints:
  GET    /health
  GET    /founders
  GET    /founders/{id}/calculations
  GET    /categories[?admin=true]
  GET    /entries[?founder=<id>&admin=true]
  POST   /entries
  DELETE /entries/{id}
  GET    /pie

Example:
  slicer serve --addr 127.0.0.1:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	sc := api.DefaultServerConfig()
	sc.Addr = cfg.Server.Addr
	if serveAddr != "" {
		sc.Addr = serveAddr
	}
	srv := api.NewServer(book, sc, nil)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
		return err
	}
	return <-errc
}
