package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/itfcal/internal/api"
	"github.com/jmylchreest/itfcal/internal/config"
	"github.com/jmylchreest/itfcal/internal/logger"
	"github.com/jmylchreest/itfcal/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calendar over HTTP",
	Long: `Start an HTTP server exposing:

  GET /api/itf?year=YYYY&nation=XXX   scrape and return the result envelope
  GET /healthz                        liveness
  GET /version                        build information
  GET /metrics                        Prometheus metrics

Every /api/itf request runs its own browser session. Responses carry
Cache-Control: s-maxage=1800, stale-while-revalidate so a shared cache in
front of the server absorbs repeat requests.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("listen", config.DefaultListenAddr, "listen address")
	flags.String("default-year", config.DefaultYear, "year used when the request has none")

	_ = viper.BindPFlag(config.KeyListenAddr, flags.Lookup("listen"))
	_ = viper.BindPFlag(config.KeyDefaultYear, flags.Lookup("default-year"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scraper, err := newScraper(cfg)
	if err != nil {
		logger.Error("failed to create scraper", "error", err)
		return err
	}

	handler := api.NewHandler(scraper, cfg.BaseURL, cfg.DefaultYear, cfg.PageLimit).
		WithMetrics(metrics.New())
	server := api.NewServer(cfg.ListenAddr, handler, viper.GetBool("debug"))

	logger.Info("serving calendar",
		"listen", cfg.ListenAddr,
		"fetch_mode", cfg.FetchMode,
		"default_year", cfg.DefaultYear)

	return server.Run(ctx)
}
