// Package commands implements the CLI commands for itfcal.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	clifetcher "github.com/jmylchreest/itfcal/cmd/itfcal/fetcher"
	"github.com/jmylchreest/itfcal/internal/config"
	"github.com/jmylchreest/itfcal/internal/logger"
	"github.com/jmylchreest/itfcal/pkg/calendar"
	"github.com/jmylchreest/itfcal/pkg/fetcher"
)

var rootCmd = &cobra.Command{
	Use:   "itfcal",
	Short: "ITF juniors tournament calendar scraper",
	Long: `itfcal loads the ITF World Tennis Tour Juniors calendar in a headless
browser, pages through it and prints the tournaments it lists as JSON,
JSONL or YAML. It can also serve the same result over HTTP.

Examples:
  # Scrape the default year
  itfcal scrape

  # One nation, ten pages, YAML
  itfcal scrape --year 2026 --nation GBR --page-limit 10 --format yaml

  # Serve GET /api/itf?year=&nation=
  itfcal serve --listen :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()

	// Global flags
	flags.String("config", "", "config file (default $HOME/.itfcal.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.String("log-level", "", "log level: debug, info, warn, error (overrides --debug/--quiet)")
	flags.Bool("log-json", false, "log as JSON")

	// Calendar settings
	flags.String("base-url", config.DefaultBaseURL, "calendar page URL")
	flags.Int("page-limit", calendar.DefaultPageLimit, "max next-page turns per run (1-60)")
	flags.Duration("navigation-timeout", calendar.DefaultNavigationTimeout, "timeout for loading the first page")
	flags.Duration("page-timeout", calendar.DefaultPageTimeout, "timeout for each page turn")

	// Browser settings
	flags.String("fetch-mode", config.FetchModeDynamic, "browser: dynamic (headless Chrome) or static (HTTP only)")
	flags.Bool("stealth", false, "hide headless-browser tells in dynamic mode")
	flags.String("chrome-path", "", "Chrome/Chromium binary (default: search PATH)")
	flags.String("user-agent", fetcher.DefaultUserAgent, "browser user agent")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = viper.BindPFlag(config.KeyBaseURL, flags.Lookup("base-url"))
	_ = viper.BindPFlag(config.KeyPageLimit, flags.Lookup("page-limit"))
	_ = viper.BindPFlag(config.KeyNavigationTimeout, flags.Lookup("navigation-timeout"))
	_ = viper.BindPFlag(config.KeyPageTimeout, flags.Lookup("page-timeout"))
	_ = viper.BindPFlag(config.KeyFetchMode, flags.Lookup("fetch-mode"))
	_ = viper.BindPFlag(config.KeyStealth, flags.Lookup("stealth"))
	_ = viper.BindPFlag(config.KeyChromePath, flags.Lookup("chrome-path"))
	_ = viper.BindPFlag(config.KeyUserAgent, flags.Lookup("user-agent"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".itfcal")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("ITFCAL")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

func initLogging(cmd *cobra.Command, args []string) error {
	if err := logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		Level: viper.GetString("log_level"),
		JSON:  viper.GetBool("log_json"),
	}); err != nil {
		return err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", "path", used)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads and validates the merged flag/env/file settings.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return config.Config{}, err
	}
	return cfg, nil
}

// newBrowser picks the browser implementation for the configured fetch mode.
func newBrowser(cfg config.Config) (fetcher.Browser, error) {
	switch cfg.FetchMode {
	case config.FetchModeDynamic:
		return clifetcher.NewDynamicBrowser(clifetcher.Config{
			UserAgent:  cfg.UserAgent,
			Stealth:    cfg.Stealth,
			ChromePath: cfg.ChromePath,
			Debug:      viper.GetBool("debug"),
		}), nil
	case config.FetchModeStatic:
		return fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   maxDuration(cfg.NavigationTimeout, cfg.PageTimeout),
		}), nil
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s (use 'dynamic' or 'static')", cfg.FetchMode)
	}
}

// newScraper builds the page scraper from the configuration.
func newScraper(cfg config.Config) (*calendar.Scraper, error) {
	browser, err := newBrowser(cfg)
	if err != nil {
		return nil, err
	}
	return calendar.New(
		calendar.WithBrowser(browser),
		calendar.WithNavigationTimeout(cfg.NavigationTimeout),
		calendar.WithPageTimeout(cfg.PageTimeout),
		calendar.WithPageLimit(cfg.PageLimit),
	), nil
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
