package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/itfcal/internal/api"
	"github.com/jmylchreest/itfcal/internal/logger"
	"github.com/jmylchreest/itfcal/internal/output"
	"github.com/jmylchreest/itfcal/pkg/tournament"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the calendar once and print the result",
	Long: `Load the calendar for a year (and optionally a nation), follow the
next-page control up to --page-limit times and print the result envelope.

The command exits non-zero when the first page could not be loaded or
read; the envelope is still written and carries the error.

Examples:
  itfcal scrape --year 2025
  itfcal scrape --nation USA --format jsonl -o usa.jsonl
  itfcal scrape --fetch-mode static --debug`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()
	flags.String("year", "", "calendar year (default: default_year from config)")
	flags.String("nation", "", "three-letter nation code filter")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", string(output.FormatJSON), "output format: json, jsonl, yaml")
	flags.Bool("compact", false, "single-line JSON")
	flags.String("indent", "  ", "indentation for pretty JSON")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	year, _ := cmd.Flags().GetString("year")
	nation, _ := cmd.Flags().GetString("nation")
	if year == "" {
		year = cfg.DefaultYear
	}
	if err := api.CheckQuery(year, nation); err != nil {
		logger.Error("invalid arguments", "year", year, "nation", nation, "error", err)
		return err
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	compact, _ := cmd.Flags().GetBool("compact")
	indent, _ := cmd.Flags().GetString("indent")

	scraper, err := newScraper(cfg)
	if err != nil {
		logger.Error("failed to create scraper", "error", err)
		return err
	}

	source := tournament.SourceURL(cfg.BaseURL, year, nation)
	logger.Info("starting scrape",
		"url", source,
		"fetch_mode", cfg.FetchMode,
		"page_limit", cfg.PageLimit)

	env := scraper.Run(ctx, source, cfg.PageLimit)

	// Setup output
	outFile := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		outFile = f
	}

	writer, err := output.NewWriter(outFile, format, output.WithPretty(!compact), output.WithIndent(indent))
	if err != nil {
		return err
	}
	if err := writer.WriteEnvelope(env); err != nil {
		logger.Error("failed to write output", "error", err)
		return err
	}

	if !env.OK {
		return errors.New(env.Error)
	}
	logger.Info("scrape finished", "count", env.Count)
	return nil
}
