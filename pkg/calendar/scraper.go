// Package calendar drives a browser session through the paginated
// tournament calendar and collects the tournaments it lists.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jmylchreest/itfcal/internal/logger"
	"github.com/jmylchreest/itfcal/pkg/extractor"
	"github.com/jmylchreest/itfcal/pkg/fetcher"
	"github.com/jmylchreest/itfcal/pkg/tournament"
)

// Scraper runs the page-parsing and pagination loop. A Scraper holds no
// per-run state and may be reused; each Run opens its own session.
type Scraper struct {
	config Config
}

// New creates a Scraper.
func New(opts ...Option) *Scraper {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	defaults := DefaultConfig()
	if cfg.Browser == nil {
		cfg.Browser = fetcher.NewStatic(fetcher.DefaultStaticConfig())
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaults.NavigationTimeout
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = defaults.PageTimeout
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = defaults.PageLimit
	}

	return &Scraper{config: cfg}
}

// Config returns the effective configuration.
func (s *Scraper) Config() Config {
	return s.config
}

// Run loads startURL, follows the next-page control at most pageLimit times
// and returns every distinct tournament seen. A pageLimit of zero or less
// uses the configured limit.
//
// Run never returns an error: a failure to load or read the first page is
// reported in the envelope, while failures while paging stop the loop and
// keep what was collected so far.
func (s *Scraper) Run(ctx context.Context, startURL string, pageLimit int) (env tournament.Envelope) {
	if pageLimit <= 0 {
		pageLimit = s.config.PageLimit
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("scraper panic", "url", startURL, "panic", r)
			env = tournament.Failure(startURL, fmt.Errorf("scraper panic: %v", r))
		}
	}()

	start := time.Now()
	records, err := s.collect(ctx, startURL, pageLimit)
	if err != nil {
		logger.Warn("scrape failed", "url", startURL, "error", err)
		return tournament.Failure(startURL, err)
	}

	entries := tournament.Normalize(records)
	logger.Info("scrape complete",
		"url", startURL,
		"records", len(records),
		"entries", len(entries),
		"duration", time.Since(start).Round(time.Millisecond))

	return tournament.Success(startURL, entries)
}

// collect owns the browser session for the duration of a run.
func (s *Scraper) collect(ctx context.Context, startURL string, pageLimit int) ([]tournament.RawRecord, error) {
	session, err := s.config.Browser.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Debug("closing session", "error", err)
		}
	}()

	logger.Debug("loading calendar",
		"url", startURL,
		"browser", s.config.Browser.Type(),
		"timeout", s.config.NavigationTimeout)

	if err := session.Navigate(ctx, startURL, s.config.NavigationTimeout); err != nil {
		return nil, err
	}

	if err := session.DismissConsent(ctx); err != nil {
		logger.Debug("consent dismissal failed", "error", err)
	}

	seen := tournament.NewRecordSet()
	if _, err := s.extract(ctx, session, seen, 1); err != nil {
		return nil, err
	}

	s.paginate(ctx, session, seen, pageLimit)
	return seen.Records(), nil
}

// paginate turns pages until the control disappears, a step fails or the
// limit is reached. Failures end pagination without failing the run.
func (s *Scraper) paginate(ctx context.Context, session fetcher.Session, seen *tournament.RecordSet, pageLimit int) {
	for turn := 1; turn <= pageLimit; turn++ {
		page := turn + 1

		ok, err := session.HasNext(ctx)
		if err != nil {
			logger.Debug("next control lookup failed", "page", page, "error", err)
			return
		}
		if !ok {
			logger.Debug("no next control", "page", page)
			return
		}

		if err := session.ClickNext(ctx, s.config.PageTimeout); err != nil {
			logger.Debug("page turn failed", "page", page, "error", err)
			return
		}

		if _, err := s.extract(ctx, session, seen, page); err != nil {
			logger.Debug("page extraction failed", "page", page, "error", err)
			return
		}
	}
	logger.Debug("page limit reached", "limit", pageLimit)
}

// extract reads the current page and adds its records to seen.
func (s *Scraper) extract(ctx context.Context, session fetcher.Session, seen *tournament.RecordSet, page int) (int, error) {
	html, err := session.HTML(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", extractor.ErrExtractionFailure, err)
	}

	result, err := extractor.Page(html)
	if err != nil {
		return 0, err
	}

	added := seen.AddAll(result.Records)
	logger.Debug("page extracted",
		"page", page,
		"strategy", result.Strategy,
		"records", len(result.Records),
		"new", added,
		"total", seen.Len())
	return added, nil
}
