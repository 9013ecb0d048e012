package calendar

import (
	"time"

	"github.com/jmylchreest/itfcal/pkg/fetcher"
)

// Defaults for a scraper run.
const (
	DefaultNavigationTimeout = 120 * time.Second
	DefaultPageTimeout       = 60 * time.Second
	DefaultPageLimit         = 5
)

// Config holds the scraper settings.
type Config struct {
	// Browser opens the session used for a run. Defaults to a static browser.
	Browser fetcher.Browser

	// NavigationTimeout bounds the initial load of the start URL.
	NavigationTimeout time.Duration

	// PageTimeout bounds each page turn after a next-control click.
	PageTimeout time.Duration

	// PageLimit is the number of page turns used when Run is given no limit.
	PageLimit int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		NavigationTimeout: DefaultNavigationTimeout,
		PageTimeout:       DefaultPageTimeout,
		PageLimit:         DefaultPageLimit,
	}
}

// Option configures a Scraper.
type Option func(*Config)

// WithBrowser sets the browser sessions are opened from.
func WithBrowser(b fetcher.Browser) Option {
	return func(c *Config) {
		c.Browser = b
	}
}

// WithNavigationTimeout sets the timeout for loading the start URL.
func WithNavigationTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.NavigationTimeout = d
	}
}

// WithPageTimeout sets the timeout for each page turn.
func WithPageTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.PageTimeout = d
	}
}

// WithPageLimit sets the default number of page turns.
func WithPageLimit(n int) Option {
	return func(c *Config) {
		c.PageLimit = n
	}
}
