// Package fetcher provides the chromedp-backed browser used by the CLI and
// the HTTP server. It drives one headless Chrome tab per scraper run, with
// optional stealth patches for sites that reject automation.
package fetcher

import (
	"time"

	"github.com/jmylchreest/itfcal/pkg/fetcher"
)

// Config holds configuration for the dynamic browser.
type Config struct {
	UserAgent      string
	Stealth        bool          // Enable anti-bot detection evasion
	ChromePath     string        // Explicit Chrome binary; discovered when empty
	ConsentTimeout time.Duration // Budget for the best-effort consent click
	ProbeTimeout   time.Duration // Budget for locating the next-page control
	Debug          bool          // Forward chromedp protocol logs to the debug logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:      fetcher.DefaultUserAgent,
		ConsentTimeout: 5 * time.Second,
		ProbeTimeout:   10 * time.Second,
	}
}

// networkSettledEvent is the lifecycle event fired once no more than two
// network connections have been active for 500ms.
const networkSettledEvent = "networkAlmostIdle"
