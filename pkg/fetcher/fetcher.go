// Package fetcher defines the browser-session abstraction used to walk a
// paginated calendar. Implement Browser to plug in a different engine; the
// CLI ships a chromedp implementation, this package ships a static one.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Browser opens sessions. Each scraper run opens exactly one session.
type Browser interface {
	// Open starts a session. The caller must Close it.
	Open(ctx context.Context) (Session, error)

	// Type returns a string identifying the browser type (e.g., "static", "dynamic").
	Type() string
}

// Session is one browser tab driven strictly sequentially.
type Session interface {
	// Navigate loads url and waits for the network to settle.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// DismissConsent clicks a cookie-consent control if one is present.
	// Callers treat any error as cosmetic.
	DismissConsent(ctx context.Context) error

	// HTML returns the rendered markup of the current page.
	HTML(ctx context.Context) (string, error)

	// HasNext reports whether a "next page" control is present.
	HasNext(ctx context.Context) (bool, error)

	// ClickNext activates the control found by HasNext and waits for the
	// resulting page to settle.
	ClickNext(ctx context.Context, timeout time.Duration) error

	// Close releases the session and its browser.
	Close() error
}

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, fetcher.ErrNavigationTimeout).
var (
	// ErrNavigationTimeout indicates the page did not settle within its budget.
	ErrNavigationTimeout = errors.New("navigation timeout")
	// ErrNavigationFailure indicates a load or click failed.
	ErrNavigationFailure = errors.New("navigation failure")
	// ErrNoNextPage is returned by ClickNext when HasNext found nothing.
	ErrNoNextPage = errors.New("no next page control")
)

// Selector is a query for a page control.
type Selector struct {
	Query string
	XPath bool // Query is an XPath expression rather than CSS
}

// NextSelectors are tried in order; the first match is the next-page control.
var NextSelectors = []Selector{
	{Query: `a[rel="next"]`},
	{Query: `button[aria-label*="Next"]`},
	{Query: `//button[contains(normalize-space(.), "Next")]`, XPath: true},
	{Query: `.pagination .next:not(.disabled)`},
}

// ConsentSelectors locate a cookie-consent accept button.
var ConsentSelectors = []Selector{
	{Query: `button[aria-label*="Accept"]`},
	{Query: `//button[contains(normalize-space(.), "Accept")]`, XPath: true},
}

// Chrome user agent for better compatibility
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
