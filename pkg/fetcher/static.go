package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/itfcal/internal/logger"
	"github.com/jmylchreest/itfcal/internal/version"
)

// StaticConfig holds configuration for the static browser.
type StaticConfig struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int // Response bytes kept per page; 0 uses DefaultMaxBodySize
}

// DefaultMaxBodySize caps a single calendar page. Colly's own default of
// 10 MB is too small for a full season rendered server-side.
const DefaultMaxBodySize = 64 * 1024 * 1024

// DefaultStaticConfig returns sensible defaults. The user agent carries the
// itfcal build so plain HTTP requests are attributable.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent: DefaultUserAgent + " " + version.UserAgentSuffix(),
		Timeout:     60 * time.Second,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// staticNextSelectors are the next-page controls that can be followed by URL.
var staticNextSelectors = []string{
	`a[rel="next"]`,
	`.pagination .next:not(.disabled)`,
}

// StaticBrowser fetches pages over plain HTTP with Colly. It cannot run
// scripts or click buttons, so pagination only follows next-page anchors.
type StaticBrowser struct {
	config StaticConfig
}

// NewStatic creates a new static browser.
func NewStatic(cfg StaticConfig) *StaticBrowser {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultStaticConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultStaticConfig().Timeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	return &StaticBrowser{config: cfg}
}

// Open returns a new static session. No process is started.
func (b *StaticBrowser) Open(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNavigationFailure, err)
	}
	logger.Debug("static session opened", "user_agent", b.config.UserAgent)
	return &staticSession{config: b.config}, nil
}

// Type returns the browser type.
func (b *StaticBrowser) Type() string {
	return "static"
}

type staticSession struct {
	config  StaticConfig
	url     string
	html    string
	nextURL string
	closed  bool
}

func (s *staticSession) Navigate(ctx context.Context, target string, timeout time.Duration) error {
	return s.visit(ctx, target, timeout)
}

// DismissConsent is a no-op: consent banners only matter to scripted pages.
func (s *staticSession) DismissConsent(ctx context.Context) error {
	return nil
}

func (s *staticSession) HTML(ctx context.Context) (string, error) {
	if s.url == "" {
		return "", errors.New("no page loaded")
	}
	return s.html, nil
}

func (s *staticSession) HasNext(ctx context.Context) (bool, error) {
	s.nextURL = ""
	if s.html == "" {
		return false, nil
	}

	next, found, err := FindNextLink(s.html, s.url)
	if err != nil {
		return false, err
	}
	if found {
		s.nextURL = next
	}
	return found, nil
}

func (s *staticSession) ClickNext(ctx context.Context, timeout time.Duration) error {
	if s.nextURL == "" {
		return ErrNoNextPage
	}
	next := s.nextURL
	s.nextURL = ""
	return s.visit(ctx, next, timeout)
}

func (s *staticSession) Close() error {
	s.closed = true
	s.html = ""
	logger.Debug("static session closed", "last_url", s.url)
	return nil
}

// visit fetches target with a fresh collector and makes it the current page.
func (s *staticSession) visit(ctx context.Context, target string, timeout time.Duration) error {
	if s.closed {
		return fmt.Errorf("%w: session closed", ErrNavigationFailure)
	}
	if timeout == 0 {
		timeout = s.config.Timeout
	}

	visitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := colly.NewCollector(
		colly.UserAgent(s.config.UserAgent),
		colly.AllowURLRevisit(),
		colly.StdlibContext(visitCtx),
		colly.MaxBodySize(s.config.MaxBodySize),
	)
	c.SetRequestTimeout(timeout)

	var (
		body     string
		finalURL string
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
		finalURL = r.Request.URL.String()
		logger.Debug("static response received",
			"url", finalURL,
			"status", r.StatusCode,
			"size", humanize.Bytes(uint64(len(r.Body))))
		if len(r.Body) >= s.config.MaxBodySize {
			logger.Warn("static response truncated",
				"url", finalURL,
				"limit", humanize.Bytes(uint64(s.config.MaxBodySize)))
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
		logger.Debug("static fetch error", "url", target, "status", status, "error", err)
	})

	if err := c.Visit(target); err != nil {
		return classifyError(visitCtx, err)
	}
	if fetchErr != nil {
		return classifyError(visitCtx, fetchErr)
	}

	s.url = finalURL
	if s.url == "" {
		s.url = target
	}
	s.html = body
	return nil
}

// classifyError maps a transport error onto the navigation error taxonomy.
func classifyError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrNavigationTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNavigationFailure, err)
}

// FindNextLink resolves the URL of the next-page anchor in html.
// Controls marked disabled and fragment or javascript links are ignored.
func FindNextLink(html string, baseURL string) (string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false, err
	}

	for _, sel := range staticNextSelectors {
		var nextURL string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, ok := s.Attr("href")
			if !ok {
				href, ok = s.Find("a[href]").First().Attr("href")
			}
			if !ok || href == "" {
				return true
			}
			if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
				return true
			}

			linkURL, err := url.Parse(href)
			if err != nil {
				return true
			}
			if !linkURL.IsAbs() {
				linkURL = base.ResolveReference(linkURL)
			}
			nextURL = linkURL.String()
			return false
		})
		if nextURL != "" {
			return nextURL, true, nil
		}
	}

	return "", false, nil
}
