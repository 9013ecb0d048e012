package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/itfcal/internal/logger"
	"github.com/jmylchreest/itfcal/pkg/fetcher"
)

// DynamicBrowser launches headless Chrome through chromedp.
// It implements fetcher.Browser.
type DynamicBrowser struct {
	config Config
}

// NewDynamicBrowser creates a browser factory. Chrome is not started until Open.
func NewDynamicBrowser(cfg Config) *DynamicBrowser {
	defaults := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.ConsentTimeout == 0 {
		cfg.ConsentTimeout = defaults.ConsentTimeout
	}
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = defaults.ProbeTimeout
	}
	if cfg.ChromePath == "" {
		cfg.ChromePath = FindChromePath()
	}

	logger.Debug("dynamic browser configured",
		"stealth", cfg.Stealth,
		"chrome", cfg.ChromePath,
		"user_agent", cfg.UserAgent)

	return &DynamicBrowser{config: cfg}
}

// Open launches Chrome and opens a single tab.
func (b *DynamicBrowser) Open(ctx context.Context) (fetcher.Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(b.config)...)

	ctxOpts := []chromedp.ContextOption{
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			logger.Debug("chromedp error", "msg", fmt.Sprintf(format, args...))
		}),
	}
	if b.config.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(func(format string, args ...interface{}) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}))
	}
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, ctxOpts...)

	s := &dynamicSession{
		ctx:    tabCtx,
		config: b.config,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}

	actions := []chromedp.Action{page.SetLifecycleEventsEnabled(true)}
	if b.config.Stealth {
		actions = append(actions, injectStealthScript())
	}
	actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		s.mainFrame = tree.Frame.ID
		return nil
	}))

	start := time.Now()
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		s.cancel()
		return nil, fmt.Errorf("%w: starting browser: %v", fetcher.ErrNavigationFailure, err)
	}
	logger.Debug("browser session opened", "startup", time.Since(start).Round(time.Millisecond))

	return s, nil
}

// Type returns the browser type.
func (b *DynamicBrowser) Type() string {
	return "dynamic"
}

type dynamicSession struct {
	ctx       context.Context
	cancel    context.CancelFunc
	config    Config
	mainFrame cdp.FrameID
	next      *cdp.Node
	closed    bool
}

// scoped derives a context from the tab with its own deadline that is also
// cancelled when the caller's ctx is.
func (s *dynamicSession) scoped(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(s.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return tctx, func() {
		stop()
		cancel()
	}
}

// listenSettled signals once the main frame reports the network as settled.
// The listener is removed when ctx is done.
func (s *dynamicSession) listenSettled(ctx context.Context) <-chan struct{} {
	settled := make(chan struct{}, 1)
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok || e.Name != networkSettledEvent {
			return
		}
		if s.mainFrame != "" && e.FrameID != s.mainFrame {
			return
		}
		select {
		case settled <- struct{}{}:
		default:
		}
	})
	return settled
}

func waitSettled(settled <-chan struct{}) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		select {
		case <-settled:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

func (s *dynamicSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if s.closed {
		return fmt.Errorf("%w: session closed", fetcher.ErrNavigationFailure)
	}
	tctx, cancel := s.scoped(ctx, timeout)
	defer cancel()

	start := time.Now()
	settled := s.listenSettled(tctx)
	err := chromedp.Run(tctx, chromedp.Navigate(url), waitSettled(settled))
	if err != nil {
		return classifyError(tctx, err)
	}

	logger.Debug("page settled", "url", url, "took", time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *dynamicSession) DismissConsent(ctx context.Context) error {
	tctx, cancel := s.scoped(ctx, s.config.ConsentTimeout)
	defer cancel()

	node, err := s.findFirst(tctx, fetcher.ConsentSelectors)
	if err != nil || node == nil {
		return err
	}
	return chromedp.Run(tctx, chromedp.MouseClickNode(node))
}

func (s *dynamicSession) HTML(ctx context.Context) (string, error) {
	tctx, cancel := s.scoped(ctx, s.config.ProbeTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(tctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading page markup: %w", err)
	}
	logger.Debug("page markup read", "size", humanize.Bytes(uint64(len(html))))
	return html, nil
}

func (s *dynamicSession) HasNext(ctx context.Context) (bool, error) {
	s.next = nil

	tctx, cancel := s.scoped(ctx, s.config.ProbeTimeout)
	defer cancel()

	node, err := s.findFirst(tctx, fetcher.NextSelectors)
	if err != nil {
		return false, err
	}
	s.next = node
	return node != nil, nil
}

func (s *dynamicSession) ClickNext(ctx context.Context, timeout time.Duration) error {
	if s.next == nil {
		return fetcher.ErrNoNextPage
	}
	node := s.next
	s.next = nil

	tctx, cancel := s.scoped(ctx, timeout)
	defer cancel()

	settled := s.listenSettled(tctx)
	if err := chromedp.Run(tctx, chromedp.MouseClickNode(node), waitSettled(settled)); err != nil {
		return classifyError(tctx, err)
	}
	return nil
}

func (s *dynamicSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := chromedp.Cancel(s.ctx)
	s.cancel()
	logger.Debug("browser session closed")

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}

// findFirst returns the first node matched by the selectors, trying them in
// order, or nil when none match. Queries do not wait for nodes to appear.
func (s *dynamicSession) findFirst(ctx context.Context, selectors []fetcher.Selector) (*cdp.Node, error) {
	for _, sel := range selectors {
		by := chromedp.ByQuery
		if sel.XPath {
			by = chromedp.BySearch
		}

		var nodes []*cdp.Node
		if err := chromedp.Run(ctx, chromedp.Nodes(sel.Query, &nodes, by, chromedp.AtLeast(0))); err != nil {
			return nil, fmt.Errorf("querying %q: %w", sel.Query, err)
		}
		if len(nodes) > 0 {
			logger.Debug("control found", "selector", sel.Query)
			return nodes[0], nil
		}
	}
	return nil, nil
}

// classifyError maps a chromedp failure onto the navigation error taxonomy.
func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", fetcher.ErrNavigationTimeout, err)
	}
	return fmt.Errorf("%w: %v", fetcher.ErrNavigationFailure, err)
}
