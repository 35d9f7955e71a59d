// Package rod fetches pages through a headless Chrome browser, for
// knowledge-base sites whose navigation is built by JavaScript.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of pages rendered before the browser is
// restarted. Chrome's memory baseline grows under sustained load.
const DefaultMaxPages = 75

// DefaultFetchTimeout bounds one page render when the context has no deadline.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements officebuddy.Fetcher at compile time.
var _ officebuddy.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout  time.Duration
	maxPages int64

	mu       sync.Mutex
	cur      *instance
	draining map[*instance]struct{}
	pages    atomic.Int64
	closed   atomic.Bool
}

// instance is one launched browser and the number of renders using it.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	active   int
}

func (in *instance) close() error {
	err := in.browser.Close()
	in.launcher.Kill()
	return err
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each page render.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are rendered before the browser restarts.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
		draining: make(map[*instance]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}

	in, err := launch()
	if err != nil {
		return nil, err
	}
	f.cur = in
	return f, nil
}

// Fetch navigates to url, waits for the load event and returns the
// rendered document.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, ok := ctx.Deadline(); !ok && f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	in, err := f.acquire()
	if err != nil {
		return "", err
	}
	defer f.release(in)

	page, err := in.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", ctxErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", ctxErr(ctx, err)
	}
	html, err := page.HTML()
	if err != nil {
		return "", ctxErr(ctx, err)
	}

	f.pages.Add(1)
	return html, nil
}

// Close shuts down every browser, including ones still draining after a
// restart. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.cur != nil {
		err = f.cur.close()
		f.cur = nil
	}
	for in := range f.draining {
		_ = in.close()
		delete(f.draining, in)
	}
	return err
}

// LauncherPID returns the process ID of the current browser launcher, or 0.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cur == nil {
		return 0
	}
	return f.cur.launcher.PID()
}

// acquire returns the live browser for one render, restarting it once
// maxPages renders have been served. The replaced browser keeps serving
// the renders already using it and is closed when the last one releases
// it. A failed restart keeps the old browser.
func (f *Fetcher) acquire() (*instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed.Load() || f.cur == nil {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "fetcher is closed")
	}

	if f.maxPages > 0 && f.pages.Load() >= f.maxPages {
		if in, err := launch(); err == nil {
			old := f.cur
			f.cur = in
			f.pages.Store(0)
			if old.active == 0 {
				_ = old.close()
			} else {
				f.draining[old] = struct{}{}
			}
		}
	}

	f.cur.active++
	return f.cur, nil
}

func (f *Fetcher) release(in *instance) {
	f.mu.Lock()
	defer f.mu.Unlock()

	in.active--
	if in.active > 0 {
		return
	}
	if _, ok := f.draining[in]; ok {
		delete(f.draining, in)
		_ = in.close()
	}
}

// Draining reports how many replaced browsers are still finishing renders.
func (f *Fetcher) Draining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.draining)
}

// launch starts a browser with flags that keep background pages responsive.
func launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{browser: browser, launcher: l}, nil
}

// ctxErr prefers the context's error so callers can detect cancellation.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
