package fetch

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Fetcher is the fetch collaborator consumed by the scraper.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// HTTPFetcher fetches pages over HTTP, paces them per host, extracts their main text with
// platform-aware selectors and optionally re-renders thin pages in a browser.
type HTTPFetcher struct {
	opts     *Options
	limiter  *HostLimiter
	renderer Renderer
	logger   *zap.Logger
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithLimiter sets the per-host limiter.
func WithLimiter(l *HostLimiter) HTTPFetcherOption {
	return func(f *HTTPFetcher) { f.limiter = l }
}

// WithRenderer enables the browser fallback for pages with too little text.
func WithRenderer(r Renderer) HTTPFetcherOption {
	return func(f *HTTPFetcher) { f.renderer = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewHTTPFetcher returns a fetcher using opts (nil means DefaultOptions) and the default
// host pacing.
func NewHTTPFetcher(opts *Options, options ...HTTPFetcherOption) *HTTPFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	f := &HTTPFetcher{
		opts:    opts,
		limiter: NewHostLimiter(DefaultHostRate, DefaultHostBurst),
		logger:  zap.NewNop(),
	}
	for _, o := range options {
		o(f)
	}
	return f
}

// Fetch retrieves url and fills Result.Text. Non-2xx responses return an *Error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	if f.limiter != nil {
		if err := f.limiter.WaitURL(ctx, url); err != nil {
			return nil, &Error{URL: url, Message: "rate limiter wait aborted", Cause: err}
		}
	}

	res, err := URL(ctx, url, f.opts)
	if err != nil {
		return res, err
	}

	platform := DetectPlatform(url)
	selectors := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	res.Text, err = ExtractMainText(res.HTML, selectors, noise...)
	if err != nil {
		return res, &Error{URL: url, Message: "failed to extract text", Cause: err}
	}

	if f.renderer != nil && ShouldUseBrowser(res.Text) {
		f.rerender(ctx, res, selectors, noise)
	}
	return res, nil
}

// rerender replaces res content with the browser rendering when it yields more text.
// Browser failures keep the HTTP result.
func (f *HTTPFetcher) rerender(ctx context.Context, res *Result, selectors, noise []string) {
	html, err := f.renderer.Render(ctx, res.URL)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			f.logger.Warn("browser fallback failed", zap.String("url", res.URL), zap.Error(err))
		}
		return
	}
	text, err := ExtractMainText(html, selectors, noise...)
	if err != nil || len(text) <= len(res.Text) {
		return
	}
	res.HTML = html
	res.Text = text
	res.Rendered = true
	f.logger.Debug("using rendered page", zap.String("url", res.URL), zap.Int("text_len", len(text)))
}
