package fetcher

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/geoscene/internal/geojson"
)

// ErrFetch marks a network or HTTP failure while retrieving a document, as
// opposed to the structural errors a malformed body produces.
var ErrFetch = eris.New("fetcher: fetch failed")

// Options configures a Client.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	RateLimiters map[string]*rate.Limiter
}

// Client fetches GeoJSON documents over HTTP with retry and per-host rate
// limiting.
type Client struct {
	client   *http.Client
	opts     Options
	limiters map[string]*rate.Limiter
	fallback *rate.Limiter
}

// NewClient creates a Client with the given options.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "geoscene/1.0"
	}
	limiters := make(map[string]*rate.Limiter)
	for k, v := range opts.RateLimiters {
		limiters[k] = v
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:     opts,
		limiters: limiters,
		fallback: rate.NewLimiter(20, 20),
	}
}

var defaultClient = NewClient(Options{})

// FetchJSON retrieves and parses a GeoJSON document using a shared default
// client.
func FetchJSON(ctx context.Context, rawURL string) (*geojson.Document, error) {
	return defaultClient.FetchJSON(ctx, rawURL)
}

// FetchJSON retrieves the document at rawURL and parses it as GeoJSON.
// Network and HTTP-status failures wrap ErrFetch; body parse failures carry
// the geojson package's errors instead.
func (c *Client) FetchJSON(ctx context.Context, rawURL string) (*geojson.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(ErrFetch, err.Error())
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(ErrFetch, err.Error())
	}

	return geojson.Parse(body)
}

func (c *Client) limiterFor(u *url.URL) *rate.Limiter {
	if lim, ok := c.limiters[u.Host]; ok {
		return lim
	}
	return c.fallback
}

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := range c.opts.MaxRetries {
		if err := c.limiterFor(req.URL).Wait(ctx); err != nil {
			return nil, eris.Wrap(ErrFetch, err.Error())
		}

		cloned := req.Clone(ctx)
		resp, err := c.client.Do(cloned)
		if err != nil {
			lastErr = err
			zap.L().Warn("http request failed, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http %d from %s", resp.StatusCode, req.URL.String())
			zap.L().Warn("retryable http status",
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, eris.Wrapf(ErrFetch, "http %d from %s", resp.StatusCode, req.URL.String())
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = eris.New("no attempts made")
	}
	return nil, eris.Wrapf(ErrFetch, "all retries exhausted: %v", lastErr)
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	base := time.Second
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
