// Package fetch downloads notice pages with bounded retries and an optional
// politeness rate limit shared across all sites.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/notice-tracker/internal/metrics"
	"github.com/donaldgifford/notice-tracker/pkg/logger"
)

// ErrBadStatus is returned when a page responds with a non-2xx status.
var ErrBadStatus = errors.New("unexpected response status")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

// Fetcher downloads one page and returns its body.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

var _ Fetcher = (*Client)(nil)

// Client fetches pages over HTTP. Each call makes up to attempts tries with
// a fixed delay between them; each try gets its own timeout.
type Client struct {
	client     *http.Client
	userAgent  string
	timeout    time.Duration
	attempts   int
	retryDelay time.Duration
	verifyTLS  bool
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The TLS verification
// setting is ignored when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithAttempts sets how many times a fetch is tried before giving up.
func WithAttempts(n int) Option {
	return func(c *Client) {
		c.attempts = n
	}
}

// WithRetryDelay sets the fixed pause between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithVerifyTLS turns certificate verification on. Verification is off by
// default because several monitored boards serve broken certificates.
func WithVerifyTLS(verify bool) Option {
	return func(c *Client) {
		c.verifyTLS = verify
	}
}

// WithLimiter injects a rate limiter applied before every attempt.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a fetch client.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent:  defaultUserAgent,
		timeout:    20 * time.Second,
		attempts:   3,
		retryDelay: 5 * time.Second,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Transport: newTransport(c.verifyTLS)}
	}
	return c
}

func newTransport(verifyTLS bool) *http.Transport {
	t, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		t = &http.Transport{}
	} else {
		t = t.Clone()
	}
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: !verifyTLS} //nolint:gosec // deliberate, see WithVerifyTLS
	return t
}

// Fetch downloads the page at pageURL and returns its body. It retries
// transient failures up to the configured attempt count, waiting retryDelay
// between tries but not after the last one. The context cancels both
// in-flight requests and the waits between them.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter wait: %w", err)
			}
		}

		metrics.FetchAttemptsTotal.Inc()

		body, err := c.fetchOnce(ctx, pageURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		c.logger.Warn("fetch attempt failed",
			"url", pageURL,
			"attempt", attempt,
			"attempts", c.attempts,
			"error", err,
		)

		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}

	metrics.FetchFailuresTotal.Inc()
	return nil, fmt.Errorf("fetching %s after %d attempts: %w", pageURL, c.attempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, pageURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	return body, nil
}
