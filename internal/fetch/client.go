package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
)

const (
	defaultHTTPTimeout   = 30 * time.Second
	defaultRetryBackoff  = 300 * time.Millisecond
	defaultRetryMaxDelay = 10 * time.Second
	defaultRetryAttempts = 3
	defaultUserAgent     = "Mozilla/5.0 (compatible; asset-downloader/1.0)"
)

// ErrTooLarge reports a download that exceeded the configured size ceiling.
var ErrTooLarge = errors.New("download exceeds size limit")

// Policy controls which failures are retried and how long to wait between
// attempts. The zero value is normalized to the package defaults.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
	MaxBackoff  time.Duration
	Statuses    []int
}

// DefaultPolicy returns the retry policy used when none is supplied:
// 3 attempts, 300ms initial backoff doubling up to 10s, retrying on
// 429 and the common 5xx gateway statuses.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: defaultRetryAttempts,
		Backoff:     defaultRetryBackoff,
		MaxBackoff:  defaultRetryMaxDelay,
		Statuses:    []int{429, 500, 502, 503, 504},
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = defaultRetryMaxDelay
	}
	if len(p.Statuses) == 0 {
		p.Statuses = DefaultPolicy().Statuses
	}
	return p
}

func (p Policy) retryable(status int) bool {
	for _, candidate := range p.Statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Status     string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return "fetch: http " + e.Status
	}
	return fmt.Sprintf("fetch: http %d", e.StatusCode)
}

// Client issues GET and HEAD requests with retry, a shared User-Agent, and
// an optional TLS verification bypass.
type Client struct {
	httpClient *http.Client
	userAgent  string
	policy     Policy
	sleeper    func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(agent); trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// WithPolicy replaces the retry policy wholesale.
func WithPolicy(policy Policy) Option {
	return func(c *Client) {
		c.policy = policy.normalized()
	}
}

// WithTLSVerification disables certificate verification when verify is false.
func WithTLSVerification(verify bool) Option {
	return func(c *Client) {
		if verify {
			return
		}
		transport, ok := http.DefaultTransport.(*http.Transport)
		if !ok {
			transport = &http.Transport{}
		}
		cloned := transport.Clone()
		cloned.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		c.httpClient.Transport = cloned
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// New constructs a client with the supplied options applied in order.
func New(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		userAgent:  defaultUserAgent,
		policy:     DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// NewFromConfig constructs a client wired to the [http] config section.
// Extra options are applied after the config-derived ones, so callers can
// override single knobs such as TLS verification per run.
func NewFromConfig(cfg *config.Config, opts ...Option) *Client {
	options := []Option{
		WithTimeout(cfg.HTTPTimeout()),
		WithUserAgent(cfg.HTTP.UserAgent),
		WithPolicy(Policy{
			MaxAttempts: cfg.HTTP.RetryMaxAttempts,
			Backoff:     cfg.RetryBackoff(),
			MaxBackoff:  defaultRetryMaxDelay,
			Statuses:    append([]int(nil), cfg.HTTP.RetryStatuses...),
		}),
		WithTLSVerification(cfg.HTTP.VerifyTLS),
	}
	options = append(options, opts...)
	return New(options...)
}

// Download streams rawURL into dest. The body is written to dest + ".part"
// first and renamed into place once complete, so a failed or oversized
// download never leaves a partial file at dest. maxBytes <= 0 means no limit.
func (c *Client) Download(ctx context.Context, rawURL, dest string, maxBytes int64) error {
	resp, err := c.doRetry(ctx, http.MethodGet, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return writePartFile(resp.Body, dest, maxBytes)
}

// Get fetches rawURL and returns the response body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.doRetry(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	return body, nil
}

// Resolve follows redirects from rawURL and reports the final URL. A HEAD
// request is used since only the redirect chain is of interest.
func (c *Client) Resolve(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.doRetry(ctx, http.MethodHead, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String(), nil
	}
	return rawURL, nil
}

func (c *Client) doRetry(ctx context.Context, method, rawURL string) (*http.Response, error) {
	attempts := c.policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.doOnce(ctx, method, rawURL)
		if err == nil {
			return resp, nil
		}

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return nil, err
		}
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return nil, fmt.Errorf("fetch %s: failed after %d attempts: %w", rawURL, attempts, lastErr)
}

func (c *Client) doOnce(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     strings.TrimSpace(resp.Status),
			RetryAfter: retryAfter,
		}
	}
	return resp, nil
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts {
		return 0, false
	}
	if err == nil || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if !c.policy.retryable(statusErr.StatusCode) {
			return 0, false
		}
		if statusErr.RetryAfter > 0 {
			return c.capDelay(statusErr.RetryAfter), true
		}
		return c.backoffDelay(attempt), true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// url.Error often wraps net.Error types, but keep a conservative retry for
		// non-context errors anyway.
		if urlErr.Timeout() {
			return c.backoffDelay(attempt), true
		}
	}

	return 0, false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := c.policy.Backoff
	if base <= 0 {
		return 0
	}

	// attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > c.policy.MaxBackoff/2 {
			delay = c.policy.MaxBackoff
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	maxDelay := c.policy.MaxBackoff
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx == nil {
		return errors.New("fetch retry: nil context")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

func writePartFile(body io.Reader, dest string, maxBytes int64) error {
	if dir := filepath.Dir(dest); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("fetch: create destination dir: %w", err)
		}
	}
	part := dest + ".part"
	out, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("fetch: create partial file: %w", err)
	}

	_, copyErr := copyLimited(out, body, maxBytes)
	closeErr := out.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(part)
		return copyErr
	}

	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return fmt.Errorf("fetch: finalize download: %w", err)
	}
	return nil
}

func copyLimited(dst io.Writer, src io.Reader, maxBytes int64) (int64, error) {
	if maxBytes <= 0 {
		return io.Copy(dst, src)
	}
	written, err := io.Copy(dst, io.LimitReader(src, maxBytes+1))
	if err != nil {
		return written, err
	}
	if written > maxBytes {
		return written, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, maxBytes)
	}
	return written, nil
}
