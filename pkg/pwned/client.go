package pwned

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client queries the k-anonymity range endpoint of a Pwned Passwords API.
// Only the 5-character hash prefix is ever sent. It is safe for concurrent use.
type Client struct {
	client     *http.Client
	baseURL    string
	timeout    time.Duration
	maxRetries int
	backoff    BackoffStrategy
	userAgent  string
	padding    bool
	observer   Observer
}

// NewClient creates a client for DefaultBaseURL unless WithBaseURL says otherwise.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:    DefaultBaseURL,
		timeout:    10 * time.Second,
		maxRetries: 2,
		backoff:    DefaultBackoffStrategy(),
		userAgent:  "passcheck/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidBaseURL)
	}
	c.baseURL = strings.TrimSuffix(c.baseURL, "/")

	return c, nil
}

// Range returns every record whose hash starts with prefix.
// Transient failures are retried with backoff. Any failure wraps
// ErrLookupFailed plus one of ErrInvalidPrefix, ErrTimeout, ErrTransport,
// ErrUnexpectedStatus or ErrMalformedResponse.
func (c *Client) Range(ctx context.Context, prefix string) ([]Record, error) {
	if !ValidPrefix(prefix) {
		return nil, fmt.Errorf("%w: %w: %q", ErrLookupFailed, ErrInvalidPrefix, prefix)
	}
	prefix = strings.ToUpper(prefix)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrLookupFailed, contextError(ctx.Err()))
			case <-time.After(c.backoff.NextInterval(attempt)):
			}
		}

		records, result, err := c.attempt(ctx, prefix)
		result.Attempt = attempt + 1
		if c.observer != nil {
			c.observer(result)
		}

		if err == nil {
			return records, nil
		}
		lastErr = err

		if ctx.Err() != nil || !isRetryable(result.StatusCode, err) {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrLookupFailed, lastErr)
}

func (c *Client) attempt(ctx context.Context, prefix string) ([]Record, LookupResult, error) {
	start := time.Now()
	result := LookupResult{Prefix: prefix}
	fail := func(err error) ([]Record, LookupResult, error) {
		result.Duration = time.Since(start)
		result.Error = err
		return nil, result, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrTransport, err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/plain")
	if c.padding {
		req.Header.Set("Add-Padding", "true")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return fail(fmt.Errorf("%w: %w", ErrTimeout, err))
		}
		return fail(fmt.Errorf("%w: %w", ErrTransport, err))
	}
	defer func() { _ = resp.Body.Close() }()
	result.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024*64))
		return fail(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}

	records, err := ParseRange(resp.Body)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return fail(fmt.Errorf("%w: %w", ErrTimeout, err))
		}
		return fail(err)
	}

	result.Duration = time.Since(start)
	result.Records = len(records)
	return records, result, nil
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

// isRetryable reports whether a failed attempt may succeed if repeated.
func isRetryable(statusCode int, err error) bool {
	if errors.Is(err, ErrMalformedResponse) {
		return false
	}
	if statusCode == 0 {
		return errors.Is(err, ErrTimeout) || errors.Is(err, ErrTransport)
	}

	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return true
	}
	return statusCode >= 500
}
