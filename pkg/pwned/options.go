package pwned

import (
	"net/http"
	"time"
)

// DefaultBaseURL is the public Pwned Passwords API.
const DefaultBaseURL = "https://api.pwnedpasswords.com"

// LookupResult describes one HTTP attempt made by Range.
type LookupResult struct {
	Prefix     string
	Attempt    int
	StatusCode int
	Records    int
	Duration   time.Duration
	Error      error
}

// Observer is called after each attempt, for metrics or logging.
type Observer func(result LookupResult)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another range API, e.g. a mirror or a
// test server. The "/range/{prefix}" path is appended to it.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout bounds every attempt. Default is 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
// Default is 2. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff replaces the retry delay strategy.
func WithBackoff(strategy BackoffStrategy) Option {
	return func(c *Client) {
		if strategy != nil {
			c.backoff = strategy
		}
	}
}

// WithHTTPClient sets the HTTP client used for range requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithUserAgent overrides the User-Agent header. Empty values are ignored.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithPadding asks the API to pad responses with fake zero-count records so
// the response size does not leak the prefix popularity.
func WithPadding(enabled bool) Option {
	return func(c *Client) {
		c.padding = enabled
	}
}

// WithObserver registers a callback invoked after every range request attempt.
func WithObserver(fn Observer) Option {
	return func(c *Client) {
		c.observer = fn
	}
}
