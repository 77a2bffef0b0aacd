package api

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses the given client instead of building a pooled one at StaticLogin.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.custom = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxAttempts sets the total number of attempts for transient transport failures.
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts >= 1 {
			c.maxAttempts = attempts
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithBackoff replaces the delay schedule between attempts.
func WithBackoff(backoff func(attempt int) time.Duration) Option {
	return func(c *Client) {
		if backoff != nil {
			c.backoff = backoff
		}
	}
}
