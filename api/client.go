package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Version is the client version reported in the User-Agent header
const Version = "1.0"

// DefaultMaxAttempts is the total number of tries for a request hitting a transient transport failure
const DefaultMaxAttempts = 5

// Hosts holds the two backend base URLs
type Hosts struct {
	BaseURL string
	CDNURL  string
}

// Client talks to the morkato REST backend
type Client struct {
	hosts       Hosts
	logger      zerolog.Logger
	userAgent   string
	timeout     time.Duration
	maxAttempts int
	backoff     func(attempt int) time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	custom      *http.Client

	mu      sync.RWMutex
	session *http.Client
}

// NewClient creates a new, unconnected client. Call StaticLogin before issuing requests.
func NewClient(hosts Hosts, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if hosts.BaseURL == "" {
		return nil, fmt.Errorf("morkato API URL is required")
	}
	if hosts.CDNURL == "" {
		return nil, fmt.Errorf("morkato CDN URL is required")
	}
	hosts.BaseURL = strings.TrimRight(hosts.BaseURL, "/")
	hosts.CDNURL = strings.TrimRight(hosts.CDNURL, "/")

	c := &Client{
		hosts:       hosts,
		logger:      logger,
		userAgent:   defaultUserAgent(),
		timeout:     30 * time.Second,
		maxAttempts: DefaultMaxAttempts,
		backoff:     linearBackoff,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func defaultUserAgent() string {
	return fmt.Sprintf("morkato (https://github.com/morkato/morkato-Bot %s) Go/%s net/http",
		Version, strings.TrimPrefix(runtime.Version(), "go"))
}

// linearBackoff waits 1s, 3s, 5s, 7s... with no jitter
func linearBackoff(attempt int) time.Duration {
	return time.Duration(1+2*attempt) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Hosts returns the configured base URLs
func (c *Client) Hosts() Hosts {
	return c.hosts
}

// StaticLogin opens the shared connection pool. Calling it twice is a no-op.
func (c *Client) StaticLogin() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return
	}
	if c.custom != nil {
		c.session = c.custom
		return
	}
	c.session = &http.Client{
		Timeout: c.timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	c.logger.Debug().Str("url", c.hosts.BaseURL).Msg("Opened morkato connection pool")
}

// Close releases the connection pool. Requests fail with ErrNotConnected afterwards.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	if c.session != c.custom {
		c.session.CloseIdleConnections()
	}
	c.session = nil
}

// Connected reports whether StaticLogin has been called without a matching Close
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// Route builds a route against the API host
func (c *Client) Route(method, path string, params Params) (*Route, error) {
	return NewRoute(c.hosts.BaseURL, method, path, params)
}

// ResolveCDN turns a cdn:// reference into an absolute CDN URL
func (c *Client) ResolveCDN(ref string) (string, error) {
	return FromCDN(c.hosts.CDNURL, ref)
}

type requestBody struct {
	data        []byte
	contentType string
}

// Request sends route with payload encoded as JSON (nil for no body) and
// decodes the response into out (nil to discard).
func (c *Client) Request(ctx context.Context, route *Route, payload any, out any) error {
	var body *requestBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = &requestBody{data: data, contentType: "application/json; charset=utf-8"}
	}
	return c.do(ctx, route, body, out)
}

// RequestRaw sends route with an opaque body.
func (c *Client) RequestRaw(ctx context.Context, route *Route, data []byte, contentType string, out any) error {
	return c.do(ctx, route, &requestBody{data: data, contentType: contentType}, out)
}

func (c *Client) do(ctx context.Context, route *Route, body *requestBody, out any) error {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil {
		return ErrNotConnected
	}

	for attempt := 0; ; attempt++ {
		err := c.attempt(ctx, session, route, body, out, attempt)
		if err == nil {
			return nil
		}
		if !isTransient(err) || attempt >= c.maxAttempts-1 {
			return err
		}

		delay := c.backoff(attempt)
		c.logger.Warn().
			Err(err).
			Str("method", route.Method).
			Str("url", route.URL).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Transient connection failure, retrying")
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (c *Client) attempt(ctx context.Context, session *http.Client, route *Route, body *requestBody, out any, attempt int) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body.data)
	}
	req, err := http.NewRequestWithContext(ctx, route.Method, route.URL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil && body.contentType != "" {
		req.Header.Set("Content-Type", body.contentType)
	}

	resp, err := session.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", route, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	isJSON := isJSONResponse(resp)

	c.logger.Debug().
		Str("method", route.Method).
		Str("url", route.URL).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int("attempt", attempt+1).
		Msg("Morkato API request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeBody(raw, isJSON, out)
	}
	c.logger.Debug().Str("request_id", requestID).Bytes("body", raw).Msg("Morkato API error response")
	return classify(resp, raw, isJSON)
}

func isJSONResponse(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func decodeBody(raw []byte, isJSON bool, out any) error {
	if out == nil {
		return nil
	}
	if s, ok := out.(*string); ok && !isJSON {
		*s = string(raw)
		return nil
	}
	if !isJSON {
		if len(bytes.TrimSpace(raw)) == 0 {
			return ErrEmptyResponse
		}
		return fmt.Errorf("expected a JSON response, got %q", truncate(string(raw), 64))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// classify maps a non-2xx response to the error taxonomy
func classify(resp *http.Response, raw []byte, isJSON bool) error {
	var envelope errorEnvelope
	if isJSON {
		// a malformed error body still yields an error carrying the raw text
		_ = json.Unmarshal(raw, &envelope)
	}
	base := newHTTPError(resp, envelope.Extra, raw)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		var tag string
		if envelope.Model != nil {
			tag = *envelope.Model
		}
		model, err := ParseModelType(tag)
		if err != nil {
			return &UnknownModelError{HTTPError: base, Tag: tag}
		}
		if model == ModelUser {
			return &UserNotFoundError{HTTPError: base}
		}
		return &NotFoundError{HTTPError: base, Model: model}
	case resp.StatusCode >= 500:
		return &ServerError{HTTPError: base}
	}
	return base
}

// isTransient reports whether err is one of the connection-level failures
// worth retrying: connection reset by peer or connection refused.
func isTransient(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return false
	}
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
