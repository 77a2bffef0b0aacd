//go:build !windows

package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyTransport fails the first len(failures) round trips with the given errors
type flakyTransport struct {
	mu       sync.Mutex
	failures []error
	calls    int
	next     http.RoundTripper
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if n <= len(f.failures) {
		return nil, f.failures[n-1]
	}
	return f.next.RoundTrip(req)
}

func connErr(errno syscall.Errno) error {
	return &net.OpError{Op: "read", Net: "tcp", Err: os.NewSyscallError("read", errno)}
}

func newRetryClient(t *testing.T, transport *flakyTransport, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "42"})
	}))
	t.Cleanup(server.Close)
	transport.next = http.DefaultTransport

	opts = append([]Option{WithHTTPClient(&http.Client{Transport: transport})}, opts...)
	client, err := NewClient(Hosts{BaseURL: server.URL, CDNURL: server.URL}, zerolog.Nop(), opts...)
	require.NoError(t, err)

	var sleeps []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	client.StaticLogin()
	t.Cleanup(client.Close)
	return client, &sleeps
}

func TestRetryOnConnectionReset(t *testing.T) {
	transport := &flakyTransport{failures: []error{connErr(syscall.ECONNRESET), connErr(syscall.ECONNRESET)}}
	client, sleeps := newRetryClient(t, transport)

	guild, err := client.FetchGuild(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, Snowflake(42), guild.ID)
	assert.Equal(t, 3, transport.calls)
	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second}, *sleeps)

	var total time.Duration
	for _, d := range *sleeps {
		total += d
	}
	assert.Equal(t, 4*time.Second, total)
}

func TestRetryOnConnectionRefused(t *testing.T) {
	transport := &flakyTransport{failures: []error{connErr(syscall.ECONNREFUSED)}}
	client, sleeps := newRetryClient(t, transport)

	_, err := client.FetchGuild(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 2, transport.calls)
	assert.Equal(t, []time.Duration{time.Second}, *sleeps)
}

func TestRetryExhausted(t *testing.T) {
	failures := make([]error, 10)
	for i := range failures {
		failures[i] = connErr(syscall.ECONNRESET)
	}
	transport := &flakyTransport{failures: failures}
	client, sleeps := newRetryClient(t, transport)

	_, err := client.FetchGuild(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.ECONNRESET))
	assert.Equal(t, 5, transport.calls)
	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second, 5 * time.Second, 7 * time.Second}, *sleeps)
}

func TestRetryMaxAttemptsOption(t *testing.T) {
	transport := &flakyTransport{failures: []error{connErr(syscall.ECONNRESET), connErr(syscall.ECONNRESET)}}
	client, _ := newRetryClient(t, transport, WithMaxAttempts(2))

	_, err := client.FetchGuild(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, 2, transport.calls)
}

func TestNoRetryOnOtherTransportErrors(t *testing.T) {
	transport := &flakyTransport{failures: []error{errors.New("tls: handshake failure")}}
	client, sleeps := newRetryClient(t, transport)

	_, err := client.FetchGuild(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handshake failure")
	assert.Equal(t, 1, transport.calls)
	assert.Empty(t, *sleeps)
}

func TestRetryStopsOnCancelledSleep(t *testing.T) {
	transport := &flakyTransport{failures: []error{connErr(syscall.ECONNRESET)}}
	client, _ := newRetryClient(t, transport)
	client.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchGuild(ctx, 42)
	require.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, transport.calls, 1)
}

func TestLinearBackoff(t *testing.T) {
	for attempt, want := range []time.Duration{time.Second, 3 * time.Second, 5 * time.Second, 7 * time.Second} {
		assert.Equal(t, want, linearBackoff(attempt))
	}
}

func TestRetryCustomBackoff(t *testing.T) {
	transport := &flakyTransport{failures: []error{connErr(syscall.ECONNRESET), connErr(syscall.ECONNREFUSED)}}
	client, sleeps := newRetryClient(t, transport, WithBackoff(func(attempt int) time.Duration {
		return time.Duration(attempt+1) * time.Millisecond
	}))

	_, err := client.FetchGuild(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, *sleeps)
}
