package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/hermes-client/pkg/config"
	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
)

// timeoutError satisfies net.Error with Timeout() == true.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// scriptedRoundTripper fails the first len(failures) attempts with the given
// errors and then answers with status and body.
type scriptedRoundTripper struct {
	mu       sync.Mutex
	failures []error
	always   error
	status   int
	body     string
	header   http.Header
	requests []*http.Request
}

func (rt *scriptedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.requests = append(rt.requests, req)
	if rt.always != nil {
		return nil, rt.always
	}
	if len(rt.requests) <= len(rt.failures) {
		return nil, rt.failures[len(rt.requests)-1]
	}

	header := rt.header
	if header == nil {
		header = http.Header{}
	}
	status := rt.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(rt.body)),
		Request:    req,
	}, nil
}

func (rt *scriptedRoundTripper) attempts() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.requests)
}

func newTestTransport(t *testing.T, rt http.RoundTripper, opts ...config.Option) *Transport {
	t.Helper()
	cfg := config.Defaults()
	cfg.BaseURL = "http://hermes.test"
	for _, opt := range opts {
		opt(&cfg)
	}
	require.NoError(t, cfg.Validate())
	return New(cfg,
		WithRoundTripper(rt),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)
}

func connRefused() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
}

func TestDo_RetriesTimeoutsThenSucceeds(t *testing.T) {
	rt := &scriptedRoundTripper{
		failures: []error{timeoutError{}, timeoutError{}},
		body:     `{"title":"ok"}`,
	}
	tr := newTestTransport(t, rt, config.WithMaxRetries(2))

	resp, err := tr.Get(context.Background(), "documents/abc", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"title":"ok"}`, string(resp.Body))
	assert.Equal(t, 3, rt.attempts())
}

func TestDo_TimeoutAfterRetriesExhausted(t *testing.T) {
	rt := &scriptedRoundTripper{always: timeoutError{}}
	tr := newTestTransport(t, rt, config.WithMaxRetries(2))

	_, err := tr.Get(context.Background(), "documents/abc", nil)
	require.Error(t, err)

	var tErr *errdefs.TimeoutError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, 3, tErr.Attempts)
	assert.Equal(t, 3, rt.attempts())
	assert.True(t, errdefs.IsTransient(err))
}

func TestDo_ConnectionErrorAfterRetriesExhausted(t *testing.T) {
	rt := &scriptedRoundTripper{always: connRefused()}
	tr := newTestTransport(t, rt, config.WithMaxRetries(1))

	_, err := tr.Get(context.Background(), "me", nil)

	var cErr *errdefs.ConnectionError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, 2, rt.attempts())
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
}

func TestDo_NoRetryWhenMaxRetriesZero(t *testing.T) {
	rt := &scriptedRoundTripper{always: timeoutError{}}
	tr := newTestTransport(t, rt, config.WithMaxRetries(0))

	_, err := tr.Get(context.Background(), "me", nil)
	assert.ErrorIs(t, err, errdefs.ErrTimeout)
	assert.Equal(t, 1, rt.attempts())
}

func TestDo_OtherTransportErrorsAreNotRetried(t *testing.T) {
	rt := &scriptedRoundTripper{always: errors.New("malformed HTTP response")}
	tr := newTestTransport(t, rt, config.WithMaxRetries(3))

	_, err := tr.Get(context.Background(), "me", nil)
	assert.ErrorIs(t, err, errdefs.ErrAPI)
	assert.Equal(t, 1, rt.attempts())
}

func TestDo_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		header http.Header
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401",
			status: http.StatusUnauthorized,
			body:   `{"error":"token expired"}`,
			check: func(t *testing.T, err error) {
				var aErr *errdefs.AuthError
				require.ErrorAs(t, err, &aErr)
				assert.Equal(t, "Authentication failed: token expired", aErr.Error())
				assert.Equal(t, 401, aErr.StatusCode)
			},
		},
		{
			name:   "403",
			status: http.StatusForbidden,
			body:   `{"message":"not an owner"}`,
			check: func(t *testing.T, err error) {
				var aErr *errdefs.AuthError
				require.ErrorAs(t, err, &aErr)
				assert.Equal(t, "Permission denied: not an owner", aErr.Error())
				assert.True(t, aErr.Forbidden())
			},
		},
		{
			name:   "404",
			status: http.StatusNotFound,
			body:   `{"error": "Resource not found"}`,
			check: func(t *testing.T, err error) {
				var nfErr *errdefs.NotFoundError
				require.ErrorAs(t, err, &nfErr)
				assert.Equal(t, "Resource not found", nfErr.Msg)
				assert.JSONEq(t, `{"error": "Resource not found"}`, string(nfErr.Body))
			},
		},
		{
			name:   "429 with Retry-After",
			status: http.StatusTooManyRequests,
			body:   `slow down`,
			header: http.Header{"Retry-After": []string{"60"}},
			check: func(t *testing.T, err error) {
				var rlErr *errdefs.RateLimitError
				require.ErrorAs(t, err, &rlErr)
				assert.Equal(t, 60, rlErr.RetryAfter)
				assert.Equal(t, "slow down", rlErr.Msg)
			},
		},
		{
			name:   "429 with unparsable Retry-After",
			status: http.StatusTooManyRequests,
			header: http.Header{"Retry-After": []string{"Wed, 21 Oct 2015 07:28:00 GMT"}},
			check: func(t *testing.T, err error) {
				var rlErr *errdefs.RateLimitError
				require.ErrorAs(t, err, &rlErr)
				assert.Equal(t, 0, rlErr.RetryAfter)
			},
		},
		{
			name:   "500 empty body",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var apiErr *errdefs.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, 500, apiErr.StatusCode)
				assert.Equal(t, "HTTP 500 error", apiErr.Msg)
			},
		},
		{
			name:   "400 raw text",
			status: http.StatusBadRequest,
			body:   "Query cannot be empty\n",
			check: func(t *testing.T, err error) {
				var apiErr *errdefs.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "Query cannot be empty", apiErr.Msg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &scriptedRoundTripper{status: tt.status, body: tt.body, header: tt.header}
			tr := newTestTransport(t, rt, config.WithMaxRetries(3))

			_, err := tr.Get(context.Background(), "documents/abc", nil)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, 1, rt.attempts(), "error responses are never retried")
		})
	}
}

func TestDo_Headers(t *testing.T) {
	rt := &scriptedRoundTripper{body: `{}`}
	tr := newTestTransport(t, rt, config.WithAuthToken("first"))

	_, err := tr.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "/search/docs",
		Body:    map[string]string{"query": "x"},
		Headers: map[string]string{"X-Request-ID": "abc"},
	})
	require.NoError(t, err)

	req := rt.requests[0]
	assert.Equal(t, "http://hermes.test/api/v2/search/docs", req.URL.String())
	assert.Equal(t, "Bearer first", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, DefaultUserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, "abc", req.Header.Get("X-Request-ID"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"x"}`, string(body))
}

func TestSetAuthToken(t *testing.T) {
	rt := &scriptedRoundTripper{body: `{}`}
	tr := newTestTransport(t, rt)

	_, err := tr.Get(context.Background(), "me", nil)
	require.NoError(t, err)
	assert.Empty(t, rt.requests[0].Header.Get("Authorization"))

	tr.SetAuthToken("rotated")
	assert.Equal(t, "rotated", tr.AuthToken())

	_, err = tr.Get(context.Background(), "me", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer rotated", rt.requests[1].Header.Get("Authorization"))
}

func TestDo_QueryString(t *testing.T) {
	rt := &scriptedRoundTripper{body: `[]`}
	tr := newTestTransport(t, rt)

	_, err := tr.Get(context.Background(), "me/recently-viewed-docs", map[string][]string{"limit": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, "limit=5", rt.requests[0].URL.RawQuery)
}

func TestDo_CancelledContextStopsRetries(t *testing.T) {
	rt := &scriptedRoundTripper{always: timeoutError{}}
	cfg := config.Defaults()
	cfg.BaseURL = "http://hermes.test"
	cfg.MaxRetries = 5
	tr := New(cfg, WithRoundTripper(rt), WithBackOff(func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Hour)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for rt.attempts() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	_, err := tr.Get(ctx, "me", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, rt.attempts())
}

func TestLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/web/config", r.URL.Path)
		_, _ = w.Write([]byte(`{"auth_provider":"dex"}`))
	}))
	defer srv.Close()

	cfg := config.Defaults()
	cfg.BaseURL = srv.URL
	tr := New(cfg)

	assert.False(t, tr.Started())
	tr.Start()
	tr.Start()
	assert.True(t, tr.Started())

	resp, err := tr.Get(context.Background(), "web/config", nil)
	require.NoError(t, err)
	var out struct {
		AuthProvider string `json:"auth_provider"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "dex", out.AuthProvider)

	require.NoError(t, tr.Close())
	assert.False(t, tr.Started())
	require.NoError(t, tr.Close())

	// A request after Close starts a fresh client.
	_, err = tr.Get(context.Background(), "web/config", nil)
	require.NoError(t, err)
	assert.True(t, tr.Started())
}

func TestLifecycle_TracingLeavesCallerClientAlone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	rt := &http.Transport{}
	defer rt.CloseIdleConnections()
	caller := &http.Client{Transport: rt}

	cfg := config.Defaults()
	cfg.BaseURL = srv.URL
	cfg.Trace = true
	tr := New(cfg, WithHTTPClient(caller))

	for i := 0; i < 2; i++ {
		tr.Start()
		_, err := tr.Get(context.Background(), "web/config", nil)
		require.NoError(t, err)
		assert.Same(t, rt, caller.Transport)
		require.NoError(t, tr.Close())
	}
}

func TestDo_RealTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := config.Defaults()
	cfg.BaseURL = srv.URL
	cfg.Timeout = 20 * time.Millisecond
	cfg.MaxRetries = 1
	tr := New(cfg, WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }))

	_, err := tr.Get(context.Background(), "me", nil)
	var tErr *errdefs.TimeoutError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, 2, tErr.Attempts)
}

func TestExponentialBackOff(t *testing.T) {
	b := ExponentialBackOff()
	assert.Equal(t, 1*time.Second, b.NextBackOff())
	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Equal(t, 4*time.Second, b.NextBackOff())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, failureTimeout, classify(timeoutError{}))
	assert.Equal(t, failureTimeout, classify(context.DeadlineExceeded))
	assert.Equal(t, failureConnection, classify(connRefused()))
	assert.Equal(t, failureConnection, classify(&net.DNSError{Err: "no such host", Name: "x"}))
	assert.Equal(t, failureOther, classify(errors.New("boom")))
}
