// Package transport is the single choke point for every request the Hermes
// client sends. It owns the pooled HTTP client, injects headers, retries
// transport failures with exponential backoff and maps error responses onto
// the errdefs taxonomy.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"
	httptrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/net/http"

	"github.com/hashicorp-forge/hermes-client/pkg/config"
	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
)

// Version is reported in the User-Agent header.
const Version = "0.1.0"

// DefaultUserAgent identifies the client to the server.
const DefaultUserAgent = "hermes-client-go/" + Version

// Transport issues HTTP requests against a Hermes server. It is safe for
// concurrent use; the bearer token may be swapped at any time.
type Transport struct {
	cfg        config.Config
	logger     hclog.Logger
	userAgent  string
	newBackOff func() backoff.BackOff

	// httpClient and roundTripper are caller overrides; client is the
	// lazily started instance actually used.
	httpClient   *http.Client
	roundTripper http.RoundTripper

	token atomic.Pointer[string]

	mu      sync.Mutex
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger. The default discards output.
func WithLogger(l hclog.Logger) Option {
	return func(t *Transport) { t.logger = l }
}

// WithHTTPClient uses c instead of building a pooled client from the config.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) { t.httpClient = c }
}

// WithRoundTripper replaces the underlying round tripper of the pooled client.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(t *Transport) { t.roundTripper = rt }
}

// WithBackOff sets the retry delay policy. The returned policy is further
// bounded by MaxRetries and the request context.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(t *Transport) { t.newBackOff = f }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *Transport) { t.userAgent = ua }
}

// New creates a Transport. No connections are opened until Start or the
// first request.
func New(cfg config.Config, opts ...Option) *Transport {
	t := &Transport{
		cfg:        cfg,
		logger:     hclog.NewNullLogger(),
		userAgent:  DefaultUserAgent,
		newBackOff: ExponentialBackOff,
	}
	for _, opt := range opts {
		opt(t)
	}
	token := cfg.AuthToken
	t.token.Store(&token)
	return t
}

// ExponentialBackOff waits 2^attempt seconds before each retry, starting at
// one second.
func ExponentialBackOff() backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     time.Second,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         time.Hour,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}

// Start builds the pooled HTTP client. It is idempotent.
func (t *Transport) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startLocked()
}

func (t *Transport) startLocked() {
	if t.client != nil {
		return
	}

	client := t.httpClient
	if client != nil {
		// Tracing wraps in place; keep the caller's client untouched.
		c := *client
		client = &c
	} else {
		client = t.cfg.NewHTTPClient()
		if t.roundTripper != nil {
			client.Transport = t.roundTripper
		}
	}
	if t.cfg.Trace {
		client = httptrace.WrapClient(client, httptrace.RTWithServiceName("hermes-client"))
	}
	t.client = client

	if t.cfg.RateLimit > 0 {
		burst := int(t.cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(t.cfg.RateLimit), burst)
	}

	t.logger.Debug("transport started",
		"base_url", t.cfg.BaseURL,
		"timeout", t.cfg.Timeout,
		"max_retries", t.cfg.MaxRetries,
	)
}

// Close releases idle connections. A later request starts a fresh client.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil
	}
	t.client.CloseIdleConnections()
	t.client = nil
	t.limiter = nil
	t.logger.Debug("transport closed")
	return nil
}

// Started reports whether the pooled client is live.
func (t *Transport) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client != nil
}

// SetAuthToken replaces the bearer token for all subsequent requests.
func (t *Transport) SetAuthToken(token string) {
	t.token.Store(&token)
}

// AuthToken returns the current bearer token.
func (t *Transport) AuthToken() string {
	return *t.token.Load()
}

// Config returns the configuration the transport was built with.
func (t *Transport) Config() config.Config {
	return t.cfg
}

func (t *Transport) acquire() (*http.Client, *rate.Limiter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startLocked()
	return t.client, t.limiter
}

func (t *Transport) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return t.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

func (t *Transport) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return t.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

func (t *Transport) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return t.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

func (t *Transport) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return t.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (t *Transport) Delete(ctx context.Context, path string) (*Response, error) {
	return t.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Do sends req, retrying timeouts and connection failures up to MaxRetries
// times. Responses with status >= 400 are never retried.
func (t *Transport) Do(ctx context.Context, req Request) (*Response, error) {
	client, limiter := t.acquire()

	endpoint := t.cfg.APIURL(req.Path)
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, &errdefs.ValidationError{Field: "body", Msg: "error marshaling request body", Err: err}
		}
	}

	var (
		attempts int
		lastKind failureKind
		lastErr  error
	)
	operation := func() (*Response, error) {
		attempts++

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, backoff.Permanent(err)
			}
		}

		httpReq, err := t.newRequest(ctx, req, endpoint, payload)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		start := time.Now()
		resp, err := client.Do(httpReq)
		if err != nil {
			kind := classify(err)
			if ctx.Err() != nil || kind == failureOther {
				return nil, backoff.Permanent(t.failure(ctx, kind, err, attempts))
			}
			lastKind, lastErr = kind, err
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, backoff.Permanent(&errdefs.APIError{
				Msg:        "error reading response body",
				StatusCode: resp.StatusCode,
				Err:        err,
			})
		}

		t.logger.Debug("response received",
			"method", req.Method,
			"path", req.Path,
			"status", resp.StatusCode,
			"duration", time.Since(start),
		)

		if resp.StatusCode >= 400 {
			return nil, backoff.Permanent(statusError(resp.StatusCode, resp.Header, body))
		}
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(t.newBackOff(), uint64(t.cfg.MaxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		t.logger.Warn("request failed, retrying",
			"method", req.Method,
			"path", req.Path,
			"attempt", attempts,
			"wait", wait,
			"error", err,
		)
	}

	resp, err := backoff.RetryNotifyWithData(operation, policy, notify)
	if err == nil {
		return resp, nil
	}

	// Retries exhausted on a transport failure, or the context ended
	// while waiting between attempts.
	if lastErr != nil && err == lastErr {
		return nil, t.failure(ctx, lastKind, err, attempts)
	}
	if ctx.Err() != nil && err == ctx.Err() {
		return nil, t.failure(ctx, failureTimeout, err, attempts)
	}
	return nil, err
}

func (t *Transport) newRequest(ctx context.Context, req Request, endpoint string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &errdefs.ValidationError{Field: "url", Value: endpoint, Msg: "error creating request", Err: err}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", t.userAgent)
	if token := t.AuthToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

// failure wraps a transport error in its typed form.
func (t *Transport) failure(ctx context.Context, kind failureKind, err error, attempts int) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request cancelled: %w", ctx.Err())
	}

	switch kind {
	case failureTimeout:
		t.logger.Error("request timed out", "attempts", attempts, "error", err)
		return &errdefs.TimeoutError{
			Msg:      fmt.Sprintf("Request timed out after %d attempts", attempts),
			Attempts: attempts,
			Err:      err,
		}
	case failureConnection:
		t.logger.Error("connection failed", "attempts", attempts, "error", err)
		return &errdefs.ConnectionError{
			Msg:      fmt.Sprintf("Connection failed after %d attempts", attempts),
			Attempts: attempts,
			Err:      err,
		}
	default:
		return &errdefs.APIError{Msg: "Request failed", Err: err}
	}
}
