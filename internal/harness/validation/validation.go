// Package validation asserts that a running Hermes deployment has indexed
// and serves the documents the harness seeded.
package validation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/hermes-client/internal/harness"
	"github.com/hashicorp-forge/hermes-client/pkg/auth"
	"github.com/hashicorp-forge/hermes-client/pkg/client"
	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

const (
	// refreshWindow is how close to expiry a token is refreshed.
	refreshWindow = 5 * time.Minute

	statsPageSize  = 1000
	searchPageSize = 100
)

// ValidationError is a failed assertion.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TokenRefreshFunc returns a fresh bearer token.
type TokenRefreshFunc func(ctx context.Context) (string, error)

// Stats are document counts reported by the search index.
type Stats struct {
	Total    int
	ByType   map[string]int
	ByStatus map[string]int
}

// Validator runs assertions through a Client.
type Validator struct {
	client       *client.Client
	pollInterval time.Duration
	maxWait      time.Duration
	logger       hclog.Logger
	now          func() time.Time

	mu        sync.Mutex
	refresh   TokenRefreshFunc
	expiresIn time.Duration
	expiresAt time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithPollInterval sets the delay between indexing polls.
func WithPollInterval(d time.Duration) Option {
	return func(v *Validator) { v.pollInterval = d }
}

// WithMaxWait bounds WaitForIndexing.
func WithMaxWait(d time.Duration) Option {
	return func(v *Validator) { v.maxWait = d }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// WithClock sets the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New returns a Validator using c.
func New(c *client.Client, opts ...Option) *Validator {
	v := &Validator{
		client:       c,
		pollInterval: harness.DefaultPollInterval,
		maxWait:      harness.DefaultMaxWait,
		logger:       hclog.NewNullLogger(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewFromConfig builds a Client from cfg and returns a Validator using cfg's
// polling settings. opts are applied last.
func NewFromConfig(cfg harness.TestingConfig, opts ...Option) (*Validator, error) {
	cc, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}
	base := []Option{WithPollInterval(cfg.PollInterval), WithMaxWait(cfg.MaxWait)}
	v := New(nil, append(base, opts...)...)
	v.client = client.New(cc, client.WithLogger(v.logger.Named("client")))
	return v, nil
}

// Client returns the client assertions run through.
func (v *Validator) Client() *client.Client { return v.client }

// SetTokenRefresh installs fn as the token source for long runs. Before each
// API call the token is refreshed if it expires within five minutes. Expiry
// is read from the token's exp claim when it is a JWT, otherwise estimated
// as expiresIn from now.
func (v *Validator) SetTokenRefresh(fn TokenRefreshFunc, expiresIn time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.refresh = fn
	v.expiresIn = expiresIn
	v.expiresAt = v.expiry(v.client.AuthToken())
	v.logger.Info("token refresh configured", "expires_at", v.expiresAt)
}

func (v *Validator) expiry(token string) time.Time {
	if exp, err := auth.ExpiresAt(token); err == nil {
		return exp
	}
	return v.now().Add(v.expiresIn)
}

// refreshIfNeeded swaps in a new token when the current one is close to
// expiry. Failures are logged and the old token is kept.
func (v *Validator) refreshIfNeeded(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.refresh == nil || v.now().Before(v.expiresAt.Add(-refreshWindow)) {
		return
	}

	v.logger.Info("refreshing auth token")
	token, err := v.refresh(ctx)
	if err != nil {
		v.logger.Warn("token refresh failed", "error", err)
		return
	}
	v.client.SetAuthToken(token)
	v.expiresAt = v.expiry(token)
	v.logger.Info("auth token refreshed", "expires_at", v.expiresAt)
}

// CheckHealth reports whether the server responds.
func (v *Validator) CheckHealth(ctx context.Context) bool {
	v.refreshIfNeeded(ctx)
	if err := v.client.Health(ctx); err != nil {
		v.logger.Debug("health check failed", "error", err)
		return false
	}
	return true
}

// AssertHealthy fails unless the server responds.
func (v *Validator) AssertHealthy(ctx context.Context) error {
	v.refreshIfNeeded(ctx)
	if err := v.client.Health(ctx); err != nil {
		return &ValidationError{
			Msg: fmt.Sprintf("hermes is not healthy at %s", v.client.Config().BaseURL),
			Err: err,
		}
	}
	v.logger.Info("hermes is healthy")
	return nil
}

func (v *Validator) indexedCount(ctx context.Context) (int, error) {
	v.refreshIfNeeded(ctx)
	resp, err := v.client.Search.Query(ctx, models.SearchRequest{Query: "*", HitsPerPage: 1})
	if err != nil {
		return 0, err
	}
	return resp.NbHits, nil
}

// WaitForIndexing polls the search index until it reports at least expected
// documents. It returns the last observed count, with a *ValidationError if
// the configured maximum wait elapses first. Authentication failures stop
// polling immediately.
func (v *Validator) WaitForIndexing(ctx context.Context, expected int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, v.maxWait)
	defer cancel()

	var (
		actual  int
		lastErr error
	)
	op := func() error {
		n, err := v.indexedCount(ctx)
		if err != nil {
			lastErr = err
			if errdefs.IsAuth(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		actual = n
		v.logger.Info("waiting for indexing", "indexed", actual, "expected", expected)
		if actual >= expected {
			return nil
		}
		lastErr = fmt.Errorf("only %d/%d indexed", actual, expected)
		return lastErr
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(v.pollInterval), ctx)
	if err := backoff.Retry(op, b); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		if errdefs.IsAuth(lastErr) {
			return actual, &ValidationError{Msg: "failed to query documents", Err: lastErr}
		}
		return actual, &ValidationError{
			Msg: fmt.Sprintf("timed out after %s waiting for %d documents", v.maxWait, expected),
			Err: lastErr,
		}
	}
	return actual, nil
}

// AssertDocumentCount fails unless at least expected documents are indexed.
// With wait set it polls as WaitForIndexing does.
func (v *Validator) AssertDocumentCount(ctx context.Context, expected int, wait bool) (int, error) {
	var (
		actual int
		err    error
	)
	if wait {
		actual, err = v.WaitForIndexing(ctx, expected)
	} else {
		actual, err = v.indexedCount(ctx)
		if err != nil {
			err = &ValidationError{Msg: "failed to query documents", Err: err}
		}
	}
	if err != nil {
		return actual, err
	}
	if actual < expected {
		return actual, &ValidationError{Msg: fmt.Sprintf("expected %d documents, found %d", expected, actual)}
	}
	v.logger.Info("document count ok", "found", actual, "expected", expected)
	return actual, nil
}

// AssertSearchResults fails unless q returns between min and max hits on the
// first page. A negative max means no upper bound.
func (v *Validator) AssertSearchResults(ctx context.Context, q string, min, max int) (*models.SearchResponse, error) {
	v.refreshIfNeeded(ctx)
	resp, err := v.client.Search.Query(ctx, models.SearchRequest{Query: q, HitsPerPage: searchPageSize})
	if err != nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("search failed for %q", q), Err: err}
	}

	actual := len(resp.Hits)
	if actual < min {
		return resp, &ValidationError{Msg: fmt.Sprintf("search %q returned %d results, expected >= %d", q, actual, min)}
	}
	if max >= 0 && actual > max {
		return resp, &ValidationError{Msg: fmt.Sprintf("search %q returned %d results, expected <= %d", q, actual, max)}
	}
	v.logger.Info("search ok", "query", q, "results", actual)
	return resp, nil
}

// AssertDocumentExists fails unless id can be fetched.
func (v *Validator) AssertDocumentExists(ctx context.Context, id string) (*models.Document, error) {
	v.refreshIfNeeded(ctx)
	doc, err := v.client.Documents.Get(ctx, id)
	if err != nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("document %q not found", id), Err: err}
	}
	v.logger.Info("document exists", "id", id, "title", doc.Title)
	return doc, nil
}

// AssertDocumentContent fails unless the body of id contains substr.
func (v *Validator) AssertDocumentContent(ctx context.Context, id, substr string) error {
	v.refreshIfNeeded(ctx)
	content, err := v.client.Documents.GetContent(ctx, id)
	if err != nil {
		return &ValidationError{Msg: fmt.Sprintf("failed to get content for %q", id), Err: err}
	}
	if !strings.Contains(content.Content, substr) {
		return &ValidationError{Msg: fmt.Sprintf("document %q content missing %q", id, substr)}
	}
	v.logger.Info("document content ok", "id", id)
	return nil
}

// DocumentStats counts indexed documents by type and status. Hits missing
// either field are counted as "Unknown".
func (v *Validator) DocumentStats(ctx context.Context) (*Stats, error) {
	v.refreshIfNeeded(ctx)
	resp, err := v.client.Search.Query(ctx, models.SearchRequest{Query: "*", HitsPerPage: statsPageSize})
	if err != nil {
		return nil, &ValidationError{Msg: "failed to get document stats", Err: err}
	}

	stats := &Stats{
		Total:    resp.NbHits,
		ByType:   make(map[string]int),
		ByStatus: make(map[string]int),
	}
	for _, hit := range resp.Hits {
		docType := hit.DocType
		if docType == "" {
			docType = "Unknown"
		}
		stats.ByType[docType]++

		status := "Unknown"
		if hit.Status != nil {
			status = hit.Status.String()
		}
		stats.ByStatus[status]++
	}
	return stats, nil
}
