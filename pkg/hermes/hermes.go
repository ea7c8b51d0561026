// Package hermes is a blocking facade over pkg/client for callers that do not
// manage contexts themselves, such as scripts and test harnesses.
//
// Every method makes exactly one call on the underlying client with a fresh
// context.Background(), bounded by the configured call deadline when one is
// set. A Hermes value is meant to be created once and reused. It is not safe
// for concurrent use without external synchronization.
package hermes

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/hermes-client/pkg/client"
	"github.com/hashicorp-forge/hermes-client/pkg/config"
	"github.com/hashicorp-forge/hermes-client/pkg/docid"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

// Hermes is the synchronous client.
type Hermes struct {
	client   *client.Client
	deadline time.Duration

	Documents *Documents
	Projects  *Projects
	Search    *Search
	Reviews   *Reviews
	Me        *Me
}

// Option configures a Hermes.
type Option func(*options)

type options struct {
	deadline   time.Duration
	clientOpts []client.Option
}

// WithCallDeadline bounds each call. Zero means no deadline beyond the
// per-request HTTP timeout.
func WithCallDeadline(d time.Duration) Option {
	return func(o *options) { o.deadline = d }
}

// WithLogger sets the logger of the underlying client.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) { o.clientOpts = append(o.clientOpts, client.WithLogger(l)) }
}

// WithClientOptions passes options through to the underlying client.
func WithClientOptions(opts ...client.Option) Option {
	return func(o *options) { o.clientOpts = append(o.clientOpts, opts...) }
}

// New creates a synchronous client for cfg.
func New(cfg config.Config, opts ...Option) *Hermes {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return wrap(client.New(cfg, o.clientOpts...), o.deadline)
}

// NewFromEnv creates a synchronous client configured from HERMES_* variables.
func NewFromEnv(opts ...Option) (*Hermes, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...), nil
}

func wrap(c *client.Client, deadline time.Duration) *Hermes {
	h := &Hermes{client: c, deadline: deadline}
	h.Documents = &Documents{h: h}
	h.Projects = &Projects{h: h}
	h.Search = &Search{h: h}
	h.Reviews = &Reviews{h: h}
	h.Me = &Me{h: h}
	return h
}

// Client returns the underlying context-aware client.
func (h *Hermes) Client() *client.Client { return h.client }

// Config returns the client configuration.
func (h *Hermes) Config() config.Config { return h.client.Config() }

// SetAuthToken replaces the bearer token for subsequent calls.
func (h *Hermes) SetAuthToken(token string) { h.client.SetAuthToken(token) }

// Close releases pooled connections.
func (h *Hermes) Close() error { return h.client.Close() }

// WebConfig fetches the server's public frontend configuration.
func (h *Hermes) WebConfig() (*models.WebConfig, error) {
	return call(h, h.client.WebConfig)
}

// Health reports whether the server is reachable.
func (h *Hermes) Health() error {
	ctx, cancel := h.context()
	defer cancel()
	return h.client.Health(ctx)
}

func (h *Hermes) context() (context.Context, context.CancelFunc) {
	if h.deadline > 0 {
		return context.WithTimeout(context.Background(), h.deadline)
	}
	return context.WithCancel(context.Background())
}

// call runs fn once with a fresh call context.
func call[T any](h *Hermes, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := h.context()
	defer cancel()
	return fn(ctx)
}

func exec(h *Hermes, fn func(context.Context) error) error {
	ctx, cancel := h.context()
	defer cancel()
	return fn(ctx)
}

// Documents is the blocking form of client.DocumentsService.
type Documents struct{ h *Hermes }

func (d *Documents) Get(id string) (*models.Document, error) {
	return call(d.h, func(ctx context.Context) (*models.Document, error) {
		return d.h.client.Documents.Get(ctx, id)
	})
}

func (d *Documents) GetByUUID(id docid.UUID) (*models.Document, error) {
	return call(d.h, func(ctx context.Context) (*models.Document, error) {
		return d.h.client.Documents.GetByUUID(ctx, id)
	})
}

func (d *Documents) Update(id string, patch models.DocumentPatchRequest) (*models.Document, error) {
	return call(d.h, func(ctx context.Context) (*models.Document, error) {
		return d.h.client.Documents.Update(ctx, id, patch)
	})
}

func (d *Documents) Delete(id string) error {
	return exec(d.h, func(ctx context.Context) error {
		return d.h.client.Documents.Delete(ctx, id)
	})
}

func (d *Documents) GetContent(id string) (*models.DocumentContent, error) {
	return call(d.h, func(ctx context.Context) (*models.DocumentContent, error) {
		return d.h.client.Documents.GetContent(ctx, id)
	})
}

func (d *Documents) UpdateContent(id, content string) error {
	return exec(d.h, func(ctx context.Context) error {
		return d.h.client.Documents.UpdateContent(ctx, id, content)
	})
}

func (d *Documents) GetRelatedResources(id string) (*models.RelatedResources, error) {
	return call(d.h, func(ctx context.Context) (*models.RelatedResources, error) {
		return d.h.client.Documents.GetRelatedResources(ctx, id)
	})
}

func (d *Documents) UpdateRelatedResources(id string, update models.RelatedResourcesUpdate) error {
	return exec(d.h, func(ctx context.Context) error {
		return d.h.client.Documents.UpdateRelatedResources(ctx, id, update)
	})
}

func (d *Documents) Similar(id string, limit int) (*models.SemanticSearchResponse, error) {
	return call(d.h, func(ctx context.Context) (*models.SemanticSearchResponse, error) {
		return d.h.client.Documents.Similar(ctx, id, limit)
	})
}

// Projects is the blocking form of client.ProjectsService.
type Projects struct{ h *Hermes }

func (p *Projects) List() ([]models.Project, error) {
	return call(p.h, p.h.client.Projects.List)
}

func (p *Projects) Get(name string) (*models.Project, error) {
	return call(p.h, func(ctx context.Context) (*models.Project, error) {
		return p.h.client.Projects.Get(ctx, name)
	})
}

func (p *Projects) GetRelatedResources(name string) (*models.ProjectRelatedResources, error) {
	return call(p.h, func(ctx context.Context) (*models.ProjectRelatedResources, error) {
		return p.h.client.Projects.GetRelatedResources(ctx, name)
	})
}

// Search is the blocking form of client.SearchService.
type Search struct{ h *Hermes }

func (s *Search) Query(req models.SearchRequest) (*models.SearchResponse, error) {
	return call(s.h, func(ctx context.Context) (*models.SearchResponse, error) {
		return s.h.client.Search.Query(ctx, req)
	})
}

func (s *Search) Semantic(req models.SemanticSearchRequest) (*models.SemanticSearchResponse, error) {
	return call(s.h, func(ctx context.Context) (*models.SemanticSearchResponse, error) {
		return s.h.client.Search.Semantic(ctx, req)
	})
}

func (s *Search) Hybrid(req models.HybridSearchRequest) (*models.HybridSearchResponse, error) {
	return call(s.h, func(ctx context.Context) (*models.HybridSearchResponse, error) {
		return s.h.client.Search.Hybrid(ctx, req)
	})
}

// Reviews is the blocking form of client.ReviewsService.
type Reviews struct{ h *Hermes }

func (r *Reviews) Mine() ([]models.DocumentReview, error) {
	return call(r.h, r.h.client.Reviews.Mine)
}

// Me is the blocking form of client.MeService.
type Me struct{ h *Hermes }

func (m *Me) Profile() (*models.MeProfile, error) {
	return call(m.h, m.h.client.Me.Profile)
}

func (m *Me) Reviews() ([]models.DocumentReview, error) {
	return call(m.h, m.h.client.Me.Reviews)
}

func (m *Me) Subscriptions() ([]string, error) {
	return call(m.h, m.h.client.Me.Subscriptions)
}

func (m *Me) RecentlyViewed(limit int) ([]models.Document, error) {
	return call(m.h, func(ctx context.Context) ([]models.Document, error) {
		return m.h.client.Me.RecentlyViewed(ctx, limit)
	})
}
