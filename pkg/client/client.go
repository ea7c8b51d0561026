// Package client is the context-aware Go API for a Hermes server.
//
// A Client groups resource facades (Documents, Projects, Search, Reviews and
// Me) that share one Transport. Each facade method issues exactly one HTTP
// request and decodes the response into pkg/models types. Transport errors
// are returned wrapped with %w, so errors.As against pkg/errdefs types works
// on every result.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/hermes-client/pkg/config"
	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
	"github.com/hashicorp-forge/hermes-client/pkg/transport"
)

// Doer sends a single request. *transport.Transport implements it.
type Doer interface {
	Do(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// Client is the entry point to the Hermes API.
type Client struct {
	cfg       config.Config
	logger    hclog.Logger
	transport *transport.Transport

	Documents *DocumentsService
	Projects  *ProjectsService
	Search    *SearchService
	Reviews   *ReviewsService
	Me        *MeService
}

// Option configures a Client.
type Option func(*options)

type options struct {
	logger        hclog.Logger
	transportOpts []transport.Option
}

// WithLogger sets the logger used by the client and its transport.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTransportOptions passes options through to the underlying transport.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(o *options) { o.transportOpts = append(o.transportOpts, opts...) }
}

// New creates a Client for cfg. The configuration is copied and not read again.
func New(cfg config.Config, opts ...Option) *Client {
	o := options{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	tOpts := append([]transport.Option{transport.WithLogger(o.logger.Named("transport"))}, o.transportOpts...)
	t := transport.New(cfg, tOpts...)

	c := &Client{
		cfg:       cfg,
		logger:    o.logger,
		transport: t,
	}
	c.Documents = &DocumentsService{doer: t}
	c.Projects = &ProjectsService{doer: t}
	c.Search = &SearchService{doer: t}
	c.Reviews = &ReviewsService{doer: t}
	c.Me = &MeService{doer: t}
	return c
}

// NewFromEnv creates a Client configured from defaults and HERMES_* variables.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...), nil
}

// Start opens the pooled connection. Requests start it lazily otherwise.
func (c *Client) Start() { c.transport.Start() }

// Close releases pooled connections.
func (c *Client) Close() error { return c.transport.Close() }

// Config returns the client's configuration.
func (c *Client) Config() config.Config { return c.cfg }

// SetAuthToken replaces the bearer token for all subsequent requests.
func (c *Client) SetAuthToken(token string) { c.transport.SetAuthToken(token) }

// AuthToken returns the current bearer token.
func (c *Client) AuthToken() string { return c.transport.AuthToken() }

// WebConfig fetches the server's public frontend configuration.
func (c *Client) WebConfig(ctx context.Context) (*models.WebConfig, error) {
	var cfg models.WebConfig
	if err := do(ctx, c.transport, transport.Request{Method: "GET", Path: "web/config"}, &cfg); err != nil {
		return nil, fmt.Errorf("failed to get web config: %w", err)
	}
	return &cfg, nil
}

// Health reports whether the server answers the web config endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.WebConfig(ctx)
	return err
}

// do sends req and decodes the response into out when out is non-nil.
func do(ctx context.Context, d Doer, req transport.Request, out interface{}) error {
	resp, err := d.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// segment escapes a single path segment, rejecting blank identifiers before
// any request is sent.
func segment(field, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", errdefs.NewValidationError(field, id, "cannot be blank")
	}
	return url.PathEscape(id), nil
}

// withResource fills the resource fields of a not-found error.
func withResource(err error, resourceType, id string) error {
	if nf, ok := err.(*errdefs.NotFoundError); ok {
		nf.ResourceType = resourceType
		nf.ResourceID = id
	}
	return err
}

func errValidation(field string, value interface{}) error {
	return errdefs.NewValidationError(field, value, "cannot be blank")
}

func errValidationWrap(field string, err error) error {
	return &errdefs.ValidationError{Field: field, Err: err}
}
