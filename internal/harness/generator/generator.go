// Package generator produces synthetic Hermes documents for seeding test
// workspaces. Identifiers are random; bodies come from fixed templates per
// document kind so search expectations stay stable across runs.
package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp-forge/hermes-client/pkg/docid"
	"github.com/hashicorp-forge/hermes-client/pkg/frontmatter"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

// Kind is a generated document type.
type Kind string

const (
	KindRFC           Kind = "RFC"
	KindPRD           Kind = "PRD"
	KindMeetingNotes  Kind = "Meeting Notes"
	KindDocumentation Kind = "Documentation"
)

const (
	DefaultProduct  = "Test Product"
	DefaultCategory = "Testing"
)

// Generator builds documents. The zero value is not usable; call New.
type Generator struct {
	now     func() time.Time
	newUUID func() docid.UUID
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source used for generated timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithUUIDSource sets the function used to mint document UUIDs.
func WithUUIDSource(fn func() docid.UUID) Option {
	return func(g *Generator) { g.newUUID = fn }
}

// New returns a Generator using the wall clock and random UUIDs.
func New(opts ...Option) *Generator {
	g := &Generator{
		now:     time.Now,
		newUUID: docid.NewUUID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateUUID returns a new document UUID.
func (g *Generator) GenerateUUID() docid.UUID {
	return g.newUUID()
}

// GenerateTimestamp returns an RFC 3339 UTC timestamp offsetDays from now.
// Negative offsets are in the past.
func (g *Generator) GenerateTimestamp(offsetDays int) string {
	return g.now().UTC().AddDate(0, 0, offsetDays).Format(time.RFC3339)
}

// RFCOptions describes an RFC. Zero fields take defaults.
type RFCOptions struct {
	Number  int
	UUID    docid.UUID
	Title   string
	Status  models.DocumentStatus
	Author  string
	Created string
	Product string
}

// PRDOptions describes a PRD. Zero fields take defaults.
type PRDOptions RFCOptions

// MeetingOptions describes meeting notes. Zero fields take defaults.
type MeetingOptions struct {
	Number    int
	UUID      docid.UUID
	Title     string
	Attendees []string
	Date      string
	Created   string
}

// DocPageOptions describes a documentation page. Title is required.
type DocPageOptions struct {
	Title    string
	UUID     docid.UUID
	Category string
	Author   string
	Created  string
}

// metadata is the frontmatter written for every generated document.
type metadata struct {
	UUID        string   `yaml:"uuid"`
	Title       string   `yaml:"title"`
	DocType     Kind     `yaml:"doc_type"`
	Status      string   `yaml:"status"`
	Product     string   `yaml:"product,omitempty"`
	Category    string   `yaml:"category,omitempty"`
	Authors     []string `yaml:"authors,omitempty"`
	Attendees   []string `yaml:"attendees,omitempty"`
	MeetingDate string   `yaml:"meeting_date,omitempty"`
	CreatedAt   string   `yaml:"created_at"`
	ModifiedAt  string   `yaml:"modified_at"`
	Tags        []string `yaml:"tags"`
}

// body is the data available to the content templates.
type body struct {
	Title     string
	Status    string
	Author    string
	Created   string
	Date      string
	Attendees string
	Category  string
}

// RFC returns an RFC document with frontmatter.
func (g *Generator) RFC(opts RFCOptions) (string, error) {
	opts = g.rfcDefaults(opts, "RFC-%03d: Test RFC", "alice@example.com")
	return g.render(KindRFC, metadata{
		UUID:       opts.UUID.String(),
		Title:      opts.Title,
		DocType:    KindRFC,
		Status:     opts.Status.String(),
		Product:    opts.Product,
		Authors:    []string{opts.Author},
		CreatedAt:  opts.Created,
		ModifiedAt: opts.Created,
		Tags:       []string{"testing", "rfc", "distributed"},
	}, body{Title: opts.Title, Status: opts.Status.String(), Author: opts.Author, Created: opts.Created})
}

// PRD returns a product requirements document with frontmatter.
func (g *Generator) PRD(opts PRDOptions) (string, error) {
	o := g.rfcDefaults(RFCOptions(opts), "PRD-%03d: Test Product Requirements", "bob@example.com")
	return g.render(KindPRD, metadata{
		UUID:       o.UUID.String(),
		Title:      o.Title,
		DocType:    KindPRD,
		Status:     o.Status.String(),
		Product:    o.Product,
		Authors:    []string{o.Author},
		CreatedAt:  o.Created,
		ModifiedAt: o.Created,
		Tags:       []string{"testing", "prd", "requirements", "distributed"},
	}, body{Title: o.Title, Status: o.Status.String(), Author: o.Author, Created: o.Created})
}

// MeetingNotes returns approved meeting notes with frontmatter.
func (g *Generator) MeetingNotes(opts MeetingOptions) (string, error) {
	if opts.UUID.IsZero() {
		opts.UUID = g.GenerateUUID()
	}
	if opts.Title == "" {
		opts.Title = fmt.Sprintf("Meeting-%03d: Test Team Sync", opts.Number)
	}
	if opts.Created == "" {
		opts.Created = g.GenerateTimestamp(0)
	}
	if opts.Date == "" {
		opts.Date = opts.Created
	}
	if len(opts.Attendees) == 0 {
		opts.Attendees = []string{"alice@example.com", "bob@example.com"}
	}

	return g.render(KindMeetingNotes, metadata{
		UUID:        opts.UUID.String(),
		Title:       opts.Title,
		DocType:     KindMeetingNotes,
		Status:      models.StatusApproved.String(),
		Attendees:   opts.Attendees,
		MeetingDate: opts.Date,
		CreatedAt:   opts.Created,
		ModifiedAt:  opts.Created,
		Tags:        []string{"testing", "meeting", "sync"},
	}, body{Title: opts.Title, Date: opts.Date, Attendees: strings.Join(opts.Attendees, ", ")})
}

// DocPage returns an approved documentation page with frontmatter.
func (g *Generator) DocPage(opts DocPageOptions) (string, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return "", fmt.Errorf("doc page title is required")
	}
	if opts.UUID.IsZero() {
		opts.UUID = g.GenerateUUID()
	}
	if opts.Category == "" {
		opts.Category = DefaultCategory
	}
	if opts.Author == "" {
		opts.Author = "charlie@example.com"
	}
	if opts.Created == "" {
		opts.Created = g.GenerateTimestamp(0)
	}

	return g.render(KindDocumentation, metadata{
		UUID:       opts.UUID.String(),
		Title:      opts.Title,
		DocType:    KindDocumentation,
		Status:     models.StatusApproved.String(),
		Category:   opts.Category,
		Authors:    []string{opts.Author},
		CreatedAt:  opts.Created,
		ModifiedAt: opts.Created,
		Tags:       []string{"docs", "testing", strings.ToLower(opts.Category)},
	}, body{Title: opts.Title, Author: opts.Author, Created: opts.Created, Category: opts.Category})
}

func (g *Generator) rfcDefaults(opts RFCOptions, titleFormat, author string) RFCOptions {
	if opts.UUID.IsZero() {
		opts.UUID = g.GenerateUUID()
	}
	if opts.Title == "" {
		opts.Title = fmt.Sprintf(titleFormat, opts.Number)
	}
	if opts.Status == "" {
		opts.Status = models.StatusWIP
	}
	if opts.Author == "" {
		opts.Author = author
	}
	if opts.Created == "" {
		opts.Created = g.GenerateTimestamp(0)
	}
	if opts.Product == "" {
		opts.Product = DefaultProduct
	}
	return opts
}

func (g *Generator) render(kind Kind, meta metadata, data body) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, string(kind), data); err != nil {
		return "", fmt.Errorf("error rendering %s body: %w", kind, err)
	}
	return frontmatter.Marshal(meta, sb.String())
}
