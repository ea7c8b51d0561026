// Package seeding writes generated documents into local workspace
// directories that a Hermes indexer watches.
package seeding

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/hermes-client/internal/harness"
	"github.com/hashicorp-forge/hermes-client/internal/harness/generator"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

// Workspace names a seeded workspace directory.
type Workspace string

const (
	WorkspaceTesting Workspace = "testing"
	WorkspaceDocs    Workspace = "docs"

	// WorkspaceAll selects every workspace in Clean.
	WorkspaceAll Workspace = "all"
)

// Workspaces lists the concrete workspaces.
var Workspaces = []Workspace{WorkspaceTesting, WorkspaceDocs}

// Subdirs are created in every workspace.
var Subdirs = []string{"rfcs", "prds", "meetings", "drafts", "docs"}

// ParseWorkspace converts s into a Workspace, accepting "all".
func ParseWorkspace(s string) (Workspace, error) {
	switch w := Workspace(strings.ToLower(strings.TrimSpace(s))); w {
	case WorkspaceTesting, WorkspaceDocs, WorkspaceAll:
		return w, nil
	}
	return "", fmt.Errorf("unknown workspace %q", s)
}

// Scenario is a seeding layout.
type Scenario string

const (
	ScenarioBasic       Scenario = "basic"
	ScenarioMigration   Scenario = "migration"
	ScenarioConflict    Scenario = "conflict"
	ScenarioMultiAuthor Scenario = "multi_author"
)

// Scenarios lists every supported scenario.
var Scenarios = []Scenario{ScenarioBasic, ScenarioMigration, ScenarioConflict, ScenarioMultiAuthor}

// ParseScenario converts s into a Scenario. Dashes are accepted in place of
// underscores.
func ParseScenario(s string) (Scenario, error) {
	norm := Scenario(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, sc := range Scenarios {
		if sc == norm {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unsupported scenario %q", s)
}

// SeedResult lists the files written by SeedScenario. Two-workspace
// scenarios also fill Source and Target; Files is always their union.
type SeedResult struct {
	Scenario Scenario
	Files    []string
	Source   []string
	Target   []string
}

// Seeder writes documents beneath root on fs.
type Seeder struct {
	fs           afero.Fs
	root         string
	gen          *generator.Generator
	authors      []string
	defaultCount int
	logger       hclog.Logger
	progress     io.Writer
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Seeder) { s.fs = fs }
}

// WithGenerator sets the document generator.
func WithGenerator(g *generator.Generator) Option {
	return func(s *Seeder) { s.gen = g }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(s *Seeder) { s.logger = l }
}

// WithProgress renders progress bars to w. Progress is discarded by default.
func WithProgress(w io.Writer) Option {
	return func(s *Seeder) { s.progress = w }
}

// WithAuthors sets the author rotation used by SeedMultiAuthor.
func WithAuthors(authors []string) Option {
	return func(s *Seeder) {
		if len(authors) > 0 {
			s.authors = authors
		}
	}
}

// WithDefaultCount sets the document count used when a seed call passes a
// non-positive count.
func WithDefaultCount(n int) Option {
	return func(s *Seeder) {
		if n > 0 {
			s.defaultCount = n
		}
	}
}

// New returns a Seeder rooted at root.
func New(root string, opts ...Option) *Seeder {
	s := &Seeder{
		fs:           afero.NewOsFs(),
		root:         root,
		authors:      harness.DefaultTestAuthors,
		defaultCount: harness.DefaultDocumentCount,
		logger:       hclog.NewNullLogger(),
		progress:     io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = generator.New()
	}
	return s
}

// NewFromConfig returns a Seeder using cfg's workspace directory, author list
// and default count.
func NewFromConfig(cfg harness.TestingConfig, opts ...Option) *Seeder {
	base := []Option{
		WithAuthors(cfg.TestAuthors),
		WithDefaultCount(cfg.DefaultDocumentCount),
	}
	return New(cfg.WorkspacesDir, append(base, opts...)...)
}

// Root returns the workspaces directory.
func (s *Seeder) Root() string { return s.root }

// Fs returns the filesystem documents are written to.
func (s *Seeder) Fs() afero.Fs { return s.fs }

// WorkspacePath returns the directory of ws.
func (s *Seeder) WorkspacePath(ws Workspace) string {
	return filepath.Join(s.root, string(ws))
}

func (s *Seeder) ensureWorkspace(ws Workspace) error {
	for _, sub := range Subdirs {
		if err := s.fs.MkdirAll(filepath.Join(s.WorkspacePath(ws), sub), 0o755); err != nil {
			return fmt.Errorf("error creating %s workspace: %w", ws, err)
		}
	}
	return nil
}

// Clean removes every file in ws, or in every workspace when ws is
// WorkspaceAll. Directories are kept. Missing workspaces are skipped.
func (s *Seeder) Clean(ws Workspace) error {
	targets := []Workspace{ws}
	if ws == WorkspaceAll {
		targets = Workspaces
	}

	var result *multierror.Error
	for _, w := range targets {
		base := s.WorkspacePath(w)
		exists, err := afero.DirExists(s.fs, base)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if !exists {
			continue
		}

		removed := 0
		err = afero.Walk(s.fs, base, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				result = multierror.Append(result, err)
				return nil
			}
			if info.IsDir() {
				return nil
			}
			if err := s.fs.Remove(path); err != nil {
				result = multierror.Append(result, fmt.Errorf("error removing %s: %w", path, err))
				return nil
			}
			removed++
			return nil
		})
		if err != nil {
			result = multierror.Append(result, err)
		}
		s.logger.Info("cleaned workspace", "workspace", w, "files", removed)
	}
	return result.ErrorOrNil()
}

func (s *Seeder) count(n int) int {
	if n <= 0 {
		return s.defaultCount
	}
	return n
}

func (s *Seeder) prepare(clean bool, workspaces ...Workspace) error {
	if clean {
		target := WorkspaceAll
		if len(workspaces) == 1 {
			target = workspaces[0]
		}
		if err := s.Clean(target); err != nil {
			return err
		}
	}
	for _, ws := range workspaces {
		if err := s.ensureWorkspace(ws); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) write(path, content string) error {
	if err := afero.WriteFile(s.fs, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

func (s *Seeder) newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
}

// SeedBasic writes count documents to ws: a third RFCs, a third PRDs and
// the rest meeting notes, plus a README describing the layout.
func (s *Seeder) SeedBasic(count int, ws Workspace, clean bool) ([]string, error) {
	count = s.count(count)
	if err := s.prepare(clean, ws); err != nil {
		return nil, err
	}

	rfcs := count / 3
	prds := count / 3
	meetings := count - rfcs - prds
	base := s.WorkspacePath(ws)

	bar := s.newBar(count, fmt.Sprintf("seeding %s", ws))
	defer bar.Finish()

	var files []string
	for i := 1; i <= rfcs; i++ {
		content, err := s.gen.RFC(generator.RFCOptions{
			Number: i,
			Title:  fmt.Sprintf("RFC-%03d: Test Distributed System Design", i),
			Status: models.StatusWIP,
			Author: "alice@example.com",
		})
		if err != nil {
			return files, err
		}
		path := filepath.Join(base, "rfcs", fmt.Sprintf("RFC-%03d-test-design.md", i))
		if err := s.write(path, content); err != nil {
			return files, err
		}
		files = append(files, path)
		_ = bar.Add(1)
	}

	for i := 1; i <= prds; i++ {
		content, err := s.gen.PRD(generator.PRDOptions{
			Number: i,
			Title:  fmt.Sprintf("PRD-%03d: Test Feature Requirements", i),
			Status: models.StatusWIP,
			Author: "bob@example.com",
		})
		if err != nil {
			return files, err
		}
		path := filepath.Join(base, "prds", fmt.Sprintf("PRD-%03d-test-feature.md", i))
		if err := s.write(path, content); err != nil {
			return files, err
		}
		files = append(files, path)
		_ = bar.Add(1)
	}

	for i := 1; i <= meetings; i++ {
		content, err := s.gen.MeetingNotes(generator.MeetingOptions{
			Number:    i,
			Attendees: []string{"alice@example.com", "bob@example.com"},
		})
		if err != nil {
			return files, err
		}
		path := filepath.Join(base, "meetings", fmt.Sprintf("MEET-%03d-team-sync.md", i))
		if err := s.write(path, content); err != nil {
			return files, err
		}
		files = append(files, path)
		_ = bar.Add(1)
	}

	if err := s.write(filepath.Join(base, "README.md"), s.readme(ws, files, rfcs, prds, meetings)); err != nil {
		return files, err
	}

	s.logger.Info("seeded workspace", "scenario", ScenarioBasic, "workspace", ws, "documents", len(files))
	return files, nil
}

func (s *Seeder) readme(ws Workspace, files []string, rfcs, prds, meetings int) string {
	base := s.WorkspacePath(ws)

	var sb strings.Builder
	name := string(ws)
	fmt.Fprintf(&sb, "# %s%s Workspace\n\n", strings.ToUpper(name[:1]), name[1:])
	sb.WriteString("Generated by the Hermes test harness.\n\n")
	sb.WriteString("**Scenario**: Basic\n")
	fmt.Fprintf(&sb, "**Document Count**: %d\n", len(files))
	fmt.Fprintf(&sb, "**Generated**: %s\n\n", s.gen.GenerateTimestamp(0))
	sb.WriteString("## Contents\n\n")
	fmt.Fprintf(&sb, "- RFCs: %d documents in `rfcs/`\n", rfcs)
	fmt.Fprintf(&sb, "- PRDs: %d documents in `prds/`\n", prds)
	fmt.Fprintf(&sb, "- Meetings: %d documents in `meetings/`\n\n", meetings)
	sb.WriteString("## Generated Files\n\n")
	for _, f := range files {
		rel, err := filepath.Rel(base, f)
		if err != nil {
			rel = f
		}
		fmt.Fprintf(&sb, "- %s\n", filepath.ToSlash(rel))
	}
	return sb.String()
}

// SeedMigration writes count RFC pairs sharing a UUID: an approved original
// in the docs workspace and a modified in-review copy in the testing
// workspace.
func (s *Seeder) SeedMigration(count int, clean bool) (source, target []string, err error) {
	count = s.count(count)
	if err := s.prepare(clean, WorkspaceDocs, WorkspaceTesting); err != nil {
		return nil, nil, err
	}

	bar := s.newBar(count, "seeding migration pairs")
	defer bar.Finish()

	for i := 1; i <= count; i++ {
		id := s.gen.GenerateUUID()
		name := fmt.Sprintf("RFC-%03d-migration.md", i)

		src, err := s.gen.RFC(generator.RFCOptions{
			Number: i,
			UUID:   id,
			Title:  fmt.Sprintf("RFC-%03d: Migration Test Document", i),
			Status: models.StatusApproved,
			Author: "alice@example.com",
		})
		if err != nil {
			return source, target, err
		}
		dst, err := s.gen.RFC(generator.RFCOptions{
			Number: i,
			UUID:   id,
			Title:  fmt.Sprintf("RFC-%03d: Migration Test Document (Modified)", i),
			Status: models.StatusInReview,
			Author: "bob@example.com",
		})
		if err != nil {
			return source, target, err
		}

		srcPath := filepath.Join(s.WorkspacePath(WorkspaceDocs), "rfcs", name)
		dstPath := filepath.Join(s.WorkspacePath(WorkspaceTesting), "rfcs", name)
		if err := s.write(srcPath, src); err != nil {
			return source, target, err
		}
		if err := s.write(dstPath, dst); err != nil {
			return source, target, err
		}
		source = append(source, srcPath)
		target = append(target, dstPath)
		_ = bar.Add(1)
	}

	s.logger.Info("seeded workspaces", "scenario", ScenarioMigration, "pairs", count)
	return source, target, nil
}

// SeedConflict writes count RFC pairs that share a UUID and a modification
// time but differ in title, author, status and body. Neither copy can be
// preferred by timestamp, so a migration must report a conflict.
func (s *Seeder) SeedConflict(count int, clean bool) (source, target []string, err error) {
	count = s.count(count)
	if err := s.prepare(clean, WorkspaceDocs, WorkspaceTesting); err != nil {
		return nil, nil, err
	}

	bar := s.newBar(count, "seeding conflict pairs")
	defer bar.Finish()

	created := s.gen.GenerateTimestamp(0)
	for i := 1; i <= count; i++ {
		id := s.gen.GenerateUUID()
		name := fmt.Sprintf("RFC-%03d-conflict.md", i)

		src, err := s.gen.RFC(generator.RFCOptions{
			Number:  i,
			UUID:    id,
			Title:   fmt.Sprintf("RFC-%03d: Conflict Test Document", i),
			Status:  models.StatusApproved,
			Author:  "alice@example.com",
			Created: created,
		})
		if err != nil {
			return source, target, err
		}
		dst, err := s.gen.RFC(generator.RFCOptions{
			Number:  i,
			UUID:    id,
			Title:   fmt.Sprintf("RFC-%03d: Conflict Test Document (Concurrent Edit)", i),
			Status:  models.StatusWIP,
			Author:  "diana@example.com",
			Created: created,
		})
		if err != nil {
			return source, target, err
		}

		srcPath := filepath.Join(s.WorkspacePath(WorkspaceDocs), "rfcs", name)
		dstPath := filepath.Join(s.WorkspacePath(WorkspaceTesting), "rfcs", name)
		if err := s.write(srcPath, src); err != nil {
			return source, target, err
		}
		if err := s.write(dstPath, dst); err != nil {
			return source, target, err
		}
		source = append(source, srcPath)
		target = append(target, dstPath)
		_ = bar.Add(1)
	}

	s.logger.Info("seeded workspaces", "scenario", ScenarioConflict, "pairs", count)
	return source, target, nil
}

// multiAuthorStatuses is the status rotation for SeedMultiAuthor.
var multiAuthorStatuses = []models.DocumentStatus{
	models.StatusWIP,
	models.StatusInReview,
	models.StatusApproved,
	models.StatusObsolete,
}

// SeedMultiAuthor writes count documents to ws, rotating authors, statuses
// and document types. Creation times are staggered one day apart ending
// today.
func (s *Seeder) SeedMultiAuthor(count int, ws Workspace, clean bool) ([]string, error) {
	count = s.count(count)
	if err := s.prepare(clean, ws); err != nil {
		return nil, err
	}

	base := s.WorkspacePath(ws)
	bar := s.newBar(count, "seeding multi-author documents")
	defer bar.Finish()

	var files []string
	for i := 1; i <= count; i++ {
		author := s.authors[i%len(s.authors)]
		status := multiAuthorStatuses[i%len(multiAuthorStatuses)]
		created := s.gen.GenerateTimestamp(-(count - i))

		var (
			content string
			path    string
			err     error
		)
		switch i % 3 {
		case 0:
			content, err = s.gen.RFC(generator.RFCOptions{
				Number:  i,
				Title:   fmt.Sprintf("RFC-%03d: Multi-Author Test", i),
				Status:  status,
				Author:  author,
				Created: created,
			})
			path = filepath.Join(base, "rfcs", fmt.Sprintf("RFC-%03d-multi-author.md", i))
		case 1:
			content, err = s.gen.PRD(generator.PRDOptions{
				Number:  i,
				Title:   fmt.Sprintf("PRD-%03d: Multi-Author Feature", i),
				Status:  status,
				Author:  author,
				Created: created,
			})
			path = filepath.Join(base, "prds", fmt.Sprintf("PRD-%03d-multi-author.md", i))
		default:
			content, err = s.gen.MeetingNotes(generator.MeetingOptions{
				Number:    i,
				Title:     fmt.Sprintf("Meeting-%03d: Multi-Author Sync", i),
				Attendees: []string{author, s.authors[(i+1)%len(s.authors)]},
				Created:   created,
			})
			path = filepath.Join(base, "meetings", fmt.Sprintf("MEET-%03d-multi-author.md", i))
		}
		if err != nil {
			return files, err
		}
		if err := s.write(path, content); err != nil {
			return files, err
		}
		files = append(files, path)
		_ = bar.Add(1)
	}

	s.logger.Info("seeded workspace", "scenario", ScenarioMultiAuthor, "workspace", ws,
		"documents", len(files), "authors", len(s.authors))
	return files, nil
}

// SeedScenario seeds sc with count documents (or pairs). Single-workspace
// scenarios target the testing workspace.
func (s *Seeder) SeedScenario(sc Scenario, count int, clean bool) (*SeedResult, error) {
	res := &SeedResult{Scenario: sc}

	var err error
	switch sc {
	case ScenarioBasic:
		res.Files, err = s.SeedBasic(count, WorkspaceTesting, clean)
	case ScenarioMultiAuthor:
		res.Files, err = s.SeedMultiAuthor(count, WorkspaceTesting, clean)
	case ScenarioMigration:
		res.Source, res.Target, err = s.SeedMigration(count, clean)
	case ScenarioConflict:
		res.Source, res.Target, err = s.SeedConflict(count, clean)
	default:
		return nil, fmt.Errorf("unsupported scenario %q", sc)
	}
	if len(res.Source) > 0 || len(res.Target) > 0 {
		res.Files = append(append([]string(nil), res.Source...), res.Target...)
	}
	if err != nil {
		return res, err
	}
	return res, nil
}
