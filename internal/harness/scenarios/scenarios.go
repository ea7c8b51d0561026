// Package scenarios runs end-to-end harness scenarios: check health, seed
// workspaces, wait for the indexer and compare what Hermes serves with a
// local reference index.
package scenarios

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/hermes-client/internal/harness/index"
	"github.com/hashicorp-forge/hermes-client/internal/harness/seeding"
	"github.com/hashicorp-forge/hermes-client/internal/harness/validation"
)

// DefaultQueries are searched at the end of the basic scenario.
var DefaultQueries = []string{"test", "RFC", "distributed", "framework"}

// Options tune a single run.
type Options struct {
	// Count is the number of documents, or document pairs for two-workspace
	// scenarios. Zero uses the seeder default.
	Count int

	// Clean removes existing workspace files before seeding.
	Clean bool

	// WaitForIndexing polls until the seeded documents are searchable. Only
	// the basic scenario may skip it.
	WaitForIndexing bool
}

// SearchCheck compares a query's hit count on the server with the
// reference index.
type SearchCheck struct {
	Query     string
	Remote    int
	Reference uint64
}

// Matches reports whether the server returned what the reference expects.
func (c SearchCheck) Matches() bool {
	return uint64(c.Remote) == c.Reference
}

// Report is the outcome of a scenario run.
type Report struct {
	Scenario seeding.Scenario

	// DocumentsURL is where the seeded documents can be browsed.
	DocumentsURL string

	// Files is the number of files seeded; Expected the number of distinct
	// documents among them.
	Files    int
	Expected int
	Indexed  int

	// IndexingErr is set when the indexer did not catch up in time. It does
	// not fail the run.
	IndexingErr error

	Stats *validation.Stats
	// Reference holds the same counts computed from the seeded files.
	Reference *index.Stats
	Searches  []SearchCheck
	Duration time.Duration
}

// Passed reports whether indexing completed and every search matched the
// reference index.
func (rep *Report) Passed() bool {
	if rep.IndexingErr != nil {
		return false
	}
	for _, c := range rep.Searches {
		if !c.Matches() {
			return false
		}
	}
	return true
}

// Runner executes scenarios.
type Runner struct {
	seeder    *seeding.Seeder
	validator *validation.Validator
	logger    hclog.Logger
	queries   []string
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithQueries replaces DefaultQueries.
func WithQueries(q ...string) Option {
	return func(r *Runner) { r.queries = q }
}

// New returns a Runner.
func New(s *seeding.Seeder, v *validation.Validator, opts ...Option) *Runner {
	r := &Runner{
		seeder:    s,
		validator: v,
		logger:    hclog.NewNullLogger(),
		queries:   DefaultQueries,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes sc.
func (r *Runner) Run(ctx context.Context, sc seeding.Scenario, opts Options) (*Report, error) {
	switch sc {
	case seeding.ScenarioBasic:
		return r.RunBasic(ctx, opts)
	case seeding.ScenarioMigration:
		return r.RunMigration(ctx, opts)
	case seeding.ScenarioConflict:
		return r.RunConflict(ctx, opts)
	case seeding.ScenarioMultiAuthor:
		return r.RunMultiAuthor(ctx, opts)
	}
	return nil, fmt.Errorf("unsupported scenario %q", sc)
}

// RunBasic seeds a mixed workspace, optionally waits for indexing, then
// compares sample query results with the reference index.
func (r *Runner) RunBasic(ctx context.Context, opts Options) (*Report, error) {
	return r.run(ctx, seeding.ScenarioBasic, opts.Count, opts.Clean, opts.WaitForIndexing, true)
}

// RunMigration seeds matching documents in two workspaces and waits for
// indexing.
func (r *Runner) RunMigration(ctx context.Context, opts Options) (*Report, error) {
	return r.run(ctx, seeding.ScenarioMigration, opts.Count, opts.Clean, true, false)
}

// RunConflict seeds conflicting copies in two workspaces and waits for
// indexing.
func (r *Runner) RunConflict(ctx context.Context, opts Options) (*Report, error) {
	return r.run(ctx, seeding.ScenarioConflict, opts.Count, opts.Clean, true, false)
}

// RunMultiAuthor seeds documents from rotating authors and waits for
// indexing.
func (r *Runner) RunMultiAuthor(ctx context.Context, opts Options) (*Report, error) {
	return r.run(ctx, seeding.ScenarioMultiAuthor, opts.Count, opts.Clean, true, false)
}

func (r *Runner) run(ctx context.Context, sc seeding.Scenario, count int, clean, wait, search bool) (*Report, error) {
	start := r.now()
	logger := r.logger.With("scenario", sc)
	report := &Report{Scenario: sc, DocumentsURL: r.validator.Client().Config().APIURL("documents")}

	logger.Info("verifying hermes is running")
	if err := r.validator.AssertHealthy(ctx); err != nil {
		return nil, err
	}

	logger.Info("seeding documents", "count", count, "clean", clean)
	seeded, err := r.seeder.SeedScenario(sc, count, clean)
	if err != nil {
		return nil, fmt.Errorf("error seeding %s scenario: %w", sc, err)
	}
	report.Files = len(seeded.Files)

	ref, err := index.New()
	if err != nil {
		return nil, err
	}
	defer ref.Close()
	if err := ref.AddFiles(r.seeder.Fs(), seeded.Files); err != nil {
		return nil, err
	}
	expected, err := ref.Count("*")
	if err != nil {
		return nil, err
	}
	report.Expected = int(expected)
	if report.Reference, err = ref.Stats(); err != nil {
		return nil, err
	}

	if wait {
		logger.Info("waiting for indexer", "expected", report.Expected)
		report.Indexed, report.IndexingErr = r.validator.WaitForIndexing(ctx, report.Expected)
		if report.IndexingErr != nil {
			logger.Warn("indexing incomplete", "error", report.IndexingErr)
		}
	} else {
		logger.Info("skipping indexer wait")
	}

	logger.Info("collecting document statistics")
	if report.Stats, err = r.validator.DocumentStats(ctx); err != nil {
		return nil, err
	}

	if search {
		for _, q := range r.queries {
			resp, err := r.validator.AssertSearchResults(ctx, q, 0, -1)
			if err != nil {
				return nil, err
			}
			want, err := ref.Count(q)
			if err != nil {
				return nil, err
			}
			check := SearchCheck{Query: q, Remote: resp.NbHits, Reference: want}
			if !check.Matches() {
				logger.Warn("search count differs from reference", "query", q, "remote", check.Remote, "reference", check.Reference)
			}
			report.Searches = append(report.Searches, check)
		}
	}

	report.Duration = r.now().Sub(start)
	logger.Info("scenario complete", "duration", report.Duration)
	return report, nil
}

// Print writes a human readable summary of rep to w.
func (rep *Report) Print(w io.Writer) {
	header := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan)
	warn := color.New(color.FgYellow)

	header.Fprintf(w, "Scenario complete: %s\n", rep.Scenario)
	fmt.Fprintf(w, "  Files seeded:     %d\n", rep.Files)
	fmt.Fprintf(w, "  Unique documents: %d\n", rep.Expected)
	if rep.Indexed > 0 || rep.IndexingErr != nil {
		fmt.Fprintf(w, "  Indexed:          %d\n", rep.Indexed)
	}
	if rep.IndexingErr != nil {
		warn.Fprintf(w, "  Indexing incomplete: %v\n", rep.IndexingErr)
	}

	if rep.Stats != nil {
		label.Fprintln(w, "\nDocument Statistics")
		fmt.Fprintf(w, "  %-20s %6d\n", "Total Documents", rep.Stats.Total)
		for _, k := range sortedKeys(rep.Stats.ByType) {
			fmt.Fprintf(w, "    %-18s %6d\n", k, rep.Stats.ByType[k])
		}
		if len(rep.Stats.ByStatus) > 0 {
			fmt.Fprintln(w, "  By Status")
			for _, k := range sortedKeys(rep.Stats.ByStatus) {
				fmt.Fprintf(w, "    %-18s %6d\n", k, rep.Stats.ByStatus[k])
			}
		}
	}

	if rep.Reference != nil {
		label.Fprintln(w, "\nSeeded Documents")
		fmt.Fprintf(w, "  %-20s %6d\n", "Total Documents", rep.Reference.Total)
		for _, k := range sortedKeys(rep.Reference.ByType) {
			fmt.Fprintf(w, "    %-18s %6d\n", k, rep.Reference.ByType[k])
		}
	}

	if len(rep.Searches) > 0 {
		label.Fprintln(w, "\nSearch Results")
		fmt.Fprintf(w, "  %-20s %6s %9s\n", "Query", "Hits", "Expected")
		for _, c := range rep.Searches {
			line := fmt.Sprintf("  %-20s %6d %9d\n", c.Query, c.Remote, c.Reference)
			if c.Matches() {
				fmt.Fprint(w, line)
			} else {
				warn.Fprint(w, line)
			}
		}
	}

	fmt.Fprintf(w, "\nAPI: %s\n", rep.DocumentsURL)
	fmt.Fprintf(w, "Duration: %s\n", rep.Duration.Round(time.Millisecond))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
