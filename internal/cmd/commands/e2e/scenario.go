package e2e

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
	"github.com/hashicorp-forge/hermes-client/internal/harness/scenarios"
	"github.com/hashicorp-forge/hermes-client/internal/harness/seeding"
)

type ScenarioCommand struct {
	*base.Command

	harness     Flags
	flagCount   int
	flagClean   bool
	flagNoWait  bool
	flagQueries string
	flagStrict  bool

	// Progress receives the seeding progress bar. Defaults to stderr.
	Progress io.Writer
}

func (c *ScenarioCommand) Synopsis() string {
	return "Run an end-to-end scenario against Hermes"
}

func (c *ScenarioCommand) Help() string {
	return `Usage: hermes-test scenario [options] <name>

  Check that Hermes is healthy, seed the scenario's documents, wait for the
  indexer and report document statistics. The basic scenario also compares
  search hit counts with a local reference index.

  Scenarios: basic, migration, conflict, multi_author.` +
		c.Flags().Help()
}

func (c *ScenarioCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("scenario", flag.ContinueOnError))
	c.harness.AddFlags(f)
	f.IntVar(&c.flagCount, "count", 0, "Number of documents, or pairs for two-workspace scenarios.")
	f.BoolVar(&c.flagClean, "clean", true, "Remove existing workspace files first.")
	f.BoolVar(&c.flagNoWait, "no-wait", false, "Skip waiting for indexing. Only honored by basic.")
	f.StringVar(&c.flagQueries, "queries", strings.Join(scenarios.DefaultQueries, ","),
		"Comma separated queries checked by the basic scenario.")
	f.BoolVar(&c.flagStrict, "strict", false,
		"Exit non-zero when indexing is incomplete or search counts differ.")
	return f
}

func (c *ScenarioCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	name := string(seeding.ScenarioBasic)
	switch len(f.Args()) {
	case 0:
	case 1:
		name = f.Arg(0)
	default:
		ui.Error("expected at most one argument: [name]")
		return 1
	}
	sc, err := seeding.ParseScenario(name)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	ctx := context.Background()
	cfg := c.harness.Config()

	v, err := c.harness.Validator(ctx, cfg, c.Log)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	defer v.Client().Close()

	progress := c.Progress
	if progress == nil {
		progress = os.Stderr
	}
	s := seeding.NewFromConfig(cfg,
		seeding.WithLogger(c.Log.Named("seeding")),
		seeding.WithProgress(progress),
	)

	var queries []string
	for _, q := range strings.Split(c.flagQueries, ",") {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	r := scenarios.New(s, v,
		scenarios.WithLogger(c.Log.Named("scenario")),
		scenarios.WithQueries(queries...),
	)

	rep, err := r.Run(ctx, sc, scenarios.Options{
		Count:           c.flagCount,
		Clean:           c.flagClean,
		WaitForIndexing: !c.flagNoWait,
	})
	if err != nil {
		ui.Error(fmt.Sprintf("scenario %s failed: %v", sc, err))
		return 1
	}

	var b strings.Builder
	rep.Print(&b)
	ui.Output(strings.TrimRight(b.String(), "\n"))

	if c.flagStrict && !rep.Passed() {
		return 2
	}
	return 0
}
