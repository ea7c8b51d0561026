package e2e

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
	"github.com/hashicorp-forge/hermes-client/internal/harness/seeding"
)

type SeedCommand struct {
	*base.Command

	harness       Flags
	flagScenario  string
	flagWorkspace string
	flagCount     int
	flagClean     bool

	// Progress receives the progress bar. Defaults to stderr.
	Progress io.Writer
}

func (c *SeedCommand) Synopsis() string {
	return "Seed test workspaces with generated documents"
}

func (c *SeedCommand) Help() string {
	return `Usage: hermes-test seed [options]

  Write generated Markdown documents into the test workspaces so the Hermes
  indexer picks them up. Scenarios:

    basic         RFCs, PRDs and meeting notes in one workspace
    migration     the same documents in both workspaces with edits
    conflict      concurrent edits of the same document in both workspaces
    multi_author  documents from rotating authors with mixed statuses` +
		c.Flags().Help()
}

func (c *SeedCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("seed", flag.ContinueOnError))
	c.harness.AddFlags(f)
	f.StringVar(&c.flagScenario, "scenario", string(seeding.ScenarioBasic), "Scenario to seed.")
	f.StringVar(&c.flagWorkspace, "workspace", string(seeding.WorkspaceTesting),
		"Workspace for the basic and multi_author scenarios: testing or docs.")
	f.IntVar(&c.flagCount, "count", 0, "Number of documents, or pairs for two-workspace scenarios.")
	f.BoolVar(&c.flagClean, "clean", false, "Remove existing workspace files first.")
	return f
}

func (c *SeedCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	sc, err := seeding.ParseScenario(c.flagScenario)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	ws, err := seeding.ParseWorkspace(c.flagWorkspace)
	if err != nil || ws == seeding.WorkspaceAll {
		ui.Error(fmt.Sprintf("invalid workspace %q: must be testing or docs", c.flagWorkspace))
		return 1
	}

	progress := c.Progress
	if progress == nil {
		progress = os.Stderr
	}
	s := seeding.NewFromConfig(c.harness.Config(),
		seeding.WithLogger(c.Log.Named("seeding")),
		seeding.WithProgress(progress),
	)

	var files []string
	switch sc {
	case seeding.ScenarioBasic:
		files, err = s.SeedBasic(c.flagCount, ws, c.flagClean)
	case seeding.ScenarioMultiAuthor:
		files, err = s.SeedMultiAuthor(c.flagCount, ws, c.flagClean)
	default:
		var res *seeding.SeedResult
		if res, err = s.SeedScenario(sc, c.flagCount, c.flagClean); res != nil {
			files = res.Files
		}
	}
	if err != nil {
		ui.Error(fmt.Sprintf("error seeding %s scenario: %v", sc, err))
		return 1
	}

	ui.Info(fmt.Sprintf("Seeded %d files for scenario %s in %s", len(files), sc, s.Root()))
	return 0
}
