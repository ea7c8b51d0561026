package e2e

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
	"github.com/hashicorp-forge/hermes-client/internal/harness/seeding"
)

type CleanCommand struct {
	*base.Command

	harness       Flags
	flagWorkspace string
}

func (c *CleanCommand) Synopsis() string {
	return "Remove seeded files from test workspaces"
}

func (c *CleanCommand) Help() string {
	return `Usage: hermes-test clean [options]

  Delete every file in a test workspace. Directories are kept.` +
		c.Flags().Help()
}

func (c *CleanCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("clean", flag.ContinueOnError))
	c.harness.AddFlags(f)
	f.StringVar(&c.flagWorkspace, "workspace", string(seeding.WorkspaceAll),
		"Workspace to clean: testing, docs or all.")
	return f
}

func (c *CleanCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	ws, err := seeding.ParseWorkspace(c.flagWorkspace)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	s := seeding.NewFromConfig(c.harness.Config(), seeding.WithLogger(c.Log.Named("seeding")))
	if err := s.Clean(ws); err != nil {
		ui.Error(fmt.Sprintf("error cleaning %s workspace: %v", ws, err))
		return 1
	}

	ui.Info(fmt.Sprintf("Cleaned %s workspace in %s", ws, s.Root()))
	return 0
}
