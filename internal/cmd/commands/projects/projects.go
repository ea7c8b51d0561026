package projects

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Work with Hermes projects"
}

func (c *Command) Help() string {
	return `Usage: hermes-client projects <subcommand> [options] [args]

  This command groups subcommands for working with projects.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type ListCommand struct {
	*base.Command

	client   base.ClientFlags
	flagJSON bool
}

func (c *ListCommand) Synopsis() string {
	return "List projects"
}

func (c *ListCommand) Help() string {
	return `Usage: hermes-client projects list [options]

  List every project visible to the caller.` +
		c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))
	c.client.AddFlags(f)
	f.BoolVar(&c.flagJSON, "json", false, "Print projects as JSON.")
	return f
}

func (c *ListCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if len(f.Args()) > 0 {
		ui.Error("this command takes no arguments")
		return 1
	}

	cl, err := c.client.Client(c.Log)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	defer cl.Close()

	projects, err := cl.Projects.List(context.Background())
	if err != nil {
		ui.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}

	if c.flagJSON {
		out, err := json.MarshalIndent(projects, "", "  ")
		if err != nil {
			ui.Error(fmt.Sprintf("error encoding JSON: %v", err))
			return 1
		}
		ui.Output(string(out))
		return 0
	}

	if len(projects) == 0 {
		ui.Warn("No projects found")
		return 0
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Title", "Jira")
	for _, p := range projects {
		jira := "✗"
		if p.JiraEnabled {
			jira = "✓"
		}
		t.Row(p.Name, p.Title, jira)
	}
	ui.Output(t.String())
	return 0
}
