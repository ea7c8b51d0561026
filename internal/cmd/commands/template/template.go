package template

import (
	"flag"
	"fmt"
	"os"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
	"github.com/hashicorp-forge/hermes-client/pkg/frontmatter"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Create document templates"
}

func (c *Command) Help() string {
	return `Usage: hermes-client template <subcommand> [options] [args]

  This command groups subcommands for Markdown document templates.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type CreateCommand struct {
	*base.Command

	flagType    string
	flagTitle   string
	flagProduct string
	flagAuthor  string
	flagSummary string
	flagForce   bool
}

func (c *CreateCommand) Synopsis() string {
	return "Write a new document template with frontmatter"
}

func (c *CreateCommand) Help() string {
	return `Usage: hermes-client template create -type=<type> -title=<title> [options] [output]

  Write a Markdown template with a frontmatter block for a new document.
  When output is omitted the file name is derived from the type and title.` +
		c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create", flag.ContinueOnError))
	f.StringVar(&c.flagType, "type", "", "(Required) Document type, e.g. RFC or PRD.")
	f.StringVar(&c.flagTitle, "title", "", "(Required) Document title.")
	f.StringVar(&c.flagProduct, "product", "", "Product name.")
	f.StringVar(&c.flagAuthor, "author", "", "Author email.")
	f.StringVar(&c.flagSummary, "summary", "", "Document summary.")
	f.BoolVar(&c.flagForce, "force", false, "Overwrite an existing file.")
	return f
}

func (c *CreateCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagType == "" || c.flagTitle == "" {
		ui.Error("type and title flags are required")
		return 1
	}

	var output string
	switch len(f.Args()) {
	case 0:
		output = frontmatter.TemplateFilename(c.flagType, c.flagTitle)
	case 1:
		output = f.Arg(0)
	default:
		ui.Error("expected at most one argument: [output]")
		return 1
	}

	if !c.flagForce {
		if _, err := os.Stat(output); err == nil {
			ui.Error(fmt.Sprintf("%s already exists; use -force to overwrite", output))
			return 1
		}
	}

	content, err := frontmatter.CreateDocumentTemplate(frontmatter.TemplateOptions{
		DocType: c.flagType,
		Title:   c.flagTitle,
		Product: c.flagProduct,
		Author:  c.flagAuthor,
		Summary: c.flagSummary,
	})
	if err != nil {
		ui.Error(fmt.Sprintf("error creating template: %v", err))
		return 1
	}
	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		ui.Error(fmt.Sprintf("error writing %s: %v", output, err))
		return 1
	}

	ui.Info(fmt.Sprintf("Template created: %s", output))
	return 0
}
