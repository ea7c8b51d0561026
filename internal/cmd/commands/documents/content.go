package documents

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
)

type GetContentCommand struct {
	*base.Command

	client     base.ClientFlags
	flagOutput string
}

func (c *GetContentCommand) Synopsis() string {
	return "Print a document's Markdown content"
}

func (c *GetContentCommand) Help() string {
	return `Usage: hermes-client documents get-content [options] <id>

  Fetch a document's Markdown body and print it or save it to a file.` +
		c.Flags().Help()
}

func (c *GetContentCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get-content", flag.ContinueOnError))
	c.client.AddFlags(f)
	f.StringVar(&c.flagOutput, "output", "", "Write the content to this file instead of stdout.")
	return f
}

func (c *GetContentCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	id, ok := oneArg(ui, f.Args(), "id")
	if !ok {
		return 1
	}

	cl, err := c.client.Client(c.Log)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	defer cl.Close()

	content, err := cl.Documents.GetContent(context.Background(), id)
	if err != nil {
		ui.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}

	if c.flagOutput == "" {
		ui.Output(content.Content)
		return 0
	}
	if err := os.WriteFile(c.flagOutput, []byte(content.Content), 0o644); err != nil {
		ui.Error(fmt.Sprintf("error writing %s: %v", c.flagOutput, err))
		return 1
	}
	ui.Info(fmt.Sprintf("Content saved to %s", c.flagOutput))
	return 0
}

type UpdateContentCommand struct {
	*base.Command

	client   base.ClientFlags
	flagFile string
}

func (c *UpdateContentCommand) Synopsis() string {
	return "Replace a document's content from a Markdown file"
}

func (c *UpdateContentCommand) Help() string {
	return `Usage: hermes-client documents update-content -file=<path> [options] <id>

  Replace a document's Markdown body with the contents of a file.` +
		c.Flags().Help()
}

func (c *UpdateContentCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("update-content", flag.ContinueOnError))
	c.client.AddFlags(f)
	f.StringVar(&c.flagFile, "file", "", "(Required) Markdown file to upload.")
	return f
}

func (c *UpdateContentCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	id, ok := oneArg(ui, f.Args(), "id")
	if !ok {
		return 1
	}
	if c.flagFile == "" {
		ui.Error("file flag is required")
		return 1
	}

	data, err := os.ReadFile(c.flagFile)
	if err != nil {
		ui.Error(fmt.Sprintf("error reading %s: %v", c.flagFile, err))
		return 1
	}

	cl, err := c.client.Client(c.Log)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	defer cl.Close()

	if err := cl.Documents.UpdateContent(context.Background(), id, string(data)); err != nil {
		ui.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}
	ui.Info(fmt.Sprintf("Updated content for %s", id))
	return 0
}
