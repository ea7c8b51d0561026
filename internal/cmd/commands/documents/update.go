package documents

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

type UpdateCommand struct {
	*base.Command

	client      base.ClientFlags
	flagTitle   string
	flagStatus  string
	flagSummary string
}

func (c *UpdateCommand) Synopsis() string {
	return "Update document metadata"
}

func (c *UpdateCommand) Help() string {
	return `Usage: hermes-client documents update [options] <id>

  Update a document's title, status or summary. Only the given fields are
  changed.` +
		c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("update", flag.ContinueOnError))
	c.client.AddFlags(f)
	f.StringVar(&c.flagTitle, "title", "", "New document title.")
	f.StringVar(&c.flagStatus, "status", "",
		"New status: WIP, In-Review, Approved or Obsolete.")
	f.StringVar(&c.flagSummary, "summary", "", "New document summary.")
	return f
}

func (c *UpdateCommand) Run(args []string) int {
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

	var patch models.DocumentPatchRequest
	if c.flagTitle != "" {
		patch.Title = models.Ptr(c.flagTitle)
	}
	if c.flagSummary != "" {
		patch.Summary = models.Ptr(c.flagSummary)
	}
	if c.flagStatus != "" {
		st, err := models.ParseDocumentStatus(c.flagStatus)
		if err != nil {
			ui.Error(fmt.Sprintf("invalid status: %v", err))
			return 1
		}
		patch.Status = &st
	}
	if patch.IsEmpty() {
		ui.Warn("No updates specified")
		return 1
	}

	cl, err := c.client.Client(c.Log)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	defer cl.Close()

	doc, err := cl.Documents.Update(context.Background(), id, patch)
	if err != nil {
		ui.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}
	ui.Info(fmt.Sprintf("Updated document: %s", doc.Title))
	return 0
}
