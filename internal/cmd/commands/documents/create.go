package documents

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
	"github.com/hashicorp-forge/hermes-client/pkg/frontmatter"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

type CreateFromFileCommand struct {
	*base.Command

	client base.ClientFlags
	flagID string
}

func (c *CreateFromFileCommand) Synopsis() string {
	return "Publish a Markdown file with frontmatter to a document"
}

func (c *CreateFromFileCommand) Help() string {
	return `Usage: hermes-client documents create-from-file [options] <file>

  Parse a Markdown file with a YAML frontmatter block and publish it to an
  existing Hermes document. The frontmatter must set title, docType and
  product. The target document is taken from -id, or from the frontmatter
  uuid when -id is not set.

  The document's title, summary and status are patched from the frontmatter
  and its body is replaced with the file content.` +
		c.Flags().Help()
}

func (c *CreateFromFileCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create-from-file", flag.ContinueOnError))
	c.client.AddFlags(f)
	f.StringVar(&c.flagID, "id", "", "Target document ID. Defaults to the frontmatter uuid.")
	return f
}

func (c *CreateFromFileCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	path, ok := oneArg(ui, f.Args(), "file")
	if !ok {
		return 1
	}

	p := &frontmatter.Parser{RequiredFields: []string{"title", "docType", "product"}}
	doc, err := p.ParseFile(path)
	if err != nil {
		ui.Error(fmt.Sprintf("error parsing %s: %v", path, err))
		return 1
	}

	id := c.flagID
	if id == "" && !doc.UUID.IsZero() {
		id = doc.UUID.String()
	}
	if id == "" {
		ui.Error("no target document: set -id or a uuid in the frontmatter")
		return 1
	}

	patch := models.DocumentPatchRequest{Title: models.Ptr(doc.Title)}
	if doc.Summary != "" {
		patch.Summary = models.Ptr(doc.Summary)
	}
	if doc.Status != "" && doc.Status != models.StatusUnspecified {
		st := doc.Status
		patch.Status = &st
	}

	cl, err := c.client.Client(c.Log)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	defer cl.Close()

	ctx := context.Background()
	if _, err := cl.Documents.Update(ctx, id, patch); err != nil {
		ui.Error(fmt.Sprintf("error updating %s: %v", id, err))
		return 1
	}
	if err := cl.Documents.UpdateContent(ctx, id, doc.Content); err != nil {
		ui.Error(fmt.Sprintf("error updating content of %s: %v", id, err))
		return 1
	}

	ui.Info(fmt.Sprintf("Published %s (%s, %s) to %s", doc.Title, doc.DocType, doc.Product, id))
	return 0
}
