package documents

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
)

type GetCommand struct {
	*base.Command

	client   base.ClientFlags
	flagJSON bool
}

func (c *GetCommand) Synopsis() string {
	return "Get a document by ID"
}

func (c *GetCommand) Help() string {
	return `Usage: hermes-client documents get [options] <id>

  Fetch a document's metadata. <id> is a Google file ID or document UUID.` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ContinueOnError))
	c.client.AddFlags(f)
	f.BoolVar(&c.flagJSON, "json", false, "Print the document as JSON.")
	return f
}

func (c *GetCommand) Run(args []string) int {
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

	doc, err := cl.Documents.Get(context.Background(), id)
	if err != nil {
		ui.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}

	if c.flagJSON {
		return printJSON(ui, doc)
	}

	number := doc.FullDocNumber()
	if number == "" {
		number = id
	}
	product := "N/A"
	if doc.Product != nil && doc.Product.Name != "" {
		product = doc.Product.Name
	}

	ui.Output(doc.Title)
	ui.Output(fmt.Sprintf("Document: %s", number))
	ui.Output(fmt.Sprintf("Status: %s", doc.Status))
	ui.Output(fmt.Sprintf("Product: %s", product))
	if doc.Summary != "" {
		ui.Output("\n" + doc.Summary)
	}
	return 0
}
