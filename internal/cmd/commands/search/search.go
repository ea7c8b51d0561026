package search

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Search Hermes documents"
}

func (c *Command) Help() string {
	return `Usage: hermes-client search <subcommand> [options] [args]

  This command groups subcommands for searching documents.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type QueryCommand struct {
	*base.Command

	client      base.ClientFlags
	flagIndex   string
	flagProduct string
	flagStatus  string
	flagLimit   int
	flagPage    int
	flagJSON    bool
}

func (c *QueryCommand) Synopsis() string {
	return "Run a keyword search"
}

func (c *QueryCommand) Help() string {
	return `Usage: hermes-client search query [options] <query>

  Search the document index and print matching documents.` +
		c.Flags().Help()
}

func (c *QueryCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("query", flag.ContinueOnError))
	c.client.AddFlags(f)
	f.StringVar(&c.flagIndex, "index", models.DefaultSearchIndex, "Search index to query.")
	f.StringVar(&c.flagProduct, "product", "", "Only return documents for this product.")
	f.StringVar(&c.flagStatus, "status", "", "Only return documents with this status.")
	f.IntVar(&c.flagLimit, "limit", models.DefaultHitsPerPage, "Maximum number of results.")
	f.IntVar(&c.flagPage, "page", 0, "Zero-based result page.")
	f.BoolVar(&c.flagJSON, "json", false, "Print the raw search response as JSON.")
	return f
}

func (c *QueryCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	query := strings.Join(f.Args(), " ")
	if query == "" {
		ui.Error("a search query is required")
		return 1
	}

	req := models.SearchRequest{
		Query:       query,
		Index:       c.flagIndex,
		Page:        c.flagPage,
		HitsPerPage: c.flagLimit,
	}
	filters := map[string]interface{}{}
	if c.flagProduct != "" {
		filters["product"] = c.flagProduct
	}
	if c.flagStatus != "" {
		st, err := models.ParseDocumentStatus(c.flagStatus)
		if err != nil {
			ui.Error(fmt.Sprintf("invalid status: %v", err))
			return 1
		}
		filters["status"] = st.String()
	}
	if len(filters) > 0 {
		req.Filters = filters
	}

	cl, err := c.client.Client(c.Log)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	defer cl.Close()

	resp, err := cl.Search.Query(context.Background(), req)
	if err != nil {
		ui.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}

	if c.flagJSON {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			ui.Error(fmt.Sprintf("error encoding JSON: %v", err))
			return 1
		}
		ui.Output(string(out))
		return 0
	}

	if len(resp.Hits) == 0 {
		ui.Warn("No results found")
		return 0
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Doc #", "Title", "Product", "Status")
	for _, hit := range resp.Hits {
		status := "N/A"
		if hit.Status != nil {
			status = hit.Status.String()
		}
		t.Row(orNA(hit.DocNumber), orNA(hit.Title), orNA(hit.Product), status)
	}
	ui.Output(fmt.Sprintf("Search Results: %q (%d of %d)", query, len(resp.Hits), resp.NbHits))
	ui.Output(t.String())
	return 0
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
