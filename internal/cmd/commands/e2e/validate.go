package e2e

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
)

type ValidateCommand struct {
	*base.Command

	harness      Flags
	flagExpected int
	flagWait     bool
	flagQuery    string
	flagMin      int
	flagMax      int
	flagDocument string
	flagContains string
	flagStats    bool
}

func (c *ValidateCommand) Synopsis() string {
	return "Assert the state of a running Hermes deployment"
}

func (c *ValidateCommand) Help() string {
	return `Usage: hermes-test validate [options]

  Check that Hermes is healthy and run the requested assertions. Every
  assertion runs even when an earlier one fails; all failures are reported.` +
		c.Flags().Help()
}

func (c *ValidateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("validate", flag.ContinueOnError))
	c.harness.AddFlags(f)
	f.IntVar(&c.flagExpected, "expected", -1, "Assert the index holds at least this many documents.")
	f.BoolVar(&c.flagWait, "wait", false, "Wait for -expected documents to be indexed.")
	f.StringVar(&c.flagQuery, "query", "", "Assert the hit count of this search.")
	f.IntVar(&c.flagMin, "min", 1, "Minimum hits for -query.")
	f.IntVar(&c.flagMax, "max", -1, "Maximum hits for -query. Negative means unlimited.")
	f.StringVar(&c.flagDocument, "document", "", "Assert this document exists.")
	f.StringVar(&c.flagContains, "contains", "", "Assert -document content contains this text.")
	f.BoolVar(&c.flagStats, "stats", false, "Print document counts by type and status.")
	return f
}

func (c *ValidateCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagContains != "" && c.flagDocument == "" {
		ui.Error("-contains requires -document")
		return 1
	}

	ctx := context.Background()
	v, err := c.harness.Validator(ctx, c.harness.Config(), c.Log)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	defer v.Client().Close()

	if err := v.AssertHealthy(ctx); err != nil {
		ui.Error(err.Error())
		return 1
	}
	ui.Info("Hermes is healthy")

	var result *multierror.Error

	if c.flagExpected >= 0 {
		n, err := v.AssertDocumentCount(ctx, c.flagExpected, c.flagWait)
		if err != nil {
			result = multierror.Append(result, err)
		} else {
			ui.Info(fmt.Sprintf("Document count: %d", n))
		}
	}

	if c.flagQuery != "" {
		resp, err := v.AssertSearchResults(ctx, c.flagQuery, c.flagMin, c.flagMax)
		if err != nil {
			result = multierror.Append(result, err)
		} else {
			ui.Info(fmt.Sprintf("Search %q: %d results", c.flagQuery, len(resp.Hits)))
		}
	}

	if c.flagDocument != "" {
		if doc, err := v.AssertDocumentExists(ctx, c.flagDocument); err != nil {
			result = multierror.Append(result, err)
		} else {
			ui.Info(fmt.Sprintf("Document %s: %s", c.flagDocument, doc.Title))
		}
		if c.flagContains != "" {
			if err := v.AssertDocumentContent(ctx, c.flagDocument, c.flagContains); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	if c.flagStats {
		stats, err := v.DocumentStats(ctx)
		if err != nil {
			result = multierror.Append(result, err)
		} else {
			ui.Output(fmt.Sprintf("Total documents: %d", stats.Total))
			ui.Output(formatCounts("By type", stats.ByType))
			ui.Output(formatCounts("By status", stats.ByStatus))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}

func formatCounts(title string, counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(title)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %-18s %6d", k, counts[k])
	}
	return b.String()
}
