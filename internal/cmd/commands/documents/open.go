package documents

import (
	"flag"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/browser"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
)

type OpenCommand struct {
	*base.Command

	client    base.ClientFlags
	flagPrint bool

	// openURL is swapped in tests.
	openURL func(string) error
}

func (c *OpenCommand) Synopsis() string {
	return "Open a document in the Hermes web UI"
}

func (c *OpenCommand) Help() string {
	return `Usage: hermes-client documents open [options] <id>

  Open a document in the default web browser.` +
		c.Flags().Help()
}

func (c *OpenCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("open", flag.ContinueOnError))
	c.client.AddFlags(f)
	f.BoolVar(&c.flagPrint, "print", false, "Print the URL instead of opening it.")
	return f
}

func (c *OpenCommand) Run(args []string) int {
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

	cfg, err := c.client.Config()
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	u := DocumentURL(cfg.BaseURL, id)

	if c.flagPrint {
		ui.Output(u)
		return 0
	}

	open := c.openURL
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(u); err != nil {
		ui.Error(fmt.Sprintf("error opening browser: %v", err))
		ui.Output(u)
		return 1
	}
	return 0
}

// DocumentURL returns the web UI address of a document.
func DocumentURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/document/" + url.PathEscape(id)
}
