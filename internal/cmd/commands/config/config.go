package config

import (
	"flag"
	"fmt"
	"sort"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
)

type Command struct {
	*base.Command

	client base.ClientFlags
}

func (c *Command) Synopsis() string {
	return "Show the resolved client configuration"
}

func (c *Command) Help() string {
	return `Usage: hermes-client config show [options]

  Print the configuration the client would use after applying defaults, the
  environment, the config file and flags. The auth token is never printed.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("config", flag.ContinueOnError))
	c.client.AddFlags(f)
	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.client.Config()
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	shown := cfg.Redacted()
	keys := make([]string, 0, len(shown))
	for k := range shown {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ui.Output("Hermes Configuration")
	for _, k := range keys {
		ui.Output(fmt.Sprintf("  %-16s %s", k+":", shown[k]))
	}
	return 0
}
