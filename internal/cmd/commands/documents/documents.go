package documents

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Read and update Hermes documents"
}

func (c *Command) Help() string {
	return `Usage: hermes-client documents <subcommand> [options] [args]

  This command groups subcommands for working with documents.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// printJSON writes v to the UI as indented JSON.
func printJSON(ui cli.Ui, v interface{}) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		ui.Error(fmt.Sprintf("error encoding JSON: %v", err))
		return 1
	}
	ui.Output(string(out))
	return 0
}

// oneArg checks that exactly one positional argument was given.
func oneArg(ui cli.Ui, args []string, name string) (string, bool) {
	if len(args) != 1 {
		ui.Error(fmt.Sprintf("expected exactly one argument: <%s>", name))
		return "", false
	}
	return args[0], true
}
