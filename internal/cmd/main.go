package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/hermes-client/internal/version"
)

// ClientMain runs the hermes-client CLI with the given arguments and returns
// the exit code.
func ClientMain(args []string) int {
	return run(args, clientCommands)
}

// HarnessMain runs the hermes-test CLI with the given arguments and returns
// the exit code.
func HarnessMain(args []string) int {
	return run(args, harnessCommands)
}

type commandsFunc func(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory

func run(args []string, commands commandsFunc) int {
	return runWith(args, commands, os.Stdin, os.Stdout, os.Stderr)
}

func runWith(args []string, commands commandsFunc, in io.Reader, out, errOut io.Writer) int {
	cliName := args[0]

	log := hclog.New(&hclog.LoggerOptions{
		Name:   cliName,
		Level:  hclog.Warn,
		Output: errOut,
	})

	if len(args) == 2 &&
		(args[1] == "-version" ||
			args[1] == "-v") {
		args = []string{cliName, "version"}
	}

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(in),
		Writer:      out,
		ErrorWriter: errOut,
	}

	c := &cli.CLI{
		Name:       cliName,
		Args:       args[1:],
		Version:    version.Version,
		Commands:   commands(log, ui),
		HelpWriter: errOut,
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	return exitCode
}
