// Package base holds the pieces shared by every CLI command.
package base

import (
	"bytes"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by every command and carries its logger and UI.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
}

// FlagSet wraps a flag.FlagSet so commands can render their flags in Help.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned rather than printed.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(&bytes.Buffer{})
	f.Usage = func() {}
	return &FlagSet{FlagSet: f}
}

// Help renders the flag defaults for inclusion in a command's help text.
func (f *FlagSet) Help() string {
	var b strings.Builder
	first := true
	f.VisitAll(func(fl *flag.Flag) {
		if first {
			b.WriteString("\n\nOptions:\n")
			first = false
		}
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if name, _ := flag.UnquoteUsage(fl); name != "" {
			fmt.Fprintf(&b, "=<%s>", name)
		}
		b.WriteString("\n")
		for _, line := range strings.Split(fl.Usage, "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		if fl.DefValue != "" && fl.DefValue != "false" && fl.DefValue != "0" {
			fmt.Fprintf(&b, "    Default: %s\n", fl.DefValue)
		}
	})
	return strings.TrimRight(b.String(), "\n")
}
