package main

import (
	"os"

	"github.com/hashicorp-forge/hermes-client/internal/cmd"
)

func main() {
	os.Exit(cmd.HarnessMain(os.Args))
}
