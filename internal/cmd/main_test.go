package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hashicorp-forge/hermes-client/internal/version"
)

func runTest(args []string, commands commandsFunc) (int, string, string) {
	var out, errOut bytes.Buffer
	code := runWith(args, commands, strings.NewReader(""), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	for _, args := range [][]string{
		{"hermes-client", "version"},
		{"hermes-client", "-version"},
		{"hermes-client", "-v"},
	} {
		code, out, _ := runTest(args, clientCommands)
		assert.Equal(t, 0, code)
		assert.Equal(t, version.Version+"\n", out)
	}

	code, out, _ := runTest([]string{"hermes-test", "version"}, harnessCommands)
	assert.Equal(t, 0, code)
	assert.Equal(t, version.Version+"\n", out)
}

func TestGroupCommandsShowHelp(t *testing.T) {
	code, _, errOut := runTest([]string{"hermes-client", "documents"}, clientCommands)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "create-from-file")
	assert.Contains(t, errOut, "update-content")
}

func TestCommandSets(t *testing.T) {
	client := clientCommands(nil, nil)
	for _, name := range []string{
		"config", "config show", "documents get", "documents get-content", "documents update",
		"documents update-content", "documents create-from-file", "documents open",
		"projects list", "search query", "template create", "version",
	} {
		assert.Contains(t, client, name)
	}

	harness := harnessCommands(nil, nil)
	for _, name := range []string{"seed", "scenario", "validate", "clean", "version"} {
		assert.Contains(t, harness, name)
	}
	assert.NotContains(t, harness, "documents")
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := runTest([]string{"hermes-test", "deploy"}, harnessCommands)
	assert.Equal(t, 127, code)
	assert.Contains(t, errOut, "seed")
}
