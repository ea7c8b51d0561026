package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
	"github.com/hashicorp-forge/hermes-client/internal/cmd/commands/config"
	"github.com/hashicorp-forge/hermes-client/internal/cmd/commands/documents"
	"github.com/hashicorp-forge/hermes-client/internal/cmd/commands/e2e"
	"github.com/hashicorp-forge/hermes-client/internal/cmd/commands/projects"
	"github.com/hashicorp-forge/hermes-client/internal/cmd/commands/search"
	"github.com/hashicorp-forge/hermes-client/internal/cmd/commands/template"
	"github.com/hashicorp-forge/hermes-client/internal/cmd/commands/version"
)

func clientCommands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	b := &base.Command{Log: log, UI: ui}

	return map[string]cli.CommandFactory{
		"config": func() (cli.Command, error) {
			return &config.Command{Command: b}, nil
		},
		"config show": func() (cli.Command, error) {
			return &config.Command{Command: b}, nil
		},
		"documents": func() (cli.Command, error) {
			return &documents.Command{Command: b}, nil
		},
		"documents get": func() (cli.Command, error) {
			return &documents.GetCommand{Command: b}, nil
		},
		"documents get-content": func() (cli.Command, error) {
			return &documents.GetContentCommand{Command: b}, nil
		},
		"documents update": func() (cli.Command, error) {
			return &documents.UpdateCommand{Command: b}, nil
		},
		"documents update-content": func() (cli.Command, error) {
			return &documents.UpdateContentCommand{Command: b}, nil
		},
		"documents create-from-file": func() (cli.Command, error) {
			return &documents.CreateFromFileCommand{Command: b}, nil
		},
		"documents open": func() (cli.Command, error) {
			return &documents.OpenCommand{Command: b}, nil
		},
		"projects": func() (cli.Command, error) {
			return &projects.Command{Command: b}, nil
		},
		"projects list": func() (cli.Command, error) {
			return &projects.ListCommand{Command: b}, nil
		},
		"search": func() (cli.Command, error) {
			return &search.Command{Command: b}, nil
		},
		"search query": func() (cli.Command, error) {
			return &search.QueryCommand{Command: b}, nil
		},
		"template": func() (cli.Command, error) {
			return &template.Command{Command: b}, nil
		},
		"template create": func() (cli.Command, error) {
			return &template.CreateCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}

func harnessCommands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	b := &base.Command{Log: log, UI: ui}

	return map[string]cli.CommandFactory{
		"clean": func() (cli.Command, error) {
			return &e2e.CleanCommand{Command: b}, nil
		},
		"scenario": func() (cli.Command, error) {
			return &e2e.ScenarioCommand{Command: b}, nil
		},
		"seed": func() (cli.Command, error) {
			return &e2e.SeedCommand{Command: b}, nil
		},
		"validate": func() (cli.Command, error) {
			return &e2e.ValidateCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
