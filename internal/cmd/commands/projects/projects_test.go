package projects

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
)

func TestListCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/workspace-projects", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"projects": [
			{"name": "docs", "title": "Documentation", "jiraEnabled": true},
			{"name": "rfcs", "title": "Design Proposals"}
		]}`))
	}))
	defer srv.Close()

	ui := cli.NewMockUi()
	cmd := &ListCommand{Command: &base.Command{Log: hclog.NewNullLogger(), UI: ui}}
	require.Equal(t, 0, cmd.Run([]string{"-base-url", srv.URL}), ui.ErrorWriter.String())

	out := ui.OutputWriter.String()
	assert.Contains(t, out, "Documentation")
	assert.Contains(t, out, "Design Proposals")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "✗")

	ui = cli.NewMockUi()
	cmd = &ListCommand{Command: &base.Command{Log: hclog.NewNullLogger(), UI: ui}}
	require.Equal(t, 0, cmd.Run([]string{"-base-url", srv.URL, "-json"}))
	assert.Contains(t, ui.OutputWriter.String(), `"jiraEnabled": true`)

	ui = cli.NewMockUi()
	cmd = &ListCommand{Command: &base.Command{Log: hclog.NewNullLogger(), UI: ui}}
	assert.Equal(t, 1, cmd.Run([]string{"-base-url", srv.URL, "extra"}))
}
