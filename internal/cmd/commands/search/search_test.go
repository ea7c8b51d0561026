package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/hermes-client/internal/cmd/base"
)

func newSearchServer(t *testing.T, hits []map[string]interface{}) (string, *map[string]interface{}) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/search/docs", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"hits":        hits,
			"nbHits":      len(hits),
			"page":        0,
			"nbPages":     1,
			"hitsPerPage": got["hitsPerPage"],
		})
	}))
	t.Cleanup(srv.Close)
	return srv.URL, &got
}

func TestQueryCommand(t *testing.T) {
	url, got := newSearchServer(t, []map[string]interface{}{
		{"objectID": "a", "title": "Plan Graph", "docNumber": "TF-001", "product": "Terraform", "status": "WIP"},
		{"objectID": "b", "title": "Secrets Sync"},
	})

	ui := cli.NewMockUi()
	cmd := &QueryCommand{Command: &base.Command{Log: hclog.NewNullLogger(), UI: ui}}
	code := cmd.Run([]string{"-base-url", url, "-product", "Terraform", "-status", "wip", "-limit", "5", "plan", "graph"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	assert.Equal(t, "plan graph", (*got)["query"])
	assert.Equal(t, float64(5), (*got)["hitsPerPage"])
	assert.Equal(t, map[string]interface{}{"product": "Terraform", "status": "WIP"}, (*got)["filters"])

	out := ui.OutputWriter.String()
	assert.Contains(t, out, `Search Results: "plan graph" (2 of 2)`)
	assert.Contains(t, out, "TF-001")
	assert.Contains(t, out, "Plan Graph")
	assert.Contains(t, out, "Secrets Sync")
	assert.Contains(t, out, "N/A")
}

func TestQueryCommand_JSONAndEmpty(t *testing.T) {
	url, _ := newSearchServer(t, []map[string]interface{}{})

	ui := cli.NewMockUi()
	cmd := &QueryCommand{Command: &base.Command{Log: hclog.NewNullLogger(), UI: ui}}
	require.Equal(t, 0, cmd.Run([]string{"-base-url", url, "nothing"}))
	assert.Contains(t, ui.ErrorWriter.String(), "No results found")

	ui = cli.NewMockUi()
	cmd = &QueryCommand{Command: &base.Command{Log: hclog.NewNullLogger(), UI: ui}}
	require.Equal(t, 0, cmd.Run([]string{"-base-url", url, "-json", "nothing"}))
	assert.Contains(t, ui.OutputWriter.String(), `"nbHits": 0`)
}

func TestQueryCommand_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	ui := cli.NewMockUi()
	cmd := &QueryCommand{Command: &base.Command{Log: hclog.NewNullLogger(), UI: ui}}
	assert.Equal(t, 1, cmd.Run(nil))
	assert.Contains(t, ui.ErrorWriter.String(), "a search query is required")

	ui = cli.NewMockUi()
	cmd = &QueryCommand{Command: &base.Command{Log: hclog.NewNullLogger(), UI: ui}}
	assert.Equal(t, 1, cmd.Run([]string{"-status", "finished", "x"}))
	assert.Contains(t, ui.ErrorWriter.String(), "invalid status")
}
