package scenarios

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/hermes-client/internal/harness/index"
	"github.com/hashicorp-forge/hermes-client/internal/harness/seeding"
	"github.com/hashicorp-forge/hermes-client/internal/harness/validation"
	"github.com/hashicorp-forge/hermes-client/pkg/client"
	"github.com/hashicorp-forge/hermes-client/pkg/config"
	"github.com/hashicorp-forge/hermes-client/pkg/transport"
)

// fakeHermes answers health checks and returns indexed hits for every
// search.
type fakeHermes struct {
	indexed int
	healthy bool
}

func (f *fakeHermes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/v2/web/config":
		if !f.healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"starting"}`))
			return
		}
		_, _ = w.Write([]byte(`{"auth_provider":"dex"}`))
	case "/api/v2/search/docs":
		var req struct {
			HitsPerPage int `json:"hitsPerPage"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		hits := []map[string]interface{}{}
		for i := 0; i < f.indexed && i < req.HitsPerPage; i++ {
			hits = append(hits, map[string]interface{}{
				"objectID": fmt.Sprintf("doc-%d", i),
				"docType":  "RFC",
				"status":   "WIP",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"hits":        hits,
			"nbHits":      f.indexed,
			"page":        0,
			"nbPages":     1,
			"hitsPerPage": req.HitsPerPage,
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestRunner(t *testing.T, fake *fakeHermes, opts ...Option) (*Runner, afero.Fs) {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = 0

	c := client.New(cfg, client.WithTransportOptions(
		transport.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	))
	t.Cleanup(func() { _ = c.Close() })

	fs := afero.NewMemMapFs()
	s := seeding.New("/ws", seeding.WithFs(fs))
	v := validation.New(c,
		validation.WithPollInterval(time.Millisecond),
		validation.WithMaxWait(100*time.Millisecond),
	)
	return New(s, v, opts...), fs
}

func TestRunBasic(t *testing.T) {
	r, fs := newTestRunner(t, &fakeHermes{indexed: 6, healthy: true})

	rep, err := r.RunBasic(context.Background(), Options{Count: 6, Clean: true, WaitForIndexing: true})
	require.NoError(t, err)

	assert.Equal(t, seeding.ScenarioBasic, rep.Scenario)
	assert.Equal(t, 6, rep.Files)
	assert.Equal(t, 6, rep.Expected)
	assert.Equal(t, 6, rep.Indexed)
	assert.NoError(t, rep.IndexingErr)
	assert.Equal(t, 6, rep.Stats.Total)
	assert.Equal(t, map[string]int{"RFC": 6}, rep.Stats.ByType)

	require.Len(t, rep.Searches, len(DefaultQueries))
	byQuery := map[string]SearchCheck{}
	for _, c := range rep.Searches {
		byQuery[c.Query] = c
	}
	assert.Equal(t, 6, byQuery["test"].Remote)
	assert.Equal(t, uint64(6), byQuery["test"].Reference)
	assert.True(t, byQuery["framework"].Matches())

	require.NotNil(t, rep.Reference)
	assert.Equal(t, uint64(6), rep.Reference.Total)

	ok, err := afero.Exists(fs, "/ws/testing/README.md")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunBasic_ComparesTotalHitsBeyondFirstPage(t *testing.T) {
	r, _ := newTestRunner(t, &fakeHermes{indexed: 150, healthy: true}, WithQueries("test"))

	rep, err := r.RunBasic(context.Background(), Options{Count: 150, WaitForIndexing: true})
	require.NoError(t, err)
	assert.Equal(t, 150, rep.Indexed)

	require.Len(t, rep.Searches, 1)
	assert.Equal(t, 150, rep.Searches[0].Remote)
	assert.Equal(t, uint64(150), rep.Searches[0].Reference)
	assert.True(t, rep.Passed())
}

func TestRunBasic_IndexingTimeoutIsReported(t *testing.T) {
	r, _ := newTestRunner(t, &fakeHermes{indexed: 2, healthy: true})

	rep, err := r.RunBasic(context.Background(), Options{Count: 6, WaitForIndexing: true})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Indexed)
	require.Error(t, rep.IndexingErr)

	var verr *validation.ValidationError
	assert.ErrorAs(t, rep.IndexingErr, &verr)
	assert.False(t, rep.Passed())
}

func TestRunBasic_SkipWait(t *testing.T) {
	r, _ := newTestRunner(t, &fakeHermes{indexed: 0, healthy: true})

	rep, err := r.RunBasic(context.Background(), Options{Count: 3})
	require.NoError(t, err)
	assert.Zero(t, rep.Indexed)
	assert.NoError(t, rep.IndexingErr)
	assert.Equal(t, 0, rep.Stats.Total)
}

func TestRun_Unhealthy(t *testing.T) {
	r, fs := newTestRunner(t, &fakeHermes{healthy: false})

	_, err := r.Run(context.Background(), seeding.ScenarioBasic, Options{Count: 3})
	require.Error(t, err)

	ok, err := afero.DirExists(fs, "/ws/testing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunMigration_CountsUniqueDocuments(t *testing.T) {
	r, _ := newTestRunner(t, &fakeHermes{indexed: 3, healthy: true})

	rep, err := r.Run(context.Background(), seeding.ScenarioMigration, Options{Count: 3})
	require.NoError(t, err)
	assert.Equal(t, 6, rep.Files)
	assert.Equal(t, 3, rep.Expected)
	assert.Equal(t, 3, rep.Indexed)
	assert.NoError(t, rep.IndexingErr)
	assert.Empty(t, rep.Searches)
}

func TestRunConflictAndMultiAuthor(t *testing.T) {
	r, _ := newTestRunner(t, &fakeHermes{indexed: 4, healthy: true})
	ctx := context.Background()

	rep, err := r.RunConflict(ctx, Options{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Files)
	assert.Equal(t, 2, rep.Expected)

	rep, err = r.RunMultiAuthor(ctx, Options{Count: 4, Clean: true})
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Files)
	assert.Equal(t, 4, rep.Expected)
	assert.Equal(t, 4, rep.Indexed)
}

func TestRun_Unsupported(t *testing.T) {
	r, _ := newTestRunner(t, &fakeHermes{healthy: true})
	_, err := r.Run(context.Background(), "chaos", Options{})
	assert.Error(t, err)
}

func TestReport_Passed(t *testing.T) {
	rep := &Report{Searches: []SearchCheck{{Query: "test", Remote: 3, Reference: 3}}}
	assert.True(t, rep.Passed())

	rep.Searches = append(rep.Searches, SearchCheck{Query: "RFC", Remote: 1, Reference: 2})
	assert.False(t, rep.Passed())

	rep.Searches = nil
	rep.IndexingErr = &validation.ValidationError{Msg: "timed out"}
	assert.False(t, rep.Passed())
}

func TestReport_Print(t *testing.T) {
	color.NoColor = true

	rep := &Report{
		Scenario:     seeding.ScenarioBasic,
		DocumentsURL: "http://localhost:8001/api/v2/documents",
		Files:        6,
		Expected:     6,
		Indexed:      6,
		Stats: &validation.Stats{
			Total:    6,
			ByType:   map[string]int{"RFC": 2, "PRD": 4},
			ByStatus: map[string]int{"WIP": 6},
		},
		Reference: &index.Stats{
			Total:  6,
			ByType: map[string]int{"Memo": 5, "PRD": 1},
		},
		Searches: []SearchCheck{{Query: "test", Remote: 6, Reference: 6}},
		Duration: 1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	rep.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Scenario complete: basic")
	assert.Contains(t, out, "Unique documents: 6")
	assert.Contains(t, out, "Total Documents")
	assert.Regexp(t, `PRD\s+4`, out)
	assert.Contains(t, out, "Seeded Documents")
	assert.Regexp(t, `Memo\s+5`, out)
	assert.Regexp(t, `test\s+6\s+6`, out)
	assert.Contains(t, out, "http://localhost:8001/api/v2/documents")
	assert.Contains(t, out, "Duration: 1.5s")
	assert.NotContains(t, out, "Indexing incomplete")
}
