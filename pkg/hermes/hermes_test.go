package hermes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/hermes-client/pkg/client"
	"github.com/hashicorp-forge/hermes-client/pkg/config"
	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
	"github.com/hashicorp-forge/hermes-client/pkg/transport"
)

func newTestHermes(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Hermes, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = 0

	opts = append(opts, WithClientOptions(client.WithTransportOptions(
		transport.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)))
	h := New(cfg, opts...)
	t.Cleanup(func() { _ = h.Close() })
	return h, &hits
}

func TestHermes_OneRequestPerCall(t *testing.T) {
	h, hits := newTestHermes(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v2/documents/abc":
			_ = json.NewEncoder(w).Encode(map[string]string{"title": "Hello"})
		case "/api/v2/workspace-projects":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"name": "alpha"}})
		case "/api/v2/me/reviews":
			_, _ = w.Write([]byte(`[]`))
		case "/api/v2/web/config":
			_ = json.NewEncoder(w).Encode(map[string]string{"auth_provider": "google"})
		}
	})

	doc, err := h.Documents.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, "Hello", doc.Title)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	projects, err := h.Projects.List()
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	reviews, err := h.Reviews.Mine()
	require.NoError(t, err)
	assert.Empty(t, reviews)

	wc, err := h.WebConfig()
	require.NoError(t, err)
	assert.Equal(t, "google", wc.AuthProvider)
	assert.Equal(t, int32(4), atomic.LoadInt32(hits))
}

func TestHermes_ErrorsPropagate(t *testing.T) {
	h, _ := newTestHermes(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Resource not found"}`))
	})

	_, err := h.Documents.Get("missing")
	var nf *errdefs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ResourceID)

	_, err = h.Search.Query(models.SearchRequest{Query: "x"})
	assert.True(t, errdefs.IsNotFound(err))
}

func TestHermes_CallDeadline(t *testing.T) {
	release := make(chan struct{})
	h, _ := newTestHermes(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithCallDeadline(50*time.Millisecond))
	defer close(release)

	start := time.Now()
	_, err := h.Me.Profile()
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHermes_SetAuthToken(t *testing.T) {
	var auth atomic.Value
	h, _ := newTestHermes(t, func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	})

	h.SetAuthToken("rotated")
	require.NoError(t, h.Health())
	assert.Equal(t, "Bearer rotated", auth.Load())
}
