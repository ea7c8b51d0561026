package index

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/hermes-client/internal/harness/generator"
	"github.com/hashicorp-forge/hermes-client/internal/harness/seeding"
)

func seed(t *testing.T, count int) (afero.Fs, []string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	gen := generator.New(generator.WithClock(func() time.Time {
		return time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)
	}))
	s := seeding.New("/ws", seeding.WithFs(fs), seeding.WithGenerator(gen))
	files, err := s.SeedBasic(count, seeding.WorkspaceTesting, false)
	require.NoError(t, err)
	return fs, files
}

func TestIndex_Count(t *testing.T) {
	fs, files := seed(t, 9)

	x, err := New()
	require.NoError(t, err)
	defer x.Close()

	require.NoError(t, x.AddFiles(fs, files))

	for q, want := range map[string]uint64{
		"":             9,
		"*":            9,
		"proposal":     3,
		"requirements": 3,
		"attendees":    3,
		"zeppelin":     0,
	} {
		got, err := x.Count(q)
		require.NoError(t, err, q)
		assert.Equal(t, want, got, q)
	}
}

func TestIndex_AddFile_DeduplicatesByUUID(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := seeding.New("/ws", seeding.WithFs(fs))
	source, target, err := s.SeedMigration(2, false)
	require.NoError(t, err)

	x, err := New()
	require.NoError(t, err)
	defer x.Close()

	for _, p := range append(source, target...) {
		require.NoError(t, x.AddFile(fs, p))
	}

	n, err := x.Count("*")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}

func TestIndex_AddFiles_ParseError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.md", []byte("---\ntitle: [\n---\nbody"), 0o644))

	x, err := New()
	require.NoError(t, err)
	defer x.Close()

	assert.Error(t, x.AddFiles(fs, []string{"/bad.md"}))
	assert.Error(t, x.AddFile(fs, "/missing.md"))
}

func TestIndex_Stats(t *testing.T) {
	fs, files := seed(t, 7)

	x, err := New()
	require.NoError(t, err)
	defer x.Close()
	require.NoError(t, x.AddFiles(fs, files))

	stats, err := x.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), stats.Total)
	assert.Equal(t, 2, stats.ByType["RFC"])
	assert.Equal(t, 2, stats.ByType["PRD"])
	assert.Equal(t, 3, stats.ByType["Meeting Notes"])
	assert.Equal(t, 4, stats.ByStatus["WIP"])
	assert.Equal(t, 3, stats.ByStatus["Approved"])
}
