package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/hermes-client/pkg/docid"
	"github.com/hashicorp-forge/hermes-client/pkg/frontmatter"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

var fixedNow = time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)

func newTestGenerator() *Generator {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func parse(t *testing.T, text string) *frontmatter.Document {
	t.Helper()
	doc, err := frontmatter.NewParser().ParseString(text)
	require.NoError(t, err)
	return doc
}

func TestGenerateTimestamp(t *testing.T) {
	g := newTestGenerator()
	assert.Equal(t, "2025-11-08T12:00:00Z", g.GenerateTimestamp(0))
	assert.Equal(t, "2025-11-05T12:00:00Z", g.GenerateTimestamp(-3))
}

func TestGenerateUUID_Unique(t *testing.T) {
	g := New()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := g.GenerateUUID().String()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestRFC(t *testing.T) {
	id := docid.MustParseUUID("550e8400-e29b-41d4-a716-446655440000")
	text, err := newTestGenerator().RFC(RFCOptions{Number: 7, UUID: id})
	require.NoError(t, err)

	doc := parse(t, text)
	assert.Equal(t, id.String(), doc.UUID.String())
	assert.Equal(t, "RFC-007: Test RFC", doc.Title)
	assert.Equal(t, "RFC", doc.DocType)
	assert.Equal(t, models.StatusWIP, doc.Status)
	assert.Equal(t, DefaultProduct, doc.Product)
	assert.Equal(t, []string{"alice@example.com"}, doc.Authors)
	assert.Equal(t, []string{"testing", "rfc", "distributed"}, doc.Tags)
	assert.True(t, fixedNow.Equal(doc.CreatedAt))
	assert.True(t, fixedNow.Equal(doc.ModifiedAt))
	assert.Contains(t, doc.Content, "# RFC-007: Test RFC")
	assert.Contains(t, doc.Content, "**Author**: alice@example.com")
}

func TestRFC_Deterministic(t *testing.T) {
	id := docid.NewUUID()
	g := newTestGenerator()
	a, err := g.RFC(RFCOptions{Number: 1, UUID: id})
	require.NoError(t, err)
	b, err := g.RFC(RFCOptions{Number: 1, UUID: id})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPRD(t *testing.T) {
	text, err := newTestGenerator().PRD(PRDOptions{
		Number: 2,
		Status: models.StatusInReview,
		Author: "diana@example.com",
	})
	require.NoError(t, err)

	doc := parse(t, text)
	assert.Equal(t, "PRD-002: Test Product Requirements", doc.Title)
	assert.Equal(t, "PRD", doc.DocType)
	assert.Equal(t, models.StatusInReview, doc.Status)
	assert.Equal(t, []string{"diana@example.com"}, doc.Authors)
	assert.Contains(t, doc.Tags, "requirements")
	assert.False(t, doc.UUID.IsZero())
}

func TestMeetingNotes(t *testing.T) {
	text, err := newTestGenerator().MeetingNotes(MeetingOptions{
		Number:    3,
		Attendees: []string{"bob@example.com", "charlie@example.com"},
	})
	require.NoError(t, err)

	doc := parse(t, text)
	assert.Equal(t, "Meeting-003: Test Team Sync", doc.Title)
	assert.Equal(t, "Meeting Notes", doc.DocType)
	assert.Equal(t, models.StatusApproved, doc.Status)
	assert.Equal(t, []interface{}{"bob@example.com", "charlie@example.com"}, doc.Metadata["attendees"])
	assert.Contains(t, doc.Content, "**Attendees**: bob@example.com, charlie@example.com")
}

func TestDocPage(t *testing.T) {
	text, err := newTestGenerator().DocPage(DocPageOptions{Title: "Getting Started", Category: "Guides"})
	require.NoError(t, err)

	doc := parse(t, text)
	assert.Equal(t, "Documentation", doc.DocType)
	assert.Equal(t, "Guides", doc.Metadata["category"])
	assert.Equal(t, []string{"docs", "testing", "guides"}, doc.Tags)

	_, err = newTestGenerator().DocPage(DocPageOptions{})
	assert.Error(t, err)
}
