package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
)

func TestDocument_FullDocNumber(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "product abbreviation and number",
			doc:  Document{Title: "x", Product: &Product{Name: "Terraform", Abbreviation: "TF"}, DocumentNumber: 123},
			want: "TF-123",
		},
		{
			name: "falls back to raw doc number",
			doc:  Document{Title: "x", DocNumber: "VLT-007"},
			want: "VLT-007",
		},
		{
			name: "product without number falls back",
			doc:  Document{Title: "x", Product: &Product{Abbreviation: "TF"}, DocNumber: "TF-???"},
			want: "TF-???",
		},
		{
			name: "nothing derivable",
			doc:  Document{Title: "x"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.FullDocNumber())
		})
	}
}

func TestDocument_UnmarshalJSON(t *testing.T) {
	data := `{
		"objectID": "1abc",
		"documentUuid": "550e8400-e29b-41d4-a716-446655440000",
		"title": "RFC-001: Test RFC",
		"docNumber": "TF-001",
		"docType": "RFC",
		"product": "Terraform",
		"owners": ["alice@example.com"],
		"approvers": [{"emailAddress": "bob@example.com", "name": "Bob"}],
		"createdAt": "2024-01-02T03:04:05Z",
		"documentModifiedAt": 1704164645,
		"futureField": true
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	assert.Equal(t, StatusWIP, doc.Status, "status defaults to WIP")
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", doc.DocumentUUID.String())
	assert.Equal(t, "RFC", doc.DocumentType.Name)
	assert.Equal(t, "Terraform", doc.Product.Name)
	require.Len(t, doc.Owners, 1)
	assert.Equal(t, "alice@example.com", doc.Owners[0].DisplayName())
	assert.Equal(t, "Bob", doc.Approvers[0].DisplayName())
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), doc.CreatedAt.UTC())
	assert.Equal(t, int64(1704164645), doc.DocumentModifiedAt.Unix())
	assert.NoError(t, doc.Validate())

	t.Run("unknown status is rejected", func(t *testing.T) {
		var d Document
		err := json.Unmarshal([]byte(`{"title":"x","status":"Published"}`), &d)
		require.Error(t, err)
		assert.ErrorIs(t, err, errdefs.ErrValidation)
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		var d Document
		require.NoError(t, json.Unmarshal([]byte(`{"status":"Approved"}`), &d))
		assert.Error(t, d.Validate())
	})
}

func TestParseDocumentStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    DocumentStatus
		wantErr bool
	}{
		{in: "WIP", want: StatusWIP},
		{in: "draft", want: StatusWIP},
		{in: "In-Review", want: StatusInReview},
		{in: "In Review", want: StatusInReview},
		{in: "approved", want: StatusApproved},
		{in: "Obsolete", want: StatusObsolete},
		{in: "Unspecified", want: StatusUnspecified},
		{in: "Published", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDocumentStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errdefs.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestDocumentPatchRequest_OmitsUnsetFields(t *testing.T) {
	patch := DocumentPatchRequest{
		Title:  Ptr("New title"),
		Status: Ptr(StatusApproved),
	}

	data, err := json.Marshal(patch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"New title","status":"Approved"}`, string(data))
	assert.False(t, patch.IsEmpty())
	assert.NoError(t, patch.Validate())

	t.Run("explicit empty list is sent", func(t *testing.T) {
		data, err := json.Marshal(DocumentPatchRequest{Contributors: &[]string{}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"contributors":[]}`, string(data))
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, DocumentPatchRequest{}.IsEmpty())
	})

	t.Run("invalid values", func(t *testing.T) {
		assert.Error(t, DocumentPatchRequest{Status: Ptr(DocumentStatus("Nope"))}.Validate())
		assert.Error(t, DocumentPatchRequest{Title: Ptr("")}.Validate())
	})
}

func TestRelatedResourcesUpdate_OmitsUnsetLists(t *testing.T) {
	update := RelatedResourcesUpdate{
		ExternalLinks: &[]ExternalLink{{Name: "Design", URL: "https://example.com", SortOrder: 1}},
	}
	data, err := json.Marshal(update)
	require.NoError(t, err)
	assert.JSONEq(t, `{"externalLinks":[{"name":"Design","url":"https://example.com","sortOrder":1}]}`, string(data))
}

func TestSearchResponse(t *testing.T) {
	t.Run("algolia keys", func(t *testing.T) {
		data := `{
			"hits": [{"objectID": "a", "title": "RFC", "status": "Approved", "docType": "RFC", "_highlightResult": {"title": "x"}}],
			"nbHits": 1, "page": 0, "nbPages": 1, "hitsPerPage": 20
		}`
		var resp SearchResponse
		require.NoError(t, json.Unmarshal([]byte(data), &resp))
		assert.Equal(t, 1, resp.NbHits)
		require.Len(t, resp.Hits, 1)
		assert.Equal(t, "a", resp.Hits[0].ObjectID)
		assert.Equal(t, StatusApproved, *resp.Hits[0].Status)
		assert.Equal(t, "RFC", resp.Hits[0].DocType)
		assert.Contains(t, resp.Hits[0].Extra, "_highlightResult")
		assert.NoError(t, resp.Validate())
	})

	t.Run("snake case keys and defaults", func(t *testing.T) {
		data := `{"hits": [{"objectID": "a", "doc_type": "PRD", "modified_time": 42}], "nb_hits": 7}`
		var resp SearchResponse
		require.NoError(t, json.Unmarshal([]byte(data), &resp))
		assert.Equal(t, 7, resp.NbHits)
		assert.Equal(t, 20, resp.HitsPerPage)
		assert.Equal(t, "PRD", resp.Hits[0].DocType)
		assert.Equal(t, int64(42), resp.Hits[0].ModifiedTime)
		assert.NoError(t, resp.Validate())
	})

	t.Run("empty response", func(t *testing.T) {
		var resp SearchResponse
		require.NoError(t, json.Unmarshal([]byte(`{"nbHits": 0}`), &resp))
		assert.NotNil(t, resp.Hits)
		assert.NoError(t, resp.Validate())
	})

	t.Run("inconsistent counters", func(t *testing.T) {
		tests := []SearchResponse{
			{NbHits: -1, HitsPerPage: 20},
			{Hits: []SearchResult{{ObjectID: "a"}, {ObjectID: "b"}}, NbHits: 1, HitsPerPage: 20},
			{Hits: []SearchResult{{ObjectID: "a"}, {ObjectID: "b"}}, NbHits: 2, HitsPerPage: 1},
			{Hits: []SearchResult{{ObjectID: "a"}}, NbHits: 5, Page: 5, HitsPerPage: 1},
			{Hits: []SearchResult{{}}, NbHits: 1, HitsPerPage: 20},
		}
		for _, resp := range tests {
			assert.Error(t, resp.Validate())
		}
	})
}

func TestSearchResult_MarshalKeepsExtra(t *testing.T) {
	r := SearchResult{ObjectID: "a", Title: "T", Extra: map[string]interface{}{"tags": []interface{}{"x"}}}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"objectID":"a","title":"T","tags":["x"]}`, string(data))
}

func TestSearchRequest(t *testing.T) {
	req := SearchRequest{Query: "RFC"}.WithDefaults()
	assert.Equal(t, "docs", req.Index)
	assert.Equal(t, 20, req.HitsPerPage)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"RFC","page":0,"hitsPerPage":20}`, string(data))

	assert.Error(t, SearchRequest{Page: -1}.Validate())
}

func TestProjectList(t *testing.T) {
	for name, data := range map[string]string{
		"bare array": `[{"name":"alpha","projectUuid":"550e8400-e29b-41d4-a716-446655440000"}]`,
		"envelope":   `{"projects":[{"name":"alpha","projectUuid":"550e8400-e29b-41d4-a716-446655440000"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			var list ProjectList
			require.NoError(t, json.Unmarshal([]byte(data), &list))
			require.Len(t, list, 1)
			assert.Equal(t, "alpha", list[0].Name)
			assert.NoError(t, list[0].Validate())
		})
	}

	assert.Error(t, Project{}.Validate())
}

func TestTimestamp(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-01 10:00:00"`), &ts))
	assert.Equal(t, 2024, ts.Year())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"not a date"`), &ts))

	data, err := json.Marshal(Timestamp{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-01T00:00:00Z"`, string(data))
}
