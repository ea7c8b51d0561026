package models

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultSearchIndex is the index queried when none is given.
	DefaultSearchIndex = "docs"

	// DefaultHitsPerPage is the page size used when none is given.
	DefaultHitsPerPage = 20
)

// SearchRequest is a keyword search against a named index.
type SearchRequest struct {
	Query       string                 `json:"query"`
	Index       string                 `json:"-"`
	Page        int                    `json:"page"`
	HitsPerPage int                    `json:"hitsPerPage"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
}

// WithDefaults fills in the index and page size when unset.
func (r SearchRequest) WithDefaults() SearchRequest {
	if r.Index == "" {
		r.Index = DefaultSearchIndex
	}
	if r.HitsPerPage <= 0 {
		r.HitsPerPage = DefaultHitsPerPage
	}
	return r
}

// Validate checks the request before it is sent.
func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.HitsPerPage, validation.Min(0), validation.Max(1000)),
	)
}

// SearchResult is a single hit from the search index. Fields not modelled
// here are preserved in Extra.
type SearchResult struct {
	ObjectID     string          `json:"objectID"`
	Title        string          `json:"title,omitempty"`
	DocNumber    string          `json:"docNumber,omitempty"`
	Status       *DocumentStatus `json:"status,omitempty"`
	Summary      string          `json:"summary,omitempty"`
	Product      string          `json:"product,omitempty"`
	DocType      string          `json:"docType,omitempty"`
	Owners       []string        `json:"owners,omitempty"`
	ModifiedTime int64           `json:"modifiedTime,omitempty"`

	Extra map[string]interface{} `json:"-"`
}

// searchResultKeys maps every accepted spelling onto the canonical field.
var searchResultKeys = map[string]string{
	"objectID":      "objectID",
	"object_id":     "objectID",
	"title":         "title",
	"docNumber":     "docNumber",
	"doc_number":    "docNumber",
	"status":        "status",
	"summary":       "summary",
	"product":       "product",
	"docType":       "docType",
	"doc_type":      "docType",
	"owners":        "owners",
	"modifiedTime":  "modifiedTime",
	"modified_time": "modifiedTime",
}

func (r *SearchResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := map[string]json.RawMessage{}
	extra := map[string]interface{}{}
	for k, v := range raw {
		if canonical, ok := searchResultKeys[k]; ok {
			known[canonical] = v
			continue
		}
		var val interface{}
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		extra[k] = val
	}

	canonical, err := json.Marshal(known)
	if err != nil {
		return err
	}
	type result SearchResult
	var v result
	if err := json.Unmarshal(canonical, &v); err != nil {
		return fmt.Errorf("error decoding search result: %w", err)
	}
	if len(extra) > 0 {
		v.Extra = extra
	}
	*r = SearchResult(v)
	return nil
}

// MarshalJSON writes the modelled fields and Extra side by side.
func (r SearchResult) MarshalJSON() ([]byte, error) {
	type result SearchResult
	base, err := json.Marshal(result(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}
	merged := map[string]interface{}{}
	for k, v := range r.Extra {
		merged[k] = v
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// SearchResponse is a page of search hits. Both the Algolia-style
// (nbHits, hitsPerPage) and snake_case key spellings are accepted.
type SearchResponse struct {
	Hits        []SearchResult `json:"hits"`
	NbHits      int            `json:"nbHits"`
	Page        int            `json:"page"`
	NbPages     int            `json:"nbPages"`
	HitsPerPage int            `json:"hitsPerPage"`
}

func (r *SearchResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Hits           []SearchResult `json:"hits"`
		NbHits         *int           `json:"nbHits"`
		NbHitsSnake    *int           `json:"nb_hits"`
		Page           int            `json:"page"`
		NbPages        *int           `json:"nbPages"`
		NbPagesSnake   *int           `json:"nb_pages"`
		HitsPerPage    *int           `json:"hitsPerPage"`
		HitsPerPageSnk *int           `json:"hits_per_page"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = SearchResponse{
		Hits:        raw.Hits,
		NbHits:      firstInt(0, raw.NbHits, raw.NbHitsSnake),
		Page:        raw.Page,
		NbPages:     firstInt(0, raw.NbPages, raw.NbPagesSnake),
		HitsPerPage: firstInt(DefaultHitsPerPage, raw.HitsPerPage, raw.HitsPerPageSnk),
	}
	if r.Hits == nil {
		r.Hits = []SearchResult{}
	}
	return nil
}

func firstInt(def int, vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return def
}

// Validate checks that the page counters are consistent with the hits.
func (r SearchResponse) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.NbHits, validation.Min(0)),
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.NbPages, validation.Min(0)),
		validation.Field(&r.HitsPerPage, validation.Required, validation.Min(1)),
		validation.Field(&r.Hits, validation.Length(0, r.HitsPerPage)),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if len(r.Hits) > r.NbHits {
		return fmt.Errorf("validation error: hits: page holds %d hits but nbHits is %d", len(r.Hits), r.NbHits)
	}
	if len(r.Hits) > 0 && r.Page*r.HitsPerPage >= r.NbHits {
		return fmt.Errorf("validation error: page: page %d is past the last hit (nbHits %d)", r.Page, r.NbHits)
	}
	for i, hit := range r.Hits {
		if hit.ObjectID == "" {
			return fmt.Errorf("validation error: hits[%d]: objectID is required", i)
		}
	}
	return nil
}

// SemanticSearchRequest is the body of POST /api/v2/search/semantic.
type SemanticSearchRequest struct {
	Query         string   `json:"query"`
	Limit         int      `json:"limit,omitempty"`
	MinSimilarity float64  `json:"minSimilarity,omitempty"`
	DocumentIDs   []string `json:"documentIds,omitempty"`
	DocumentTypes []string `json:"documentTypes,omitempty"`
}

// SemanticSearchResult is one vector-search match.
type SemanticSearchResult struct {
	DocumentID   string  `json:"documentId"`
	DocumentUUID string  `json:"documentUuid,omitempty"`
	Title        string  `json:"title,omitempty"`
	Excerpt      string  `json:"excerpt,omitempty"`
	Similarity   float64 `json:"similarity"`
	ChunkIndex   *int    `json:"chunkIndex,omitempty"`
	ChunkText    string  `json:"chunkText,omitempty"`
}

// SemanticSearchResponse is returned by semantic search and similar-document
// lookups.
type SemanticSearchResponse struct {
	Results []SemanticSearchResult `json:"results"`
	Query   string                 `json:"query,omitempty"`
	Count   int                    `json:"count"`
}

// HybridSearchRequest is the body of POST /api/v2/search/hybrid.
type HybridSearchRequest struct {
	Query          string  `json:"query"`
	Limit          int     `json:"limit,omitempty"`
	KeywordWeight  float64 `json:"keywordWeight,omitempty"`
	SemanticWeight float64 `json:"semanticWeight,omitempty"`
	BoostBoth      float64 `json:"boostBoth,omitempty"`
	MinSimilarity  float64 `json:"minSimilarity,omitempty"`
}

// HybridSearchResult is one combined keyword and vector match.
type HybridSearchResult struct {
	DocumentID    string  `json:"documentId"`
	DocumentUUID  string  `json:"documentUuid,omitempty"`
	Title         string  `json:"title,omitempty"`
	Excerpt       string  `json:"excerpt,omitempty"`
	HybridScore   float64 `json:"hybridScore"`
	KeywordScore  float64 `json:"keywordScore"`
	SemanticScore float64 `json:"semanticScore"`
	MatchedInBoth bool    `json:"matchedInBoth"`
}

// HybridSearchResponse is the response of POST /api/v2/search/hybrid.
type HybridSearchResponse struct {
	Results []HybridSearchResult `json:"results"`
	Query   string               `json:"query"`
	Count   int                  `json:"count"`
}
