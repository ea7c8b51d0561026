// Package index keeps an in-memory full-text index of seeded documents. The
// scenario runner queries it for the hit counts a correctly indexed Hermes
// deployment should return.
package index

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/hermes-client/pkg/frontmatter"
)

// Index is a reference index. Documents are keyed by UUID, so copies of the
// same document in several workspaces count once.
type Index struct {
	idx    bleve.Index
	parser *frontmatter.Parser
}

// entry is the indexed form of a seeded document.
type entry struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	DocType string   `json:"docType"`
	Status  string   `json:"status"`
	Product string   `json:"product"`
	Authors []string `json:"authors"`
	Tags    []string `json:"tags"`
	Path    string   `json:"path"`
}

// Stats are facet counts over every indexed document.
type Stats struct {
	Total    uint64
	ByType   map[string]int
	ByStatus map[string]int
}

// New returns an empty in-memory index.
func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(documentMapping())
	if err != nil {
		return nil, fmt.Errorf("error creating reference index: %w", err)
	}
	return &Index{idx: idx, parser: frontmatter.NewParser()}, nil
}

func documentMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("docType", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("status", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("product", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("authors", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("tags", keywordFieldMapping)

	pathMapping := bleve.NewKeywordFieldMapping()
	pathMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("path", pathMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

func (x *Index) load(fs afero.Fs, path string) (string, entry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", entry{}, fmt.Errorf("error reading %s: %w", path, err)
	}
	doc, err := x.parser.Parse(data)
	if err != nil {
		return "", entry{}, fmt.Errorf("error parsing %s: %w", path, err)
	}

	id := path
	if !doc.UUID.IsZero() {
		id = doc.UUID.String()
	}
	return id, entry{
		Title:   doc.Title,
		Content: doc.Content,
		DocType: doc.DocType,
		Status:  doc.Status.String(),
		Product: doc.Product,
		Authors: doc.Authors,
		Tags:    doc.Tags,
		Path:    path,
	}, nil
}

// AddFile parses the document at path on fs and indexes it.
func (x *Index) AddFile(fs afero.Fs, path string) error {
	id, e, err := x.load(fs, path)
	if err != nil {
		return err
	}
	return x.idx.Index(id, e)
}

// AddFiles indexes every path in one batch. Nothing is indexed if any file
// fails to parse.
func (x *Index) AddFiles(fs afero.Fs, paths []string) error {
	batch := x.idx.NewBatch()
	for _, p := range paths {
		id, e, err := x.load(fs, p)
		if err != nil {
			return err
		}
		if err := batch.Index(id, e); err != nil {
			return fmt.Errorf("error indexing %s: %w", p, err)
		}
	}
	return x.idx.Batch(batch)
}

// Count returns the number of documents matching q. An empty query or "*"
// matches everything.
func (x *Index) Count(q string) (uint64, error) {
	var sq query.Query
	switch strings.TrimSpace(q) {
	case "", "*":
		sq = bleve.NewMatchAllQuery()
	default:
		sq = bleve.NewMatchQuery(q)
	}

	req := bleve.NewSearchRequest(sq)
	req.Size = 0
	res, err := x.idx.Search(req)
	if err != nil {
		return 0, fmt.Errorf("error searching reference index: %w", err)
	}
	return res.Total, nil
}

// Stats returns document counts by type and status.
func (x *Index) Stats() (*Stats, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = 0
	req.AddFacet("docType", bleve.NewFacetRequest("docType", 100))
	req.AddFacet("status", bleve.NewFacetRequest("status", 100))

	res, err := x.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("error computing reference stats: %w", err)
	}

	stats := &Stats{
		Total:    res.Total,
		ByType:   make(map[string]int),
		ByStatus: make(map[string]int),
	}
	if f := res.Facets["docType"]; f != nil && f.Terms != nil {
		for _, term := range f.Terms.Terms() {
			stats.ByType[term.Term] = term.Count
		}
	}
	if f := res.Facets["status"]; f != nil && f.Terms != nil {
		for _, term := range f.Terms.Terms() {
			stats.ByStatus[term.Term] = term.Count
		}
	}
	return stats, nil
}

// Close releases the index.
func (x *Index) Close() error {
	return x.idx.Close()
}
