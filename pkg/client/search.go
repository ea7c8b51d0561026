package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
	"github.com/hashicorp-forge/hermes-client/pkg/transport"
)

// SearchService wraps the search endpoints.
type SearchService struct {
	doer Doer
}

// Query runs a keyword search. Index defaults to "docs" and HitsPerPage to 20.
// The response is validated before it is returned.
func (s *SearchService) Query(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, errValidationWrap("search", err)
	}
	index, err := segment("index", req.Index)
	if err != nil {
		return nil, err
	}

	var resp models.SearchResponse
	if err := do(ctx, s.doer, transport.Request{
		Method: http.MethodPost,
		Path:   "search/" + index,
		Body:   req,
	}, &resp); err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, &errdefs.ValidationError{Field: "response", Msg: "invalid search response", Err: err}
	}
	return &resp, nil
}

// Semantic runs a vector similarity search.
func (s *SearchService) Semantic(ctx context.Context, req models.SemanticSearchRequest) (*models.SemanticSearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errValidation("query", req.Query)
	}

	var resp models.SemanticSearchResponse
	if err := do(ctx, s.doer, transport.Request{
		Method: http.MethodPost,
		Path:   "search/semantic",
		Body:   req,
	}, &resp); err != nil {
		return nil, fmt.Errorf("failed to run semantic search: %w", err)
	}
	return &resp, nil
}

// Hybrid runs a combined keyword and vector search.
func (s *SearchService) Hybrid(ctx context.Context, req models.HybridSearchRequest) (*models.HybridSearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errValidation("query", req.Query)
	}

	var resp models.HybridSearchResponse
	if err := do(ctx, s.doer, transport.Request{
		Method: http.MethodPost,
		Path:   "search/hybrid",
		Body:   req,
	}, &resp); err != nil {
		return nil, fmt.Errorf("failed to run hybrid search: %w", err)
	}
	return &resp, nil
}
