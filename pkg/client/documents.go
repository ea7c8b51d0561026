package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/hermes-client/pkg/docid"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
	"github.com/hashicorp-forge/hermes-client/pkg/transport"
)

// DocumentsService wraps /api/v2/documents endpoints. Document identifiers
// are Google file IDs or document UUIDs as strings.
type DocumentsService struct {
	doer Doer
}

// Get retrieves a document's metadata.
func (s *DocumentsService) Get(ctx context.Context, id string) (*models.Document, error) {
	seg, err := segment("id", id)
	if err != nil {
		return nil, err
	}

	var doc models.Document
	req := transport.Request{Method: http.MethodGet, Path: "documents/" + seg}
	if err := do(ctx, s.doer, req, &doc); err != nil {
		return nil, fmt.Errorf("failed to get document: %w", withResource(err, "document", id))
	}
	return &doc, nil
}

// GetByUUID retrieves a document by its stable UUID.
func (s *DocumentsService) GetByUUID(ctx context.Context, id docid.UUID) (*models.Document, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("failed to get document by UUID: %w", errValidation("uuid", id))
	}

	var doc models.Document
	req := transport.Request{Method: http.MethodGet, Path: "documents/uuid/" + id.String()}
	if err := do(ctx, s.doer, req, &doc); err != nil {
		return nil, fmt.Errorf("failed to get document by UUID: %w", withResource(err, "document", id.String()))
	}
	return &doc, nil
}

// Update applies a partial update. Only the fields set on patch are sent.
// When the server answers without a body the document is re-fetched.
func (s *DocumentsService) Update(ctx context.Context, id string, patch models.DocumentPatchRequest) (*models.Document, error) {
	seg, err := segment("id", id)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, errValidationWrap("patch", err)
	}

	resp, err := s.doer.Do(ctx, transport.Request{
		Method: http.MethodPatch,
		Path:   "documents/" + seg,
		Body:   patch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", withResource(err, "document", id))
	}
	if len(resp.Body) == 0 {
		return s.Get(ctx, id)
	}

	var doc models.Document
	if err := resp.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return &doc, nil
}

// Delete removes a document.
func (s *DocumentsService) Delete(ctx context.Context, id string) error {
	seg, err := segment("id", id)
	if err != nil {
		return err
	}

	req := transport.Request{Method: http.MethodDelete, Path: "documents/" + seg}
	if err := do(ctx, s.doer, req, nil); err != nil {
		return fmt.Errorf("failed to delete document: %w", withResource(err, "document", id))
	}
	return nil
}

// GetContent retrieves the Markdown body of a document.
func (s *DocumentsService) GetContent(ctx context.Context, id string) (*models.DocumentContent, error) {
	seg, err := segment("id", id)
	if err != nil {
		return nil, err
	}

	var content models.DocumentContent
	req := transport.Request{Method: http.MethodGet, Path: fmt.Sprintf("documents/%s/content", seg)}
	if err := do(ctx, s.doer, req, &content); err != nil {
		return nil, fmt.Errorf("failed to get document content: %w", withResource(err, "document", id))
	}
	content.DocumentID = id
	return &content, nil
}

// UpdateContent replaces the Markdown body of a document.
func (s *DocumentsService) UpdateContent(ctx context.Context, id, content string) error {
	seg, err := segment("id", id)
	if err != nil {
		return err
	}

	req := transport.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("documents/%s/content", seg),
		Body:   map[string]string{"content": content},
	}
	if err := do(ctx, s.doer, req, nil); err != nil {
		return fmt.Errorf("failed to update document content: %w", withResource(err, "document", id))
	}
	return nil
}

// GetRelatedResources lists the external links and Hermes documents attached
// to a document.
func (s *DocumentsService) GetRelatedResources(ctx context.Context, id string) (*models.RelatedResources, error) {
	seg, err := segment("id", id)
	if err != nil {
		return nil, err
	}

	var rr models.RelatedResources
	req := transport.Request{Method: http.MethodGet, Path: fmt.Sprintf("documents/%s/related-resources", seg)}
	if err := do(ctx, s.doer, req, &rr); err != nil {
		return nil, fmt.Errorf("failed to get related resources: %w", withResource(err, "document", id))
	}
	return &rr, nil
}

// UpdateRelatedResources replaces the related resources of a document. Nil
// lists in update are left unchanged on the server.
func (s *DocumentsService) UpdateRelatedResources(ctx context.Context, id string, update models.RelatedResourcesUpdate) error {
	seg, err := segment("id", id)
	if err != nil {
		return err
	}

	req := transport.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("documents/%s/related-resources", seg),
		Body:   update,
	}
	if err := do(ctx, s.doer, req, nil); err != nil {
		return fmt.Errorf("failed to update related resources: %w", withResource(err, "document", id))
	}
	return nil
}

// Similar returns documents semantically close to the given one.
func (s *DocumentsService) Similar(ctx context.Context, id string, limit int) (*models.SemanticSearchResponse, error) {
	seg, err := segment("id", id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	var resp models.SemanticSearchResponse
	req := transport.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("documents/%s/similar", seg),
		Query:  url.Values{"limit": {strconv.Itoa(limit)}},
	}
	if err := do(ctx, s.doer, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get similar documents: %w", withResource(err, "document", id))
	}
	return &resp, nil
}
