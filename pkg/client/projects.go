package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp-forge/hermes-client/pkg/models"
	"github.com/hashicorp-forge/hermes-client/pkg/transport"
)

// ProjectsService wraps workspace project endpoints.
type ProjectsService struct {
	doer Doer
}

// List returns every workspace project.
func (s *ProjectsService) List(ctx context.Context) ([]models.Project, error) {
	var projects models.ProjectList
	req := transport.Request{Method: http.MethodGet, Path: "workspace-projects"}
	if err := do(ctx, s.doer, req, &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		return []models.Project{}, nil
	}
	return projects, nil
}

// Get returns a single project by name.
func (s *ProjectsService) Get(ctx context.Context, name string) (*models.Project, error) {
	seg, err := segment("name", name)
	if err != nil {
		return nil, err
	}

	var project models.Project
	req := transport.Request{Method: http.MethodGet, Path: "workspace-projects/" + seg}
	if err := do(ctx, s.doer, req, &project); err != nil {
		return nil, fmt.Errorf("failed to get project: %w", withResource(err, "project", name))
	}
	return &project, nil
}

// GetRelatedResources lists links and documents attached to a project.
func (s *ProjectsService) GetRelatedResources(ctx context.Context, name string) (*models.ProjectRelatedResources, error) {
	seg, err := segment("name", name)
	if err != nil {
		return nil, err
	}

	var rr models.ProjectRelatedResources
	req := transport.Request{Method: http.MethodGet, Path: fmt.Sprintf("projects/%s/related-resources", seg)}
	if err := do(ctx, s.doer, req, &rr); err != nil {
		return nil, fmt.Errorf("failed to get project related resources: %w", withResource(err, "project", name))
	}
	return &rr, nil
}
