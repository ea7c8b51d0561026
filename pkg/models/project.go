package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/hermes-client/pkg/docid"
)

// Project is a workspace project.
type Project struct {
	ProjectUUID docid.UUID `json:"projectUuid"`
	ProjectID   string     `json:"projectId,omitempty"`
	Name        string     `json:"name"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	JiraEnabled bool       `json:"jiraEnabled"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty"`
}

// Validate checks required fields.
func (p Project) Validate() error {
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
	); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// ProjectList decodes either a bare JSON array of projects or the
// {"projects": [...]} envelope.
type ProjectList []Project

func (l *ProjectList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var projects []Project
		if err := json.Unmarshal(data, &projects); err != nil {
			return err
		}
		*l = projects
		return nil
	}

	var envelope struct {
		Projects []Project `json:"projects"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	*l = envelope.Projects
	return nil
}

// ProjectRelatedResource is an external link or document attached to a project.
type ProjectRelatedResource struct {
	Name            string    `json:"name,omitempty"`
	URL             string    `json:"url,omitempty"`
	Title           string    `json:"title,omitempty"`
	SortOrder       int       `json:"sortOrder"`
	RelatedDocument *Document `json:"relatedDocument,omitempty"`
}

// ProjectRelatedResources is the response of GET
// /api/v2/projects/:name/related-resources.
type ProjectRelatedResources struct {
	ExternalLinks   []ProjectRelatedResource `json:"externalLinks"`
	HermesDocuments []Document               `json:"hermesDocuments"`
}
