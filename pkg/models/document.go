package models

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/hermes-client/pkg/docid"
)

// Document is a Hermes document as returned by GET /api/v2/documents/:id.
type Document struct {
	ID int `json:"id,omitempty"`

	// ObjectID is the search-index identifier.
	ObjectID string `json:"objectID,omitempty"`

	// GoogleFileID is deprecated in favor of DocumentUUID.
	GoogleFileID string `json:"googleFileID,omitempty"`

	DocumentUUID       docid.UUID `json:"documentUuid"`
	ProjectUUID        docid.UUID `json:"projectUuid"`
	ProviderType       string     `json:"providerType,omitempty"`
	ProviderDocumentID string     `json:"providerDocumentId,omitempty"`

	// ProjectID is deprecated in favor of ProjectUUID.
	ProjectID string `json:"projectId,omitempty"`

	Title          string         `json:"title"`
	DocNumber      string         `json:"docNumber,omitempty"`
	DocumentNumber int            `json:"documentNumber,omitempty"`
	Status         DocumentStatus `json:"status"`
	Summary        string         `json:"summary,omitempty"`

	CreatedAt          *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt          *Timestamp `json:"updatedAt,omitempty"`
	DocumentCreatedAt  *Timestamp `json:"documentCreatedAt,omitempty"`
	DocumentModifiedAt *Timestamp `json:"documentModifiedAt,omitempty"`

	DocumentType     *DocumentType     `json:"docType,omitempty"`
	Product          *Product          `json:"product,omitempty"`
	Owner            *User             `json:"owner,omitempty"`
	Owners           []User            `json:"owners,omitempty"`
	Approvers        []User            `json:"approvers,omitempty"`
	ApproverGroups   []Group           `json:"approverGroups,omitempty"`
	Contributors     []User            `json:"contributors,omitempty"`
	CustomFields     []CustomField     `json:"customFields,omitempty"`
	RelatedResources []RelatedResource `json:"relatedResources,omitempty"`

	Imported         bool `json:"imported"`
	Locked           bool `json:"locked"`
	ShareableAsDraft bool `json:"shareableAsDraft"`
}

// UnmarshalJSON decodes a document, defaulting Status to WIP when absent.
func (d *Document) UnmarshalJSON(data []byte) error {
	type document Document
	v := document{Status: StatusWIP}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Document(v)
	return nil
}

// FullDocNumber returns the display document number, e.g. "TF-123". It
// prefers the product abbreviation and numeric document number, falls back to
// DocNumber, and returns "" when neither is available.
func (d Document) FullDocNumber() string {
	if d.Product != nil && d.Product.Abbreviation != "" && d.DocumentNumber > 0 {
		return fmt.Sprintf("%s-%d", d.Product.Abbreviation, d.DocumentNumber)
	}
	return d.DocNumber
}

// Validate checks required fields.
func (d Document) Validate() error {
	if err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Status, validation.By(validStatus)),
	); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

func validStatus(value interface{}) error {
	s, _ := value.(DocumentStatus)
	if s != "" && !s.Valid() {
		return fmt.Errorf("unknown document status %q", s)
	}
	return nil
}

// CustomField is a document-type specific field. Value is a string, a list of
// strings, or nil.
type CustomField struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName,omitempty"`
	Type        string      `json:"type,omitempty"`
	Value       interface{} `json:"value,omitempty"`
}

// RelatedResource is an external link or another Hermes document attached to
// a document.
type RelatedResource struct {
	ID                int    `json:"id,omitempty"`
	Name              string `json:"name,omitempty"`
	URL               string `json:"url,omitempty"`
	Title             string `json:"title,omitempty"`
	SortOrder         int    `json:"sortOrder"`
	RelatedDocumentID int    `json:"relatedDocumentId,omitempty"`
	GoogleFileID      string `json:"googleFileID,omitempty"`
}

// DocumentContent is the Markdown body of a document.
type DocumentContent struct {
	Content    string `json:"content"`
	DocumentID string `json:"documentId,omitempty"`
}

// DocumentPatchRequest is the body of PATCH /api/v2/documents/:id. Only
// non-nil fields are serialized so unspecified attributes are left untouched.
type DocumentPatchRequest struct {
	Approvers      *[]string       `json:"approvers,omitempty"`
	ApproverGroups *[]string       `json:"approverGroups,omitempty"`
	Contributors   *[]string       `json:"contributors,omitempty"`
	CustomFields   *[]CustomField  `json:"customFields,omitempty"`
	Owners         *[]string       `json:"owners,omitempty"`
	Status         *DocumentStatus `json:"status,omitempty"`
	Summary        *string         `json:"summary,omitempty"`
	Title          *string         `json:"title,omitempty"`
}

// IsEmpty reports whether the patch sets no fields.
func (p DocumentPatchRequest) IsEmpty() bool {
	return p.Approvers == nil && p.ApproverGroups == nil && p.Contributors == nil &&
		p.CustomFields == nil && p.Owners == nil && p.Status == nil &&
		p.Summary == nil && p.Title == nil
}

// Validate checks the values of the fields that are set.
func (p DocumentPatchRequest) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("validation error: status: unknown document status %q", *p.Status)
	}
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("validation error: title: cannot be blank")
	}
	return nil
}

// ExternalLink is a related resource pointing outside Hermes.
type ExternalLink struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	SortOrder int    `json:"sortOrder"`
}

// HermesDocumentLink is a related resource pointing at another Hermes document.
type HermesDocumentLink struct {
	GoogleFileID   string `json:"googleFileID"`
	Title          string `json:"title,omitempty"`
	DocumentType   string `json:"documentType,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	SortOrder      int    `json:"sortOrder"`
}

// RelatedResources is the response of GET /api/v2/documents/:id/related-resources.
type RelatedResources struct {
	ExternalLinks   []ExternalLink       `json:"externalLinks"`
	HermesDocuments []HermesDocumentLink `json:"hermesDocuments"`
}

// RelatedResourcesUpdate is the body of PUT
// /api/v2/documents/:id/related-resources. Nil lists are omitted.
type RelatedResourcesUpdate struct {
	ExternalLinks   *[]ExternalLink       `json:"externalLinks,omitempty"`
	HermesDocuments *[]HermesDocumentLink `json:"hermesDocuments,omitempty"`
}

// Ptr returns a pointer to v. It is a convenience for building patch requests.
func Ptr[T any](v T) *T {
	return &v
}
