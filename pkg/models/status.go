package models

import (
	"encoding/json"
	"strings"

	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
)

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	StatusUnspecified DocumentStatus = "Unspecified"
	StatusWIP         DocumentStatus = "WIP"
	StatusInReview    DocumentStatus = "In-Review"
	StatusApproved    DocumentStatus = "Approved"
	StatusObsolete    DocumentStatus = "Obsolete"
)

// DocumentStatuses lists every valid status in lifecycle order.
var DocumentStatuses = []DocumentStatus{
	StatusUnspecified,
	StatusWIP,
	StatusInReview,
	StatusApproved,
	StatusObsolete,
}

// ParseDocumentStatus converts s into a DocumentStatus. Matching is
// case-insensitive and accepts the legacy "In Review" and "Draft" spellings.
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)

	switch norm {
	case "unspecified":
		return StatusUnspecified, nil
	case "wip", "draft":
		return StatusWIP, nil
	case "in-review":
		return StatusInReview, nil
	case "approved":
		return StatusApproved, nil
	case "obsolete":
		return StatusObsolete, nil
	}
	return "", errdefs.NewValidationError("status", s, "unknown document status %q", s)
}

// Valid reports whether s is one of DocumentStatuses.
func (s DocumentStatus) Valid() bool {
	for _, v := range DocumentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s DocumentStatus) String() string { return string(s) }

// UnmarshalJSON rejects values outside the closed set.
func (s *DocumentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errdefs.NewValidationError("status", string(data), "status must be a string")
	}
	parsed, err := ParseDocumentStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
