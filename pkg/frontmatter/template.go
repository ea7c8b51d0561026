package frontmatter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/iancoleman/strcase"

	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

// TemplateOptions describes a new document.
type TemplateOptions struct {
	DocType string
	Title   string
	Product string
	Author  string
	Summary string
}

type templateMeta struct {
	Title        string   `yaml:"title"`
	DocType      string   `yaml:"docType"`
	Status       string   `yaml:"status"`
	Product      string   `yaml:"product,omitempty"`
	Summary      string   `yaml:"summary,omitempty"`
	Contributors []string `yaml:"contributors,omitempty"`
}

const templateBody = `# %s

## Summary

%s

## Background

Provide context and motivation for this document.

## Proposal

Describe the proposed solution or feature.

## Alternatives Considered

What other approaches were considered and why were they not chosen?

## Open Questions

- Question 1?
- Question 2?

## References

- [Related Document](url)
`

// CreateDocumentTemplate returns a WIP document skeleton with frontmatter.
func CreateDocumentTemplate(opts TemplateOptions) (string, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return "", fmt.Errorf("title is required")
	}
	if strings.TrimSpace(opts.DocType) == "" {
		return "", fmt.Errorf("document type is required")
	}

	meta := templateMeta{
		Title:   opts.Title,
		DocType: opts.DocType,
		Status:  string(models.StatusWIP),
		Product: opts.Product,
		Summary: opts.Summary,
	}
	if opts.Author != "" {
		meta.Contributors = []string{opts.Author}
	}

	summary := opts.Summary
	if summary == "" {
		summary = "Brief description of this document."
	}
	return Marshal(meta, fmt.Sprintf(templateBody, opts.Title, summary))
}

// TemplateFilename returns a file name such as "rfc-my-new-rfc.md" for a
// document of docType titled title. Emoji and punctuation are dropped.
func TemplateFilename(docType, title string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return ' '
	}, gomoji.RemoveEmojis(docType+" "+title))

	name := strcase.ToKebab(strings.Join(strings.Fields(clean), " "))
	name = strings.Trim(name, "-")
	if name == "" {
		name = "document"
	}
	return name + ".md"
}
