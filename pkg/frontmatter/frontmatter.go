// Package frontmatter reads and writes Markdown documents that start with a
// YAML metadata block.
//
// Format:
//
//	---
//	title: RFC-010 Diff Classification
//	docType: RFC
//	product: terraform
//	status: WIP
//	tags: [rfc, diff]
//	---
//
//	# RFC-010 Diff Classification
package frontmatter

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/hermes-client/pkg/docid"
	"github.com/hashicorp-forge/hermes-client/pkg/models"
)

const delimiter = "---"

// Document is a parsed Markdown file. Well-known keys are lifted into typed
// fields; every key, known or not, stays in Metadata under its original name.
type Document struct {
	UUID         docid.UUID
	Title        string
	DocType      string
	Product      string
	Summary      string
	Status       models.DocumentStatus
	Tags         []string
	Authors      []string
	Approvers    []string
	Contributors []string
	CreatedAt    time.Time
	ModifiedAt   time.Time

	Content     string
	ContentHash string
	Metadata    map[string]interface{}
}

// Parser parses frontmatter documents.
type Parser struct {
	// RequiredFields must be present in the metadata block. Keys are compared
	// after snake_case normalization, so "docType" satisfies "doc_type".
	RequiredFields []string
}

// NewParser returns a parser that requires a title.
func NewParser() *Parser {
	return &Parser{RequiredFields: []string{"title"}}
}

// ParseFile reads and parses the document at path.
func (p *Parser) ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading document: %w", err)
	}
	return p.Parse(data)
}

// ParseString parses a document held in memory.
func (p *Parser) ParseString(text string) (*Document, error) {
	return p.Parse([]byte(text))
}

// Parse parses data into a Document.
func (p *Parser) Parse(data []byte) (*Document, error) {
	meta, content, err := Extract(string(data))
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		fields[strcase.ToSnake(k)] = v
	}
	for _, f := range p.RequiredFields {
		if _, ok := fields[strcase.ToSnake(f)]; !ok {
			return nil, fmt.Errorf("missing required field: %s", f)
		}
	}

	doc := &Document{
		Title:        stringValue(fields["title"]),
		DocType:      stringValue(fields["doc_type"]),
		Product:      stringValue(fields["product"]),
		Summary:      stringValue(fields["summary"]),
		Tags:         stringList(fields["tags"]),
		Authors:      stringList(fields["authors"]),
		Approvers:    stringList(fields["approvers"]),
		Contributors: stringList(fields["contributors"]),
		Content:      content,
		Metadata:     meta,
	}
	if len(doc.Authors) == 0 {
		doc.Authors = stringList(fields["author"])
	}

	if s := stringValue(fields["status"]); s != "" {
		// Unknown statuses are left unset rather than failing the parse.
		if status, err := models.ParseDocumentStatus(s); err == nil {
			doc.Status = status
		}
	}

	if s := stringValue(fields["uuid"]); s != "" {
		id, err := docid.ParseUUID(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid: %w", err)
		}
		doc.UUID = id
	}

	if doc.CreatedAt, err = timeValue(fields["created_at"], fields["created"]); err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	if doc.ModifiedAt, err = timeValue(fields["modified_at"], fields["updated"], fields["modified"]); err != nil {
		return nil, fmt.Errorf("invalid modified_at: %w", err)
	}

	hash := sha256.Sum256([]byte(content))
	doc.ContentHash = "sha256:" + hex.EncodeToString(hash[:])

	return doc, nil
}

// Extract splits text into its metadata block and body. Text without a
// leading delimiter has no metadata and is returned whole as the body.
func Extract(text string) (map[string]interface{}, string, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != delimiter {
		return map[string]interface{}{}, strings.TrimSpace(text), nil
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != delimiter {
			continue
		}

		meta := map[string]interface{}{}
		if err := yaml.Unmarshal([]byte(strings.Join(lines[1:i], "")), &meta); err != nil {
			return nil, "", fmt.Errorf("failed to parse frontmatter: %w", err)
		}
		if meta == nil {
			meta = map[string]interface{}{}
		}
		return meta, strings.TrimSpace(strings.Join(lines[i+1:], "")), nil
	}
	return nil, "", fmt.Errorf("missing frontmatter closing '%s'", delimiter)
}

// Add prepends a metadata block to content. Keys are written in sorted order.
func Add(content string, metadata map[string]interface{}) (string, error) {
	return render(metadata, content)
}

// Marshal writes v, a struct or map, as a metadata block followed by content.
func Marshal(v interface{}, content string) (string, error) {
	return render(v, content)
}

func render(v interface{}, content string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString(delimiter + "\n\n")
	buf.WriteString(strings.TrimSpace(content))
	buf.WriteString("\n")
	return buf.String(), nil
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprint(t)
	}
}

// stringList accepts either a YAML sequence or a single scalar.
func stringList(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := stringValue(t); s != "" {
			return []string{s}
		}
		return nil
	}
}

// timeValue returns the first present candidate as a time.
func timeValue(candidates ...interface{}) (time.Time, error) {
	for _, c := range candidates {
		switch t := c.(type) {
		case nil:
			continue
		case time.Time:
			return t, nil
		default:
			return dateparse.ParseAny(stringValue(t))
		}
	}
	return time.Time{}, nil
}
