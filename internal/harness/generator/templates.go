package generator

import "text/template"

var templates = template.Must(template.New("documents").Parse(`
{{- define "RFC" -}}
# {{.Title}}

## Summary

This is a test RFC document used by the Hermes distributed testing framework.
It exercises indexing, search and multi-workspace handling.

**Status**: {{.Status}}
**Author**: {{.Author}}
**Created**: {{.Created}}

## Background

Documents like this one simulate authoring workflows across several
workspaces so the indexer and search API can be checked end to end.

## Proposal

1. **Distributed workspaces**: the same document may live in more than one workspace.
2. **UUID identity**: every document carries a stable, globally unique identifier.
3. **Search integration**: every document is indexed and searchable.
4. **Migration**: documents can move between providers without losing identity.

## Implementation

### Phase 1
- Write frontmatter metadata
- Track the document UUID

### Phase 2
- Index document content
- Validate search results across projects

## Testing

This RFC is itself test data for generation, seeding, indexing and search.
{{- end}}

{{- define "PRD" -}}
# {{.Title}}

## Executive Summary

This PRD describes requirements for testing distributed document management
in Hermes. It is both documentation and test data for the framework.

**Status**: {{.Status}}
**Owner**: {{.Author}}
**Created**: {{.Created}}

## Problem Statement

Distributed document workflows need repeatable checks for:
- Multi-workspace document management
- Cross-provider migration
- Conflict detection
- Search across projects

## Goals

- Generate realistic test documents
- Automate scenario validation
- Verify distributed indexing

## Non-Goals

- Production data migration
- Benchmarking at scale

## Requirements

1. **FR-1**: Documents carry valid YAML frontmatter.
2. **FR-2**: Every document has a globally unique UUID.
3. **FR-3**: RFC, PRD, meeting notes and documentation pages are supported.
4. **FR-4**: Content is searchable and realistic.

## Success Metrics

- Every generated document is indexed
- Search returns every expected document
{{- end}}

{{- define "Meeting Notes" -}}
# {{.Title}}

**Date**: {{.Date}}
**Attendees**: {{.Attendees}}

## Agenda

1. Test infrastructure review
2. Distributed scenario planning
3. Client integration
4. Action items

## Discussion

The team reviewed the testing framework and the scenarios it should cover:
basic indexing, multi-workspace management, migration with conflict
detection and multi-author collaboration.

## Action Items

- [ ] Extend the document generator
- [ ] Add scenario validation to CI

## Notes

These meeting notes are test data for generation, indexing and search.
{{- end}}

{{- define "Documentation" -}}
# {{.Title}}

**Category**: {{.Category}}
**Author**: {{.Author}}
**Last Updated**: {{.Created}}

## Overview

This documentation page is generated by the Hermes distributed testing
framework to validate documentation indexing and search.

## Usage

Pages are indexed automatically. Users can:

1. Search by keyword
2. Filter by category
3. Browse by author
4. Fetch by UUID

## Keywords

Testing, distributed, documentation, indexing, search, validation,
automation, scenarios, workspace, migration.
{{- end}}
`))
