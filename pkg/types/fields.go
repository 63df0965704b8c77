// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared value types for the extraction engine:
// the closed bibliographic field vocabulary, pattern matches, evidence,
// records, and per-stage configuration.
package types

// Field identifies one bibliographic field in the closed vocabulary used
// by the matcher, the merger, and the scorer. Source-specific aliases
// (ISBN-10 vs ISBN-13, "pages" vs the CSL "page" slot) are resolved to a
// single canonical Field before any cross-component handoff.
type Field string

const (
	FieldTitle          Field = "title"
	FieldAuthor         Field = "author"
	FieldYear           Field = "year"
	FieldPages          Field = "pages"
	FieldVolume         Field = "volume"
	FieldIssue          Field = "issue"
	FieldSeries         Field = "series"
	FieldPlace          Field = "place"
	FieldDOI            Field = "doi"
	FieldISSN           Field = "issn"
	FieldISBN           Field = "isbn"
	FieldContainerTitle Field = "container_title"
	FieldAbstract       Field = "abstract"
	FieldType           Field = "type"
	FieldLanguage       Field = "language"
	FieldPublisher      Field = "publisher"
)

// PatternFields lists the fields the rule-based matcher can produce, in
// the order the matcher scans them.
var PatternFields = []Field{
	FieldYear,
	FieldPages,
	FieldVolume,
	FieldIssue,
	FieldSeries,
	FieldPlace,
	FieldDOI,
	FieldISSN,
	FieldISBN,
}
