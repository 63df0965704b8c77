// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks finished bibliographic records for values
// that are malformed or implausible, grading each finding by severity.
// Validation never mutates a record; it reports.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// Severity grades a validation issue.
type Severity string

const (
	// SeverityError marks a field that is most likely wrong.
	SeverityError Severity = "error"
	// SeverityWarning marks a possible issue that needs review.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks a minor observation or suggestion.
	SeverityInfo Severity = "info"
)

// Issue is a single validation finding.
type Issue struct {
	Field      types.Field `json:"field" yaml:"field"`
	Severity   Severity    `json:"severity" yaml:"severity"`
	Message    string      `json:"message" yaml:"message"`
	Suggestion string      `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Result collects all findings for one record. Valid flips to false on
// the first error-grade issue.
type Result struct {
	Valid           bool          `json:"is_valid" yaml:"is_valid"`
	Issues          []Issue       `json:"issues" yaml:"issues"`
	FieldsValidated []types.Field `json:"fields_validated" yaml:"fields_validated"`
}

func (r *Result) add(field types.Field, severity Severity, message, suggestion string) {
	r.Issues = append(r.Issues, Issue{
		Field:      field,
		Severity:   severity,
		Message:    message,
		Suggestion: suggestion,
	})
	if severity == SeverityError {
		r.Valid = false
	}
}

// HasErrors reports whether any error-grade issue was found.
func (r *Result) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any warning-grade issue was found.
func (r *Result) HasWarnings() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// IssuesFor returns all issues recorded against one field.
func (r *Result) IssuesFor(field types.Field) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Field == field {
			out = append(out, i)
		}
	}
	return out
}

var (
	pageRangeRe  = regexp.MustCompile(`^\d+(-\d+)?$`)
	volumeRe     = regexp.MustCompile(`(?i)^[\dIVXLCDM]+$`)
	numericRe    = regexp.MustCompile(`^\d+$`)
	doiRe        = regexp.MustCompile(`^10\.\d{4,}/`)
	issnRe       = regexp.MustCompile(`^\d{7}[\dXx]$`)
	ocrArtifacts = regexp.MustCompile(`[|}{\\]`)
)

var dashCleaner = strings.NewReplacer("–", "-", "—", "-")

// Validate runs every field check plus the cross-field checks against a
// record and returns the findings.
func Validate(rec *types.BibliographyRecord) *Result {
	result := &Result{Valid: true}

	validateYear(rec.Year(), result)
	validateTitle(rec.Title, result)
	validateAuthors(rec.Author, result)
	validatePages(rec.Page, result)
	validateVolume(rec.Volume, result)
	validateIssue(rec.Issue, result)
	validateContainerTitle(rec.ContainerTitle, result)
	validateDOI(rec.DOI, result)
	validateISSN(rec.ISSN, result)

	validateCrossField(rec, result)

	return result
}

func validateYear(year int, result *Result) {
	result.FieldsValidated = append(result.FieldsValidated, types.FieldYear)

	if year == 0 {
		result.add(types.FieldYear, SeverityError, "Year is missing", "")
		return
	}
	switch {
	case year < 1500:
		result.add(types.FieldYear, SeverityError,
			fmt.Sprintf("Year %d is too early for bibliographic record", year),
			"Check if this is actually a page number or other data")
	case year < 1800:
		result.add(types.FieldYear, SeverityWarning,
			fmt.Sprintf("Year %d is unusually early", year),
			"Verify this is correct for historical documents")
	case year > 2030:
		result.add(types.FieldYear, SeverityError,
			fmt.Sprintf("Year %d is in the future", year), "")
	}
}

func validateTitle(title string, result *Result) {
	result.FieldsValidated = append(result.FieldsValidated, types.FieldTitle)

	if title == "" {
		result.add(types.FieldTitle, SeverityError, "Title is missing", "")
		return
	}

	n := utf8.RuneCountInString(title)
	switch {
	case n < 5:
		result.add(types.FieldTitle, SeverityError,
			fmt.Sprintf("Title is too short: %q", title), "")
	case n < 15:
		result.add(types.FieldTitle, SeverityWarning,
			fmt.Sprintf("Title seems short: %q", title), "")
	}
	if n > 500 {
		result.add(types.FieldTitle, SeverityWarning,
			"Title is unusually long",
			"Check if abstract or other text was included")
	}

	if ocrArtifacts.MatchString(title) {
		result.add(types.FieldTitle, SeverityWarning,
			"Title may contain OCR artifacts", "")
	}
}

func validateAuthors(authors []types.Author, result *Result) {
	result.FieldsValidated = append(result.FieldsValidated, types.FieldAuthor)

	if len(authors) == 0 {
		result.add(types.FieldAuthor, SeverityError, "No authors found", "")
		return
	}

	for i, author := range authors {
		if !author.HasName() {
			result.add(types.FieldAuthor, SeverityError,
				fmt.Sprintf("Author %d has no family name or literal name", i+1), "")
			continue
		}

		name := author.Literal
		if name == "" {
			name = author.Family
		}

		if numericRe.MatchString(name) {
			result.add(types.FieldAuthor, SeverityError,
				fmt.Sprintf("Author name %q appears to be a number", name), "")
		}
		if utf8.RuneCountInString(name) < 2 {
			result.add(types.FieldAuthor, SeverityWarning,
				fmt.Sprintf("Author name %q is very short", name), "")
		}
	}
}

func validatePages(pages string, result *Result) {
	result.FieldsValidated = append(result.FieldsValidated, types.FieldPages)

	if pages == "" {
		// Optional for some document types.
		return
	}

	clean := dashCleaner.Replace(pages)
	if !pageRangeRe.MatchString(clean) {
		result.add(types.FieldPages, SeverityWarning,
			fmt.Sprintf("Unusual page format: %s", pages),
			"Expected format: 123 or 123-456")
		return
	}

	parts := strings.Split(clean, "-")
	if len(parts) != 2 {
		return
	}
	start, err1 := strconv.Atoi(parts[0])
	end, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return
	}
	if start > end {
		result.add(types.FieldPages, SeverityError,
			fmt.Sprintf("Page range is inverted: %d > %d", start, end),
			fmt.Sprintf("Should be %d-%d", end, start))
	} else if end-start > 500 {
		result.add(types.FieldPages, SeverityWarning,
			fmt.Sprintf("Page range is unusually large: %d pages", end-start+1), "")
	}
}

func validateVolume(volume string, result *Result) {
	result.FieldsValidated = append(result.FieldsValidated, types.FieldVolume)

	if volume == "" {
		return
	}

	if !volumeRe.MatchString(volume) {
		result.add(types.FieldVolume, SeverityInfo,
			fmt.Sprintf("Volume has unusual format: %s", volume), "")
	}

	if n, err := strconv.Atoi(volume); err == nil && n > 500 {
		result.add(types.FieldVolume, SeverityWarning,
			fmt.Sprintf("Volume number %d is unusually high", n), "")
	}
}

func validateIssue(issue string, result *Result) {
	result.FieldsValidated = append(result.FieldsValidated, types.FieldIssue)

	if issue == "" {
		return
	}
	if n, err := strconv.Atoi(issue); err == nil && n > 100 {
		result.add(types.FieldIssue, SeverityWarning,
			fmt.Sprintf("Issue number %d is unusually high", n), "")
	}
}

func validateContainerTitle(containerTitle string, result *Result) {
	result.FieldsValidated = append(result.FieldsValidated, types.FieldContainerTitle)

	if containerTitle == "" {
		// Optional for books.
		return
	}
	if utf8.RuneCountInString(containerTitle) < 3 {
		result.add(types.FieldContainerTitle, SeverityWarning,
			fmt.Sprintf("Container title is very short: %q", containerTitle), "")
	}
}

func validateDOI(doi string, result *Result) {
	result.FieldsValidated = append(result.FieldsValidated, types.FieldDOI)

	if doi == "" {
		return
	}
	if !doiRe.MatchString(doi) {
		result.add(types.FieldDOI, SeverityError,
			fmt.Sprintf("Invalid DOI format: %s", doi),
			"DOI should start with '10.XXXX/'")
	}
}

func validateISSN(issn string, result *Result) {
	result.FieldsValidated = append(result.FieldsValidated, types.FieldISSN)

	if issn == "" {
		return
	}
	clean := strings.ReplaceAll(issn, "-", "")
	if !issnRe.MatchString(clean) {
		result.add(types.FieldISSN, SeverityError,
			fmt.Sprintf("Invalid ISSN format: %s", issn),
			"ISSN should be XXXX-XXXX format")
	}
}

// validateCrossField checks relations between fields. An empty record
// type is treated as an article, the most common case.
func validateCrossField(rec *types.BibliographyRecord, result *Result) {
	docType := strings.ToLower(rec.Type)
	isArticle := docType == "" || docType == "article" || docType == "article-journal"
	isBook := docType == "book"

	if isArticle && rec.ContainerTitle == "" {
		result.add(types.FieldContainerTitle, SeverityWarning,
			"Journal articles should have a container title (journal name)", "")
	}
	if isBook && rec.Publisher == "" {
		result.add(types.FieldPublisher, SeverityInfo,
			"Books typically have a publisher", "")
	}

	// Pages that look like years usually are years.
	if rec.Page != "" && rec.Year() != 0 {
		for _, part := range strings.Split(dashCleaner.Replace(rec.Page), "-") {
			n, err := strconv.Atoi(part)
			if err != nil {
				continue
			}
			if n >= 1900 && n <= 2030 && n != rec.Year() {
				result.add(types.FieldPages, SeverityInfo,
					fmt.Sprintf("Page number %d looks like a year", n), "")
			}
		}
	}
}
