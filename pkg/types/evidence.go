// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EvidenceKind identifies the source that produced a piece of evidence.
type EvidenceKind string

const (
	EvidencePatternText EvidenceKind = "pattern_text"
	EvidenceOCRText     EvidenceKind = "ocr_text"
	EvidenceLLM         EvidenceKind = "llm"
	EvidenceWebSearch   EvidenceKind = "web_search"
	EvidenceUserInput   EvidenceKind = "user_input"
)

// BoundingBox locates a text region on a rendered page, in pixel
// coordinates of the rendered image.
type BoundingBox struct {
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
	X2 float64 `json:"x2" yaml:"x2"`
	Y2 float64 `json:"y2" yaml:"y2"`
}

// PatternMatch is one hit of a catalog pattern against a text blob.
// Matches are created by the matcher and never mutated afterward.
// Invariants: 0 <= Start <= End <= len(text), 0.0 <= Confidence <= 1.0.
type PatternMatch struct {
	// Field is the canonical field the match supports.
	Field Field `json:"field" yaml:"field"`

	// Value is the normalized captured value (hyphens collapsed for
	// identifiers, Roman volumes converted to integers).
	Value string `json:"value" yaml:"value"`

	// RawMatch is the original matched substring.
	RawMatch string `json:"raw_match" yaml:"raw_match"`

	// Start and End are byte offsets into the source text.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// Confidence is the field-specific confidence assigned by the
	// matcher's rule for the pattern that fired.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Pattern names the catalog rule that produced the match.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Page is the 1-based page the text came from, 0 when unknown.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`

	// BBox locates the match on a rendered page when available.
	BBox *BoundingBox `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

// ExtractionResult holds everything the matcher found in one text blob:
// the full ordered match list plus the best value per field selected by
// confidence. Created once per extraction call and read-only afterward.
type ExtractionResult struct {
	// Best values per field. Year is 0 when no parseable year was
	// selected; string fields are empty when absent.
	Year   int    `json:"year,omitempty" yaml:"year,omitempty"`
	Pages  string `json:"pages,omitempty" yaml:"pages,omitempty"`
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue  string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Series string `json:"series,omitempty" yaml:"series,omitempty"`
	Place  string `json:"place,omitempty" yaml:"place,omitempty"`
	DOI    string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ISSN   string `json:"issn,omitempty" yaml:"issn,omitempty"`
	ISBN   string `json:"isbn,omitempty" yaml:"isbn,omitempty"`

	// Matches lists every pattern match found, in catalog scan order.
	Matches []PatternMatch `json:"matches,omitempty" yaml:"matches,omitempty"`
}

// MatchesFor returns all matches for one field, in scan order.
func (r *ExtractionResult) MatchesFor(f Field) []PatternMatch {
	var out []PatternMatch
	for _, m := range r.Matches {
		if m.Field == f {
			out = append(out, m)
		}
	}
	return out
}

// FieldCount returns the number of fields with a selected best value.
func (r *ExtractionResult) FieldCount() int {
	n := 0
	if r.Year != 0 {
		n++
	}
	for _, v := range []string{r.Pages, r.Volume, r.Issue, r.Series, r.Place, r.DOI, r.ISSN, r.ISBN} {
		if v != "" {
			n++
		}
	}
	return n
}

// Evidence is a provenance-tagged observation supporting a field value,
// kept whether or not the value was ultimately selected. Immutable once
// appended to a record.
type Evidence struct {
	Field      Field        `json:"field" yaml:"field"`
	Value      string       `json:"value" yaml:"value"`
	Kind       EvidenceKind `json:"kind" yaml:"kind"`
	Page       int          `json:"page,omitempty" yaml:"page,omitempty"`
	SourceText string       `json:"source_text,omitempty" yaml:"source_text,omitempty"`
	BBox       *BoundingBox `json:"bbox,omitempty" yaml:"bbox,omitempty"`

	// Confidence is in [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Metadata carries free-form provenance, e.g. the pattern name.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
