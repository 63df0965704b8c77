// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge resolves per-page pattern extractions and the
// language-model extraction into a single bibliographic record, keeping
// every observation as evidence on the record.
package merge

import (
	"strconv"

	"github.com/jikhanjung/pdfhunter/internal/llm"
	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// source names one side of the merge.
type source int

const (
	sourceRule source = iota
	sourceLLM
)

// defaultPriority applies to fields without an explicit entry: prefer
// the language model, fall back to patterns.
var defaultPriority = []source{sourceLLM, sourceRule}

// Merger combines extraction results by per-field source priority.
// Identifiers trust patterns only; free-text fields trust the model
// first; numeric citation parts trust patterns first.
type Merger struct {
	priority map[types.Field][]source
}

// NewMerger returns a Merger with the standard priority table.
func NewMerger() *Merger {
	ruleOnly := []source{sourceRule}
	ruleFirst := []source{sourceRule, sourceLLM}
	llmFirst := []source{sourceLLM, sourceRule}
	llmOnly := []source{sourceLLM}

	return &Merger{priority: map[types.Field][]source{
		types.FieldDOI:            ruleOnly,
		types.FieldISSN:           ruleOnly,
		types.FieldISBN:           ruleOnly,
		types.FieldYear:           ruleFirst,
		types.FieldVolume:         ruleFirst,
		types.FieldIssue:          ruleFirst,
		types.FieldPages:          ruleFirst,
		types.FieldTitle:          llmFirst,
		types.FieldContainerTitle: llmFirst,
		types.FieldAuthor:         llmOnly,
		types.FieldAbstract:       llmOnly,
		types.FieldType:           llmOnly,
	}}
}

// mergeOrder fixes the field resolution order so the output is
// deterministic for identical inputs.
var mergeOrder = []types.Field{
	types.FieldTitle,
	types.FieldAuthor,
	types.FieldYear,
	types.FieldPages,
	types.FieldVolume,
	types.FieldIssue,
	types.FieldSeries,
	types.FieldPlace,
	types.FieldDOI,
	types.FieldISSN,
	types.FieldISBN,
	types.FieldContainerTitle,
	types.FieldAbstract,
	types.FieldType,
	types.FieldLanguage,
	types.FieldPublisher,
}

// Merge resolves the per-page pattern results and the language-model
// result into one record. Every pattern match is preserved as evidence
// regardless of whether its value won. The caller assigns record
// identity (ID, source file, status).
func (m *Merger) Merge(pageResults []*types.ExtractionResult, lm llm.Result) *types.BibliographyRecord {
	evidence := collectEvidence(pageResults)
	bestRule := selectBestRule(evidence)

	rec := &types.BibliographyRecord{Evidence: evidence}

	for _, field := range mergeOrder {
		if field == types.FieldAuthor {
			rec.Author = lm.Authors
			continue
		}

		priority, ok := m.priority[field]
		if !ok {
			priority = defaultPriority
		}

		var value string
		for _, src := range priority {
			switch src {
			case sourceRule:
				if ev, ok := bestRule[field]; ok {
					value = ev.Value
				}
			case sourceLLM:
				value = llmValue(lm, field)
			}
			if value != "" {
				break
			}
		}
		if value == "" {
			continue
		}
		assign(rec, field, value)
	}

	return rec
}

// collectEvidence converts every pattern match into an Evidence entry,
// preserving page-then-match order.
func collectEvidence(pageResults []*types.ExtractionResult) []types.Evidence {
	var out []types.Evidence
	for _, res := range pageResults {
		if res == nil {
			continue
		}
		for _, match := range res.Matches {
			out = append(out, types.Evidence{
				Field:      match.Field,
				Value:      match.Value,
				Kind:       types.EvidencePatternText,
				Page:       match.Page,
				SourceText: match.RawMatch,
				BBox:       match.BBox,
				Confidence: match.Confidence,
				Metadata:   map[string]string{"pattern": match.Pattern},
			})
		}
	}
	return out
}

// selectBestRule picks the winning pattern evidence per field: highest
// confidence, earliest occurrence on ties. An ISBN-13 always beats an
// ISBN-10 for the ISBN slot.
func selectBestRule(evidence []types.Evidence) map[types.Field]types.Evidence {
	best := make(map[types.Field]types.Evidence)
	for _, ev := range evidence {
		current, ok := best[ev.Field]
		if !ok || betterEvidence(ev, current) {
			best[ev.Field] = ev
		}
	}
	return best
}

func betterEvidence(cand, best types.Evidence) bool {
	if cand.Field == types.FieldISBN {
		cand13 := cand.Metadata["pattern"] == "isbn13"
		best13 := best.Metadata["pattern"] == "isbn13"
		if cand13 != best13 {
			return cand13
		}
	}
	return cand.Confidence > best.Confidence
}

// llmValue returns the language-model value for a field as a string,
// empty when the model did not report it.
func llmValue(lm llm.Result, field types.Field) string {
	switch field {
	case types.FieldTitle:
		return lm.Title
	case types.FieldContainerTitle:
		return lm.ContainerTitle
	case types.FieldAbstract:
		return lm.Abstract
	case types.FieldLanguage:
		return lm.Language
	case types.FieldType:
		return lm.Type
	case types.FieldPublisher:
		return lm.Publisher
	case types.FieldVolume:
		return lm.Volume
	case types.FieldIssue:
		return lm.Issue
	case types.FieldPages:
		return lm.Page
	case types.FieldYear:
		if lm.Year != 0 {
			return strconv.Itoa(lm.Year)
		}
	}
	return ""
}

// assign writes a resolved value into its record slot. Field aliases
// collapse here: pages fills the CSL page slot, place the publisher
// place, series the collection title.
func assign(rec *types.BibliographyRecord, field types.Field, value string) {
	switch field {
	case types.FieldTitle:
		rec.Title = value
	case types.FieldYear:
		if year, err := strconv.Atoi(value); err == nil {
			rec.Issued = &types.DateParts{Year: year}
		}
	case types.FieldPages:
		rec.Page = value
	case types.FieldVolume:
		rec.Volume = value
	case types.FieldIssue:
		rec.Issue = value
	case types.FieldSeries:
		rec.CollectionTitle = value
	case types.FieldPlace:
		rec.PublisherPlace = value
	case types.FieldDOI:
		rec.DOI = value
	case types.FieldISSN:
		rec.ISSN = value
	case types.FieldISBN:
		rec.ISBN = value
	case types.FieldContainerTitle:
		rec.ContainerTitle = value
	case types.FieldAbstract:
		rec.Abstract = value
	case types.FieldType:
		rec.Type = value
	case types.FieldLanguage:
		rec.Language = value
	case types.FieldPublisher:
		rec.Publisher = value
	}
}
