// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"testing"

	"github.com/jikhanjung/pdfhunter/internal/llm"
	"github.com/jikhanjung/pdfhunter/pkg/types"
)

func TestPriorityMerge(t *testing.T) {
	merger := NewMerger()

	pageResults := []*types.ExtractionResult{
		{Matches: []types.PatternMatch{
			{Field: types.FieldYear, Value: "2020", Confidence: 0.9, RawMatch: "2020", Start: 0, End: 4, Page: 1},
			{Field: types.FieldVolume, Value: "9", Confidence: 0.8, RawMatch: "vol. IX", Start: 0, End: 7, Page: 1},
		}},
		{Matches: []types.PatternMatch{
			{Field: types.FieldYear, Value: "2021", Confidence: 0.7, RawMatch: "(2021)", Start: 0, End: 6, Page: 2},
			{Field: types.FieldDOI, Value: "10.1234/rule.doi", Confidence: 0.95, RawMatch: "doi:10.1234/rule.doi", Start: 0, End: 20, Page: 2},
		}},
	}

	lmResult := llm.Result{
		Title:          "LLM Title",
		Authors:        []types.Author{{Family: "LLM", Given: "Author"}},
		ContainerTitle: "LLM Journal",
	}

	rec := merger.Merge(pageResults, lmResult)

	if len(rec.Evidence) != 4 {
		t.Errorf("got %d evidence entries, want 4", len(rec.Evidence))
	}
	if rec.Title != "LLM Title" {
		t.Errorf("Title = %q", rec.Title)
	}
	if len(rec.Author) != 1 {
		t.Errorf("got %d authors, want 1", len(rec.Author))
	}
	if rec.ContainerTitle != "LLM Journal" {
		t.Errorf("ContainerTitle = %q", rec.ContainerTitle)
	}
	if rec.Volume != "9" {
		t.Errorf("Volume = %q, want pattern value", rec.Volume)
	}
	if rec.DOI != "10.1234/rule.doi" {
		t.Errorf("DOI = %q", rec.DOI)
	}
	if rec.Issued == nil || rec.Issued.Year != 2020 {
		t.Errorf("Issued = %+v, want the higher-confidence year 2020", rec.Issued)
	}
}

func TestHigherConfidenceYearWinsAcrossPages(t *testing.T) {
	pageResults := []*types.ExtractionResult{
		{Matches: []types.PatternMatch{
			{Field: types.FieldYear, Value: "1995", Confidence: 0.7, Page: 1},
		}},
		{Matches: []types.PatternMatch{
			{Field: types.FieldYear, Value: "1996", Confidence: 0.9, Page: 5},
		}},
	}

	rec := NewMerger().Merge(pageResults, llm.Result{})
	if rec.Issued == nil || rec.Issued.Year != 1996 {
		t.Errorf("Issued = %+v, want year 1996", rec.Issued)
	}
}

func TestPatternBeatsModelForNumericFields(t *testing.T) {
	pageResults := []*types.ExtractionResult{
		{Matches: []types.PatternMatch{
			{Field: types.FieldYear, Value: "1967", Confidence: 0.8, Page: 1},
			{Field: types.FieldPages, Value: "750-757", Confidence: 0.9, Page: 1},
		}},
	}
	lmResult := llm.Result{Year: 1970, Page: "1-10"}

	rec := NewMerger().Merge(pageResults, lmResult)
	if rec.Issued == nil || rec.Issued.Year != 1967 {
		t.Errorf("Issued = %+v, want the pattern year", rec.Issued)
	}
	if rec.Page != "750-757" {
		t.Errorf("Page = %q, want the pattern range", rec.Page)
	}
}

func TestModelFillsFieldsPatternsLack(t *testing.T) {
	rec := NewMerger().Merge(nil, llm.Result{
		Year:      2005,
		Volume:    "12",
		Publisher: "Nauka",
		Language:  "ru",
		Type:      "book",
	})

	if rec.Issued == nil || rec.Issued.Year != 2005 {
		t.Errorf("Issued = %+v, want the model year as fallback", rec.Issued)
	}
	if rec.Volume != "12" || rec.Publisher != "Nauka" || rec.Language != "ru" {
		t.Errorf("got %+v", rec)
	}
	if rec.Type != "book" {
		t.Errorf("Type = %q", rec.Type)
	}
}

func TestIdentifiersIgnoreModel(t *testing.T) {
	// Identifiers come from patterns only; a model-invented DOI must
	// never reach the record.
	rec := NewMerger().Merge(nil, llm.Result{Title: "T"})
	if rec.DOI != "" || rec.ISSN != "" || rec.ISBN != "" {
		t.Errorf("identifiers should be empty, got %+v", rec)
	}
}

func TestISBN13BeatsISBN10(t *testing.T) {
	pageResults := []*types.ExtractionResult{
		{Matches: []types.PatternMatch{
			{Field: types.FieldISBN, Value: "0-306-40615-2", Confidence: 0.95, Pattern: "isbn10", Page: 1},
			{Field: types.FieldISBN, Value: "978-0-306-40615-7", Confidence: 0.95, Pattern: "isbn13", Page: 2},
		}},
	}

	rec := NewMerger().Merge(pageResults, llm.Result{})
	if rec.ISBN != "978-0-306-40615-7" {
		t.Errorf("ISBN = %q, want the ISBN-13", rec.ISBN)
	}
}

func TestAliasFieldsLandInRecordSlots(t *testing.T) {
	pageResults := []*types.ExtractionResult{
		{Matches: []types.PatternMatch{
			{Field: types.FieldPlace, Value: "Moscow", Confidence: 0.9, Page: 1},
			{Field: types.FieldSeries, Value: "Trudy PIN 118", Confidence: 0.8, Page: 1},
		}},
	}

	rec := NewMerger().Merge(pageResults, llm.Result{})
	if rec.PublisherPlace != "Moscow" {
		t.Errorf("PublisherPlace = %q", rec.PublisherPlace)
	}
	if rec.CollectionTitle != "Trudy PIN 118" {
		t.Errorf("CollectionTitle = %q", rec.CollectionTitle)
	}
}

func TestDeterministicTieBreak(t *testing.T) {
	pageResults := []*types.ExtractionResult{
		{Matches: []types.PatternMatch{
			{Field: types.FieldVolume, Value: "7", Confidence: 0.85, Page: 1},
			{Field: types.FieldVolume, Value: "8", Confidence: 0.85, Page: 1},
		}},
	}

	for i := 0; i < 10; i++ {
		rec := NewMerger().Merge(pageResults, llm.Result{})
		if rec.Volume != "7" {
			t.Fatalf("Volume = %q, want the first of equal-confidence matches", rec.Volume)
		}
	}
}

func TestEvidencePreservesLosingMatches(t *testing.T) {
	pageResults := []*types.ExtractionResult{
		{Matches: []types.PatternMatch{
			{Field: types.FieldYear, Value: "2020", Confidence: 0.9, Page: 1},
			{Field: types.FieldYear, Value: "2021", Confidence: 0.5, Page: 2},
		}},
	}

	rec := NewMerger().Merge(pageResults, llm.Result{})
	years := rec.EvidenceFor(types.FieldYear)
	if len(years) != 2 {
		t.Fatalf("got %d year evidence entries, want both kept", len(years))
	}
	for _, ev := range years {
		if ev.Kind != types.EvidencePatternText {
			t.Errorf("Kind = %q", ev.Kind)
		}
	}
}
