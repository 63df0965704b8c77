// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expand implements the bounded agent loop that hunts for
// fields the initial extraction missed. Each action runs at most once
// per agent, fills empty fields only, and never overwrites a value that
// is already set.
package expand

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jikhanjung/pdfhunter/internal/llm"
	"github.com/jikhanjung/pdfhunter/internal/patterns"
	"github.com/jikhanjung/pdfhunter/internal/score"
	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// Action identifies one expansion strategy.
type Action string

const (
	// ActionRunningHeaders scans mid-document page headers for volume
	// and page numbers.
	ActionRunningHeaders Action = "running_headers"

	// ActionPublicationInfo scans the last pages for publisher and
	// publication place.
	ActionPublicationInfo Action = "publication_info"
)

// DefaultMaxIterations bounds the agent loop.
const DefaultMaxIterations = 2

// expandDPI is the render resolution for expansion scans. Headers and
// colophons are large type; low DPI is enough.
const expandDPI = 150

// headerFraction is the top slice of a page taken as the running header.
const headerFraction = 0.15

// Agent decides whether a record is complete for its document type and,
// when it is not, runs targeted re-extraction actions against the
// source document. Recognizer and Extractor may be nil; an action that
// needs a missing collaborator produces nothing and still counts as
// tried. Construct a fresh Agent per record.
type Agent struct {
	Document   types.Document
	Recognizer types.Recognizer
	Matcher    *patterns.Matcher
	Extractor  llm.Extractor
	Scorer     *score.Scorer

	// MaxIterations bounds the loop; non-positive selects the default.
	MaxIterations int

	// Progress receives human-readable step logging; nil discards.
	Progress io.Writer

	iteration int
	completed map[Action]bool
}

// Completed reports whether an action has already run.
func (a *Agent) Completed(action Action) bool {
	return a.completed[action]
}

// Run executes the agent loop on the record and returns it with final
// confidence and status set by the full scorer. The record passed in
// must not be used by the caller afterward; the returned record is the
// live one.
func (a *Agent) Run(ctx context.Context, rec *types.BibliographyRecord) *types.BibliographyRecord {
	if a.completed == nil {
		a.completed = make(map[Action]bool)
	}
	maxIterations := a.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	w := a.Progress
	if w == nil {
		w = io.Discard
	}

	for a.iteration < maxIterations {
		a.iteration++
		if isComplete(rec) {
			break
		}
		if !a.step(ctx, rec, w) {
			break
		}
	}

	result := a.scorer().Score(rec)
	rec.Confidence = result.Overall
	rec.Status = result.Status
	return rec
}

func (a *Agent) scorer() *score.Scorer {
	if a.Scorer != nil {
		return a.Scorer
	}
	return score.NewScorer(types.ScoringConfig{})
}

// isComplete checks type-specific completeness: articles need their
// citation structure, books their imprint, everything else the required
// trio.
func isComplete(rec *types.BibliographyRecord) bool {
	base := rec.Title != "" && len(rec.Author) > 0 && rec.Year() != 0
	switch {
	case isArticle(rec.Type):
		return base && rec.ContainerTitle != "" && rec.Page != "" && rec.Volume != ""
	case rec.Type == "book":
		return base && rec.Publisher != "" && rec.PublisherPlace != ""
	}
	return base
}

func isArticle(recType string) bool {
	return recType == "article" || recType == "article-journal"
}

// step picks and executes the highest-priority applicable action.
// Returns false when no action is left to try.
func (a *Agent) step(ctx context.Context, rec *types.BibliographyRecord, w io.Writer) bool {
	if isArticle(rec.Type) && (rec.Page == "" || rec.Volume == "") && !a.completed[ActionRunningHeaders] {
		return a.findRunningHeaders(ctx, rec, w)
	}
	if (rec.Publisher == "" || rec.PublisherPlace == "") && !a.completed[ActionPublicationInfo] {
		return a.findPublicationInfo(ctx, rec, w)
	}
	return false
}

// findRunningHeaders crops the header strip of a few mid-document pages
// and scans the recognized text for volume and page patterns.
func (a *Agent) findRunningHeaders(ctx context.Context, rec *types.BibliographyRecord, w io.Writer) bool {
	a.completed[ActionRunningHeaders] = true

	if a.Recognizer == nil || !a.Document.IsPDF() || a.Document.PageCount() < 5 {
		return false
	}

	fmt.Fprintf(w, "expand %s: scanning running headers\n", rec.ID)

	var headers []string
	for _, page := range []int{4, 5, 6} {
		if page > a.Document.PageCount() {
			continue
		}
		img, err := a.Document.RenderPage(ctx, page, expandDPI)
		if err != nil {
			fmt.Fprintf(w, "expand %s: page %d render failed: %v\n", rec.ID, page, err)
			continue
		}
		text, err := a.Recognizer.Recognize(ctx, img.CropTop(headerFraction), page)
		if err != nil {
			fmt.Fprintf(w, "expand %s: page %d recognition failed: %v\n", rec.ID, page, err)
			continue
		}
		if text != "" {
			headers = append(headers, text)
		}
	}

	if len(headers) == 0 {
		return false
	}

	extraction := a.Matcher.Extract(strings.Join(headers, "\n"), 0)
	bestPages := bestMatch(extraction, types.FieldPages)
	bestVolume := bestMatch(extraction, types.FieldVolume)

	taken := false
	if rec.Page == "" && bestPages != nil {
		rec.Page = bestPages.Value
		rec.Evidence = append(rec.Evidence, matchEvidence(*bestPages))
		taken = true
	}
	if rec.Volume == "" && bestVolume != nil {
		rec.Volume = bestVolume.Value
		rec.Evidence = append(rec.Evidence, matchEvidence(*bestVolume))
		taken = true
	}
	return taken
}

// findPublicationInfo recognizes the last two pages and takes the place
// from patterns and the publisher from the language model.
func (a *Agent) findPublicationInfo(ctx context.Context, rec *types.BibliographyRecord, w io.Writer) bool {
	a.completed[ActionPublicationInfo] = true

	count := a.Document.PageCount()
	if a.Recognizer == nil || !a.Document.IsPDF() || count < 1 {
		return false
	}

	fmt.Fprintf(w, "expand %s: scanning last pages for imprint\n", rec.ID)

	pages := []int{count}
	if count >= 2 {
		pages = append(pages, count-1)
	}

	var texts []string
	for _, page := range pages {
		img, err := a.Document.RenderPage(ctx, page, expandDPI)
		if err != nil {
			fmt.Fprintf(w, "expand %s: page %d render failed: %v\n", rec.ID, page, err)
			continue
		}
		text, err := a.Recognizer.Recognize(ctx, img, page)
		if err != nil {
			fmt.Fprintf(w, "expand %s: page %d recognition failed: %v\n", rec.ID, page, err)
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}

	if len(texts) == 0 {
		return false
	}
	combined := strings.Join(texts, "\n")

	taken := false
	if rec.PublisherPlace == "" {
		extraction := a.Matcher.Extract(combined, 0)
		if best := bestMatch(extraction, types.FieldPlace); best != nil {
			rec.PublisherPlace = best.Value
			rec.Evidence = append(rec.Evidence, matchEvidence(*best))
			taken = true
		}
	}

	if rec.Publisher == "" && a.Extractor != nil {
		lmResult, err := a.Extractor.Extract(ctx, combined)
		if err != nil {
			fmt.Fprintf(w, "expand %s: model extraction failed: %v\n", rec.ID, err)
		} else if lmResult.Publisher != "" {
			rec.Publisher = lmResult.Publisher
			rec.Evidence = append(rec.Evidence, types.Evidence{
				Field:      types.FieldPublisher,
				Value:      lmResult.Publisher,
				Kind:       types.EvidenceLLM,
				Confidence: 0.7,
				Metadata:   map[string]string{"action": string(ActionPublicationInfo)},
			})
			taken = true
		}
	}

	return taken
}

// bestMatch returns the highest-confidence match for a field, first
// occurrence on ties.
func bestMatch(result *types.ExtractionResult, field types.Field) *types.PatternMatch {
	var best *types.PatternMatch
	for i := range result.Matches {
		m := &result.Matches[i]
		if m.Field != field {
			continue
		}
		if best == nil || m.Confidence > best.Confidence {
			best = m
		}
	}
	return best
}

func matchEvidence(m types.PatternMatch) types.Evidence {
	return types.Evidence{
		Field:      m.Field,
		Value:      m.Value,
		Kind:       types.EvidenceOCRText,
		Page:       m.Page,
		SourceText: m.RawMatch,
		Confidence: m.Confidence,
		Metadata:   map[string]string{"pattern": m.Pattern},
	}
}
