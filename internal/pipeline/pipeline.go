// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the full extraction run for one
// document: page selection, per-page rule matching, document-level
// language-model extraction, evidence merging, agent expansion, and
// final scoring.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/jikhanjung/pdfhunter/internal/expand"
	"github.com/jikhanjung/pdfhunter/internal/llm"
	"github.com/jikhanjung/pdfhunter/internal/merge"
	"github.com/jikhanjung/pdfhunter/internal/patterns"
	"github.com/jikhanjung/pdfhunter/internal/score"
	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// pageBreak separates page texts in the combined document passed to the
// language model, so page boundaries survive the join.
const pageBreak = "\n\n--- Page Break ---\n\n"

// Enricher fills empty record fields from an external lookup after
// extraction. Implementations must leave populated fields alone.
type Enricher interface {
	Enrich(ctx context.Context, rec *types.BibliographyRecord) error
}

// PageOutcome is the result of reading one selected page. A page that
// could not be read, or produced no usable text, is recorded with
// Skipped set and a human-readable Reason instead of failing the run.
type PageOutcome struct {
	Page    int
	Text    string
	Skipped bool
	Reason  string
}

// Runner wires the extraction stages together. Zero-value collaborators
// fall back to defaults where one exists; Extractor is required for the
// language-model phase and Recognizer only for documents without a text
// layer.
type Runner struct {
	Matcher    *patterns.Matcher
	Extractor  llm.Extractor
	Merger     *merge.Merger
	Recognizer types.Recognizer
	Scorer     *score.Scorer
	Enricher   Enricher

	Config types.PipelineConfig

	// Progress receives per-stage logging; nil discards.
	Progress io.Writer
}

// SelectPages returns the 1-based pages worth reading for bibliographic
// content: the first two pages and the last, plus page three when a
// text layer makes reading cheap. Pages are returned in ascending order
// without duplicates.
func SelectPages(doc types.Document) []int {
	total := doc.PageCount()
	if total <= 0 {
		return nil
	}

	var pages []int
	if doc.HasTextLayer() {
		for _, p := range []int{1, 2, 3} {
			if p <= total {
				pages = append(pages, p)
			}
		}
	} else {
		for _, p := range []int{1, 2} {
			if p <= total {
				pages = append(pages, p)
			}
		}
	}
	if last := total; last > pages[len(pages)-1] {
		pages = append(pages, last)
	}
	return pages
}

// Run executes the full pipeline on one document and returns the
// finished record. Page-level failures are skipped, not fatal; a
// document yielding no usable text at all produces a failed record.
func (r *Runner) Run(ctx context.Context, doc types.Document) *types.BibliographyRecord {
	w := r.Progress
	if w == nil {
		w = io.Discard
	}

	recordID := uuid.NewString()

	outcomes := r.ReadPages(ctx, doc)

	var (
		pageResults []*types.ExtractionResult
		pageTexts   []string
	)
	for _, out := range outcomes {
		if out.Skipped {
			fmt.Fprintf(w, "skipped page %d of %s: %s\n", out.Page, doc.Name(), out.Reason)
			continue
		}
		pageTexts = append(pageTexts, out.Text)
		pageResults = append(pageResults, r.matcher().Extract(out.Text, out.Page))
	}

	if len(pageTexts) == 0 {
		fmt.Fprintf(w, "failed  %s: no usable text\n", doc.Name())
		return &types.BibliographyRecord{
			ID:         recordID,
			Type:       "unknown",
			SourceFile: doc.Name(),
			Status:     types.StatusFailed,
		}
	}

	fullText := strings.Join(pageTexts, pageBreak)

	var lmResult llm.Result
	if r.Extractor != nil {
		res, err := r.Extractor.Extract(ctx, fullText)
		if err != nil {
			fmt.Fprintf(w, "language model failed for %s: %v\n", doc.Name(), err)
		} else {
			lmResult = res
		}
	}

	rec := r.merger().Merge(pageResults, lmResult)
	rec.ID = recordID
	rec.SourceFile = doc.Name()
	score.Triage(rec)

	agent := &expand.Agent{
		Document:      doc,
		Recognizer:    r.Recognizer,
		Matcher:       r.matcher(),
		Extractor:     r.Extractor,
		Scorer:        r.scorer(),
		MaxIterations: r.Config.Expansion.MaxIterations,
		Progress:      r.Progress,
	}
	rec = agent.Run(ctx, rec)

	if r.Enricher != nil && r.Config.Enrich.Enabled {
		if err := r.Enricher.Enrich(ctx, rec); err != nil {
			fmt.Fprintf(w, "enrichment failed for %s: %v\n", doc.Name(), err)
		} else {
			res := r.scorer().Score(rec)
			rec.Confidence = res.Overall
			rec.Status = res.Status
		}
	}

	fmt.Fprintf(w, "done    %s: status=%s confidence=%.2f\n", doc.Name(), rec.Status, rec.Confidence)
	return rec
}

// ReadPages reads every selected page and reports one outcome per page.
// Text-layer documents are read directly; everything else is rendered
// and handed to the recognizer.
func (r *Runner) ReadPages(ctx context.Context, doc types.Document) []PageOutcome {
	outcomes := make([]PageOutcome, 0, 4)

	for _, page := range SelectPages(doc) {
		text, err := r.readPage(ctx, doc, page)
		if err != nil {
			outcomes = append(outcomes, PageOutcome{Page: page, Skipped: true, Reason: err.Error()})
			continue
		}
		if strings.TrimSpace(text) == "" {
			outcomes = append(outcomes, PageOutcome{Page: page, Skipped: true, Reason: "no text"})
			continue
		}
		outcomes = append(outcomes, PageOutcome{Page: page, Text: text})
	}
	return outcomes
}

func (r *Runner) readPage(ctx context.Context, doc types.Document, page int) (string, error) {
	if doc.HasTextLayer() {
		return doc.PageText(page)
	}

	if r.Recognizer == nil {
		return "", fmt.Errorf("no recognizer configured")
	}

	dpi := r.Config.OCR.HighDPI
	if dpi <= 0 {
		dpi = 300
	}
	img, err := doc.RenderPage(ctx, page, dpi)
	if err != nil {
		return "", fmt.Errorf("rendering: %w", err)
	}
	return r.Recognizer.Recognize(ctx, img, page)
}

func (r *Runner) matcher() *patterns.Matcher {
	if r.Matcher != nil {
		return r.Matcher
	}
	return patterns.NewMatcher(r.Config.Matcher.MinConfidence)
}

func (r *Runner) merger() *merge.Merger {
	if r.Merger != nil {
		return r.Merger
	}
	return merge.NewMerger()
}

func (r *Runner) scorer() *score.Scorer {
	if r.Scorer != nil {
		return r.Scorer
	}
	return score.NewScorer(r.Config.Scoring)
}
