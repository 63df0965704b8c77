// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score rates how complete and plausible a bibliographic record
// is. Two formulas live here: Quick is a cheap completeness ratio used
// right after merging, Scorer is the full category-weighted calculation
// with per-field quality rules used once a record is final.
package score

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// Quick status thresholds.
const (
	quickConfirmedThreshold = 0.8
	quickReviewThreshold    = 0.4
)

// Quick returns the completeness score of a record: required fields
// carry 0.6, structure fields 0.25, publication fields 0.15. The result
// is rounded to two decimals.
func Quick(rec *types.BibliographyRecord) float64 {
	required := 0
	if rec.Title != "" {
		required++
	}
	if len(rec.Author) > 0 {
		required++
	}
	if rec.Year() != 0 {
		required++
	}

	structure := 0
	for _, v := range []string{rec.ContainerTitle, rec.Volume, rec.Issue, rec.Page} {
		if v != "" {
			structure++
		}
	}

	publication := 0
	for _, v := range []string{rec.Publisher, rec.PublisherPlace} {
		if v != "" {
			publication++
		}
	}

	score := float64(required)/3*0.6 +
		float64(structure)/4*0.25 +
		float64(publication)/2*0.15
	return math.Round(score*100) / 100
}

// Triage sets the record's confidence to its Quick score and its status
// from the quick thresholds (confirmed at 0.8, failed below 0.4).
func Triage(rec *types.BibliographyRecord) types.RecordStatus {
	rec.Confidence = Quick(rec)
	switch {
	case rec.Confidence >= quickConfirmedThreshold:
		rec.Status = types.StatusConfirmed
	case rec.Confidence >= quickReviewThreshold:
		rec.Status = types.StatusNeedsReview
	default:
		rec.Status = types.StatusFailed
	}
	return rec.Status
}

// Full scorer defaults.
const (
	DefaultConfirmedThreshold = 0.75
	DefaultReviewThreshold    = 0.40
)

// DocumentType classifies a record for scoring adjustments.
type DocumentType string

const (
	DocArticle     DocumentType = "article"
	DocBook        DocumentType = "book"
	DocChapter     DocumentType = "chapter"
	DocReport      DocumentType = "report"
	DocThesis      DocumentType = "thesis"
	DocProceedings DocumentType = "proceedings"
	DocUnknown     DocumentType = "unknown"
)

// FieldScore records how one field contributed to a category.
type FieldScore struct {
	Field   types.Field `json:"field" yaml:"field"`
	Present bool        `json:"present" yaml:"present"`
	Weight  float64     `json:"weight" yaml:"weight"`
	Score   float64     `json:"score" yaml:"score"`
}

// Weighted returns the field's weighted contribution.
func (f FieldScore) Weighted() float64 { return f.Score * f.Weight }

// Result is the outcome of a full scoring pass.
type Result struct {
	Overall      float64            `json:"overall_score" yaml:"overall_score"`
	Status       types.RecordStatus `json:"status" yaml:"status"`
	DocumentType DocumentType       `json:"document_type" yaml:"document_type"`

	Required    float64 `json:"required" yaml:"required"`
	Structure   float64 `json:"structure" yaml:"structure"`
	Publication float64 `json:"publication" yaml:"publication"`
	Identifier  float64 `json:"identifier" yaml:"identifier"`

	FieldScores []FieldScore `json:"field_scores" yaml:"field_scores"`
}

// weightedField pairs a field with its intra-category weight. Slices
// keep category iteration deterministic.
type weightedField struct {
	field  types.Field
	weight float64
}

var (
	requiredFields = []weightedField{
		{types.FieldTitle, 0.35},
		{types.FieldAuthor, 0.35},
		{types.FieldYear, 0.30},
	}
	structureFields = []weightedField{
		{types.FieldContainerTitle, 0.30},
		{types.FieldVolume, 0.25},
		{types.FieldIssue, 0.20},
		{types.FieldPages, 0.25},
	}
	publicationFields = []weightedField{
		{types.FieldPublisher, 0.50},
		{types.FieldPlace, 0.50},
	}
	identifierFields = []weightedField{
		{types.FieldDOI, 0.50},
		{types.FieldISSN, 0.25},
		{types.FieldISBN, 0.25},
	}
)

// Category weights: required 0.50, structure 0.25, publication 0.15,
// identifiers 0.10.
const (
	requiredWeight    = 0.50
	structureWeight   = 0.25
	publicationWeight = 0.15
	identifierWeight  = 0.10
)

// Scorer computes full category-weighted confidence scores.
type Scorer struct {
	confirmedThreshold float64
	reviewThreshold    float64
}

// NewScorer returns a Scorer with the given thresholds; zero values
// select the defaults (0.75 confirmed, 0.40 review).
func NewScorer(cfg types.ScoringConfig) *Scorer {
	s := &Scorer{
		confirmedThreshold: cfg.ConfirmedThreshold,
		reviewThreshold:    cfg.ReviewThreshold,
	}
	if s.confirmedThreshold == 0 {
		s.confirmedThreshold = DefaultConfirmedThreshold
	}
	if s.reviewThreshold == 0 {
		s.reviewThreshold = DefaultReviewThreshold
	}
	return s
}

// Score computes the full confidence score and status for a record.
func (s *Scorer) Score(rec *types.BibliographyRecord) Result {
	result := Result{DocumentType: detectDocumentType(rec)}

	result.Required = scoreCategory(rec, requiredFields, &result.FieldScores)
	result.Structure = scoreCategory(rec, structureFields, &result.FieldScores)
	result.Publication = scoreCategory(rec, publicationFields, &result.FieldScores)
	result.Identifier = scoreCategory(rec, identifierFields, &result.FieldScores)

	result.Overall = result.Required*requiredWeight +
		result.Structure*structureWeight +
		result.Publication*publicationWeight +
		result.Identifier*identifierWeight

	result.Overall = adjustForDocumentType(result.Overall, rec, result.DocumentType)

	switch {
	case result.Overall >= s.confirmedThreshold:
		result.Status = types.StatusConfirmed
	case result.Overall >= s.reviewThreshold:
		result.Status = types.StatusNeedsReview
	default:
		result.Status = types.StatusFailed
	}

	return result
}

// scoreCategory scores one field category as the weight-normalized sum
// of per-field scores, appending the detail rows to fieldScores.
func scoreCategory(rec *types.BibliographyRecord, fields []weightedField, fieldScores *[]FieldScore) float64 {
	totalWeight := 0.0
	weightedSum := 0.0

	for _, wf := range fields {
		score := scoreField(rec, wf.field)
		*fieldScores = append(*fieldScores, FieldScore{
			Field:   wf.field,
			Present: fieldPresent(rec, wf.field),
			Weight:  wf.weight,
			Score:   score,
		})
		totalWeight += wf.weight
		weightedSum += score * wf.weight
	}

	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

func fieldPresent(rec *types.BibliographyRecord, field types.Field) bool {
	switch field {
	case types.FieldAuthor:
		return len(rec.Author) > 0
	case types.FieldYear:
		return rec.Year() != 0
	default:
		return strings.TrimSpace(stringField(rec, field)) != ""
	}
}

func stringField(rec *types.BibliographyRecord, field types.Field) string {
	switch field {
	case types.FieldTitle:
		return rec.Title
	case types.FieldContainerTitle:
		return rec.ContainerTitle
	case types.FieldVolume:
		return rec.Volume
	case types.FieldIssue:
		return rec.Issue
	case types.FieldPages:
		return rec.Page
	case types.FieldPublisher:
		return rec.Publisher
	case types.FieldPlace:
		return rec.PublisherPlace
	case types.FieldDOI:
		return rec.DOI
	case types.FieldISSN:
		return rec.ISSN
	case types.FieldISBN:
		return rec.ISBN
	}
	return ""
}

// scoreField applies the per-field quality rule; absent fields score 0.
func scoreField(rec *types.BibliographyRecord, field types.Field) float64 {
	if !fieldPresent(rec, field) {
		return 0.0
	}
	switch field {
	case types.FieldTitle:
		return scoreTitle(rec.Title)
	case types.FieldAuthor:
		return scoreAuthors(rec.Author)
	case types.FieldYear:
		return scoreYear(rec.Year())
	case types.FieldPages:
		return scorePages(rec.Page)
	}
	return 1.0
}

func scoreTitle(title string) float64 {
	n := utf8.RuneCountInString(title)
	switch {
	case n < 5:
		return 0.3
	case n < 15:
		return 0.7
	case n > 500:
		// Suspiciously long, probably includes extra text.
		return 0.8
	}
	return 1.0
}

func scoreAuthors(authors []types.Author) float64 {
	valid := 0
	for _, a := range authors {
		if a.HasName() {
			valid++
		}
	}
	switch {
	case valid == 0:
		return 0.0
	case valid < len(authors):
		return 0.7
	}
	return 1.0
}

func scoreYear(year int) float64 {
	switch {
	case year >= 1800 && year <= 2030:
		return 1.0
	case year >= 1500 && year < 1800:
		return 0.8
	}
	return 0.3
}

var pageRangeRe = regexp.MustCompile(`^\d+(-\d+)?$`)

var pageDashCleaner = strings.NewReplacer("–", "-", "—", "-")

func scorePages(pages string) float64 {
	if pageRangeRe.MatchString(pageDashCleaner.Replace(pages)) {
		return 1.0
	}
	return 0.7
}

// explicitTypes maps declared record types to scoring document types.
// CSL spellings of the article type collapse to article.
var explicitTypes = map[string]DocumentType{
	"article":          DocArticle,
	"article-journal":  DocArticle,
	"book":             DocBook,
	"chapter":          DocChapter,
	"report":           DocReport,
	"thesis":           DocThesis,
	"proceedings":      DocProceedings,
	"paper-conference": DocProceedings,
}

// detectDocumentType uses the declared type when present, otherwise
// infers: container plus volume smells like an article, a publisher
// without container (or an ISBN) like a book.
func detectDocumentType(rec *types.BibliographyRecord) DocumentType {
	if rec.Type != "" {
		if dt, ok := explicitTypes[strings.ToLower(rec.Type)]; ok {
			return dt
		}
		return DocUnknown
	}

	if rec.ContainerTitle != "" && rec.Volume != "" {
		return DocArticle
	}
	if rec.Publisher != "" && rec.ContainerTitle == "" {
		return DocBook
	}
	if rec.ISBN != "" {
		return DocBook
	}
	return DocUnknown
}

// adjustForDocumentType nudges the score for type-appropriate absences:
// books are not penalized for missing journal structure, articles
// without a container lose ground.
func adjustForDocumentType(score float64, rec *types.BibliographyRecord, docType DocumentType) float64 {
	if docType == DocBook && rec.ContainerTitle == "" {
		score = math.Min(1.0, score+0.05)
	}
	if docType == DocArticle && rec.ContainerTitle == "" {
		score = math.Max(0.0, score-0.10)
	}
	return score
}
