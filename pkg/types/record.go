// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// RecordStatus is the final triage classification of a record.
type RecordStatus string

const (
	StatusConfirmed   RecordStatus = "confirmed"
	StatusNeedsReview RecordStatus = "needs_review"
	StatusFailed      RecordStatus = "failed"
)

// Author holds one creator name in CSL family/given form. Literal is
// used for names that should not be split.
type Author struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// HasName reports whether the author carries a usable name.
func (a Author) HasName() bool {
	return a.Family != "" || a.Literal != ""
}

// ToCSL converts the author to the CSL-JSON name object.
func (a Author) ToCSL() map[string]string {
	if a.Literal != "" {
		return map[string]string{"literal": a.Literal}
	}
	out := map[string]string{}
	if a.Family != "" {
		out["family"] = a.Family
	}
	if a.Given != "" {
		out["given"] = a.Given
	}
	return out
}

// DateParts is a structured date. Zero components are absent.
type DateParts struct {
	Year  int `json:"year,omitempty" yaml:"year,omitempty"`
	Month int `json:"month,omitempty" yaml:"month,omitempty"`
	Day   int `json:"day,omitempty" yaml:"day,omitempty"`
}

// ToCSL converts the date to the CSL-JSON date-parts form. Returns nil
// when no year is set.
func (d DateParts) ToCSL() map[string][][]int {
	if d.Year == 0 {
		return nil
	}
	parts := []int{d.Year}
	if d.Month != 0 {
		parts = append(parts, d.Month)
		if d.Day != 0 {
			parts = append(parts, d.Day)
		}
	}
	return map[string][][]int{"date-parts": {parts}}
}

// BibliographyRecord is the aggregate under construction: populated by
// the merger, patched field-by-field by the expansion agent, finalized
// by the scorer, and never mutated after that.
type BibliographyRecord struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"`

	Title  string     `json:"title,omitempty" yaml:"title,omitempty"`
	Author []Author   `json:"author,omitempty" yaml:"author,omitempty"`
	Issued *DateParts `json:"issued,omitempty" yaml:"issued,omitempty"`

	ContainerTitle string `json:"container_title,omitempty" yaml:"container_title,omitempty"`
	Volume         string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue          string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page           string `json:"page,omitempty" yaml:"page,omitempty"`

	Publisher      string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublisherPlace string `json:"publisher_place,omitempty" yaml:"publisher_place,omitempty"`

	CollectionTitle  string `json:"collection_title,omitempty" yaml:"collection_title,omitempty"`
	CollectionNumber string `json:"collection_number,omitempty" yaml:"collection_number,omitempty"`

	DOI  string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ISSN string `json:"issn,omitempty" yaml:"issn,omitempty"`
	ISBN string `json:"isbn,omitempty" yaml:"isbn,omitempty"`

	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	Status     RecordStatus `json:"status" yaml:"status"`
	Confidence float64      `json:"confidence" yaml:"confidence"`
	Evidence   []Evidence   `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	SourceFile string       `json:"source_file,omitempty" yaml:"source_file,omitempty"`
}

// Year returns the issued year, 0 when unset.
func (r *BibliographyRecord) Year() int {
	if r.Issued == nil {
		return 0
	}
	return r.Issued.Year
}

// EvidenceFor returns all evidence recorded for one field.
func (r *BibliographyRecord) EvidenceFor(f Field) []Evidence {
	var out []Evidence
	for _, e := range r.Evidence {
		if e.Field == f {
			out = append(out, e)
		}
	}
	return out
}

// ToCSLJSON converts the record to a standard CSL-JSON item. Engine
// bookkeeping (status, confidence, evidence) is not part of CSL and is
// omitted.
func (r *BibliographyRecord) ToCSLJSON() map[string]any {
	out := map[string]any{
		"id":   r.ID,
		"type": r.Type,
	}
	if r.Title != "" {
		out["title"] = r.Title
	}
	if len(r.Author) > 0 {
		authors := make([]map[string]string, len(r.Author))
		for i, a := range r.Author {
			authors[i] = a.ToCSL()
		}
		out["author"] = authors
	}
	if r.Issued != nil {
		if issued := r.Issued.ToCSL(); issued != nil {
			out["issued"] = issued
		}
	}
	if r.ContainerTitle != "" {
		out["container-title"] = r.ContainerTitle
	}
	if r.Volume != "" {
		out["volume"] = r.Volume
	}
	if r.Issue != "" {
		out["issue"] = r.Issue
	}
	if r.Page != "" {
		out["page"] = r.Page
	}
	if r.Publisher != "" {
		out["publisher"] = r.Publisher
	}
	if r.PublisherPlace != "" {
		out["publisher-place"] = r.PublisherPlace
	}
	if r.CollectionTitle != "" {
		out["collection-title"] = r.CollectionTitle
	}
	if r.CollectionNumber != "" {
		out["collection-number"] = r.CollectionNumber
	}
	if r.DOI != "" {
		out["DOI"] = r.DOI
	}
	if r.ISSN != "" {
		out["ISSN"] = r.ISSN
	}
	if r.ISBN != "" {
		out["ISBN"] = r.ISBN
	}
	if r.Language != "" {
		out["language"] = r.Language
	}
	return out
}

// zoteroTypeMap maps CSL types to Zotero item types.
var zoteroTypeMap = map[string]string{
	"article":          "journalArticle",
	"article-journal":  "journalArticle",
	"book":             "book",
	"chapter":          "bookSection",
	"paper-conference": "conferencePaper",
	"report":           "report",
	"thesis":           "thesis",
	"patent":           "patent",
	"webpage":          "webpage",
}

// ToZoteroJSON converts the record to a Zotero-compatible item.
func (r *BibliographyRecord) ToZoteroJSON() map[string]any {
	itemType, ok := zoteroTypeMap[r.Type]
	if !ok {
		itemType = "journalArticle"
	}
	out := map[string]any{"itemType": itemType}

	if r.Title != "" {
		out["title"] = r.Title
	}
	if len(r.Author) > 0 {
		creators := make([]map[string]string, 0, len(r.Author))
		for _, a := range r.Author {
			creator := map[string]string{"creatorType": "author"}
			if a.Literal != "" {
				creator["name"] = a.Literal
			} else {
				if a.Family != "" {
					creator["lastName"] = a.Family
				}
				if a.Given != "" {
					creator["firstName"] = a.Given
				}
			}
			creators = append(creators, creator)
		}
		out["creators"] = creators
	}
	if y := r.Year(); y != 0 {
		out["date"] = strconv.Itoa(y)
	}
	if r.ContainerTitle != "" {
		if itemType == "bookSection" {
			out["bookTitle"] = r.ContainerTitle
		} else {
			out["publicationTitle"] = r.ContainerTitle
		}
	}
	if r.Volume != "" {
		out["volume"] = r.Volume
	}
	if r.Issue != "" {
		out["issue"] = r.Issue
	}
	if r.Page != "" {
		out["pages"] = r.Page
	}
	if r.Publisher != "" {
		out["publisher"] = r.Publisher
	}
	if r.PublisherPlace != "" {
		out["place"] = r.PublisherPlace
	}
	if r.CollectionTitle != "" {
		out["series"] = r.CollectionTitle
	}
	if r.CollectionNumber != "" {
		out["seriesNumber"] = r.CollectionNumber
	}
	if r.DOI != "" {
		out["DOI"] = r.DOI
	}
	if r.ISSN != "" {
		out["ISSN"] = r.ISSN
	}
	if r.ISBN != "" {
		out["ISBN"] = r.ISBN
	}
	if r.Language != "" {
		out["language"] = r.Language
	}
	if r.Abstract != "" {
		out["abstractNote"] = r.Abstract
	}
	return out
}
