// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// bibtexTypes maps CSL item types to BibTeX entry types.
var bibtexTypes = map[string]string{
	"article":           "article",
	"article-journal":   "article",
	"article-magazine":  "article",
	"article-newspaper": "article",
	"book":              "book",
	"chapter":           "incollection",
	"paper-conference":  "inproceedings",
	"proceedings":       "proceedings",
	"report":            "techreport",
	"thesis":            "phdthesis",
	"manuscript":        "unpublished",
	"webpage":           "misc",
	"dataset":           "misc",
}

var bibtexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

var (
	nonLetters   = regexp.MustCompile(`[^a-zA-Z]`)
	nonKeyChars  = regexp.MustCompile(`[^a-zA-Z0-9]`)
	bibtexDashes = strings.NewReplacer("–", "--", "—", "--", "-", "--")
	multipleDash = regexp.MustCompile(`-{3,}`)
)

func escapeBibTeX(text string) string {
	return bibtexEscaper.Replace(text)
}

// CiteKey derives a citation key from the first author, year, and first
// title word, falling back to the record id.
func CiteKey(rec *types.BibliographyRecord) string {
	var parts []string

	if len(rec.Author) > 0 {
		a := rec.Author[0]
		name := a.Family
		if name == "" && a.Literal != "" {
			name, _, _ = strings.Cut(a.Literal, " ")
		}
		name = nonLetters.ReplaceAllString(name, "")
		if len(name) > 10 {
			name = name[:10]
		}
		if name != "" {
			parts = append(parts, strings.ToLower(name))
		}
	}
	if year := rec.Year(); year != 0 {
		parts = append(parts, strconv.Itoa(year))
	}
	if rec.Title != "" {
		word, _, _ := strings.Cut(rec.Title, " ")
		word = nonLetters.ReplaceAllString(word, "")
		if len(word) > 8 {
			word = word[:8]
		}
		if word != "" {
			parts = append(parts, strings.ToLower(word))
		}
	}

	if len(parts) == 0 {
		return nonKeyChars.ReplaceAllString(rec.ID, "_")
	}
	return strings.Join(parts, "_")
}

// WriteBibTeX writes records as BibTeX entries separated by blank lines.
func WriteBibTeX(w io.Writer, records []*types.BibliographyRecord) error {
	for i, rec := range records {
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, recordToBibTeX(rec)); err != nil {
			return err
		}
	}
	return nil
}

func recordToBibTeX(rec *types.BibliographyRecord) string {
	entryType, ok := bibtexTypes[rec.Type]
	if !ok {
		entryType = "misc"
	}

	lines := []string{fmt.Sprintf("@%s{%s,", entryType, CiteKey(rec))}
	field := func(name, value string) {
		lines = append(lines, fmt.Sprintf("  %s = {%s},", name, value))
	}

	if len(rec.Author) > 0 {
		var names []string
		for _, a := range rec.Author {
			switch {
			case a.Literal != "":
				names = append(names, escapeBibTeX(a.Literal))
			case a.Family != "":
				name := escapeBibTeX(a.Family)
				if a.Given != "" {
					name += ", " + escapeBibTeX(a.Given)
				}
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			field("author", strings.Join(names, " and "))
		}
	}
	if rec.Title != "" {
		// Double braces protect the title's capitalization.
		field("title", "{"+escapeBibTeX(rec.Title)+"}")
	}
	if rec.Issued != nil && rec.Issued.Year != 0 {
		field("year", strconv.Itoa(rec.Issued.Year))
		if rec.Issued.Month != 0 {
			field("month", strconv.Itoa(rec.Issued.Month))
		}
	}
	if rec.ContainerTitle != "" {
		container := escapeBibTeX(rec.ContainerTitle)
		switch entryType {
		case "article":
			field("journal", container)
		case "incollection", "inproceedings":
			field("booktitle", container)
		}
	}
	if rec.Volume != "" {
		field("volume", rec.Volume)
	}
	if rec.Issue != "" {
		field("number", rec.Issue)
	}
	if rec.Page != "" {
		pages := bibtexDashes.Replace(rec.Page)
		pages = multipleDash.ReplaceAllString(pages, "--")
		field("pages", pages)
	}
	if rec.Publisher != "" {
		field("publisher", escapeBibTeX(rec.Publisher))
	}
	if rec.PublisherPlace != "" {
		field("address", escapeBibTeX(rec.PublisherPlace))
	}
	if rec.CollectionTitle != "" {
		field("series", escapeBibTeX(rec.CollectionTitle))
	}
	if rec.DOI != "" {
		field("doi", rec.DOI)
	}
	if rec.ISBN != "" {
		field("isbn", rec.ISBN)
	}
	if rec.ISSN != "" {
		field("issn", rec.ISSN)
	}
	if rec.Language != "" {
		field("language", rec.Language)
	}
	if rec.Abstract != "" {
		field("abstract", escapeBibTeX(rec.Abstract))
	}

	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}
