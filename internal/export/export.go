// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders finished bibliography records in standard
// citation formats: CSL-JSON, CSL-YAML, RIS, and BibTeX.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// Format selects an output format.
type Format string

const (
	FormatCSLJSON Format = "csl-json"
	FormatCSLYAML Format = "csl-yaml"
	FormatRIS     Format = "ris"
	FormatBibTeX  Format = "bibtex"
)

// ParseFormat resolves a user-supplied format name, accepting the
// common aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csl-json", "csljson", "json":
		return FormatCSLJSON, nil
	case "csl-yaml", "cslyaml", "yaml":
		return FormatCSLYAML, nil
	case "ris":
		return FormatRIS, nil
	case "bibtex", "bib":
		return FormatBibTeX, nil
	}
	return "", fmt.Errorf("unknown export format %q", name)
}

// Write renders records to w in the given format.
func Write(w io.Writer, format Format, records []*types.BibliographyRecord) error {
	switch format {
	case FormatCSLJSON:
		return WriteCSLJSON(w, records)
	case FormatCSLYAML:
		return WriteCSLYAML(w, records)
	case FormatRIS:
		return WriteRIS(w, records)
	case FormatBibTeX:
		return WriteBibTeX(w, records)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// WriteCSLJSON writes records as an indented CSL-JSON array.
func WriteCSLJSON(w io.Writer, records []*types.BibliographyRecord) error {
	items := make([]map[string]any, len(records))
	for i, rec := range records {
		items[i] = rec.ToCSLJSON()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL-JSON: %w", err)
	}
	return nil
}

// WriteCSLYAML writes records as a CSL-YAML list.
func WriteCSLYAML(w io.Writer, records []*types.BibliographyRecord) error {
	items := make([]map[string]any, len(records))
	for i, rec := range records {
		items[i] = rec.ToCSLJSON()
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL-YAML: %w", err)
	}
	return nil
}

// risTypes maps CSL item types to RIS reference types.
var risTypes = map[string]string{
	"article":                "JOUR",
	"article-journal":        "JOUR",
	"article-magazine":       "MGZN",
	"article-newspaper":      "NEWS",
	"book":                   "BOOK",
	"chapter":                "CHAP",
	"paper-conference":       "CPAPER",
	"proceedings":            "CONF",
	"report":                 "RPRT",
	"thesis":                 "THES",
	"manuscript":             "MANSCPT",
	"map":                    "MAP",
	"patent":                 "PAT",
	"personal_communication": "PCOMM",
	"webpage":                "ELEC",
	"dataset":                "DATA",
}

var risDashes = strings.NewReplacer("–", "-", "—", "-")

// WriteRIS writes records as RIS entries separated by blank lines.
func WriteRIS(w io.Writer, records []*types.BibliographyRecord) error {
	for i, rec := range records {
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, recordToRIS(rec)); err != nil {
			return err
		}
	}
	return nil
}

func recordToRIS(rec *types.BibliographyRecord) string {
	var lines []string
	add := func(tag, value string) {
		lines = append(lines, tag+"  - "+value)
	}

	risType, ok := risTypes[rec.Type]
	if !ok {
		risType = "GEN"
	}
	add("TY", risType)
	add("ID", rec.ID)

	if rec.Title != "" {
		add("TI", rec.Title)
		add("T1", rec.Title)
	}
	for _, a := range rec.Author {
		switch {
		case a.Literal != "":
			add("AU", a.Literal)
		case a.Family != "":
			name := a.Family
			if a.Given != "" {
				name += ", " + a.Given
			}
			add("AU", name)
		}
	}
	if rec.Issued != nil && rec.Issued.Year != 0 {
		add("PY", fmt.Sprintf("%d", rec.Issued.Year))
		if rec.Issued.Month != 0 {
			day := 1
			if rec.Issued.Day != 0 {
				day = rec.Issued.Day
			}
			add("DA", fmt.Sprintf("%d/%02d/%02d", rec.Issued.Year, rec.Issued.Month, day))
		}
	}
	if rec.ContainerTitle != "" {
		if rec.Type == "article" || rec.Type == "article-journal" {
			add("JO", rec.ContainerTitle)
			add("JF", rec.ContainerTitle)
		} else {
			add("T2", rec.ContainerTitle)
		}
	}
	if rec.Volume != "" {
		add("VL", rec.Volume)
	}
	if rec.Issue != "" {
		add("IS", rec.Issue)
	}
	if rec.Page != "" {
		pages := risDashes.Replace(rec.Page)
		if start, end, found := strings.Cut(pages, "-"); found {
			add("SP", strings.TrimSpace(start))
			add("EP", strings.TrimSpace(end))
		} else {
			add("SP", pages)
		}
	}
	if rec.Publisher != "" {
		add("PB", rec.Publisher)
	}
	if rec.PublisherPlace != "" {
		add("CY", rec.PublisherPlace)
	}
	if rec.CollectionTitle != "" {
		add("T3", rec.CollectionTitle)
	}
	if rec.DOI != "" {
		add("DO", rec.DOI)
	}
	if rec.ISSN != "" {
		add("SN", rec.ISSN)
	}
	if rec.ISBN != "" {
		add("SN", rec.ISBN)
	}
	if rec.Language != "" {
		add("LA", rec.Language)
	}
	if rec.Abstract != "" {
		add("AB", rec.Abstract)
	}
	add("ER", "")

	return strings.Join(lines, "\n")
}
