// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

func articleRecord() *types.BibliographyRecord {
	return &types.BibliographyRecord{
		ID:    "rec-1",
		Type:  "article-journal",
		Title: "The Origin of Trilobites",
		Author: []types.Author{
			{Family: "Walcott", Given: "Charles"},
			{Literal: "Palaeontological Survey Team"},
		},
		Issued:         &types.DateParts{Year: 1967},
		ContainerTitle: "Journal of Palaeontology",
		Volume:         "10",
		Issue:          "2",
		Page:           "123–145",
		DOI:            "10.1234/jpal.1967.123",
		ISSN:           "0022-3360",
		Status:         types.StatusConfirmed,
	}
}

func bookRecord() *types.BibliographyRecord {
	return &types.BibliographyRecord{
		ID:             "rec-2",
		Type:           "book",
		Title:          "Fossils & Strata",
		Author:         []types.Author{{Family: "Smith", Given: "John"}},
		Issued:         &types.DateParts{Year: 1985},
		Publisher:      "Academic Press",
		PublisherPlace: "London",
		ISBN:           "9780120000000",
	}
}

func TestRISArticle(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRIS(&buf, []*types.BibliographyRecord{articleRecord()}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"TY  - JOUR",
		"ID  - rec-1",
		"TI  - The Origin of Trilobites",
		"AU  - Walcott, Charles",
		"AU  - Palaeontological Survey Team",
		"PY  - 1967",
		"JO  - Journal of Palaeontology",
		"VL  - 10",
		"IS  - 2",
		"SP  - 123",
		"EP  - 145",
		"DO  - 10.1234/jpal.1967.123",
		"SN  - 0022-3360",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RIS output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "ER  - ") {
		t.Errorf("RIS output does not end with ER tag:\n%s", out)
	}
}

func TestRISBookUsesT2AndGENFallback(t *testing.T) {
	rec := bookRecord()
	rec.ContainerTitle = "Treatise Series"

	var buf bytes.Buffer
	if err := WriteRIS(&buf, []*types.BibliographyRecord{rec}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "TY  - BOOK") {
		t.Errorf("book record type wrong:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "T2  - Treatise Series") {
		t.Errorf("non-article container should use T2:\n%s", buf.String())
	}

	buf.Reset()
	unknown := &types.BibliographyRecord{ID: "x", Type: "unknown"}
	if err := WriteRIS(&buf, []*types.BibliographyRecord{unknown}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "TY  - GEN") {
		t.Errorf("unknown type should map to GEN:\n%s", buf.String())
	}
}

func TestRISSeparatesRecords(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRIS(&buf, []*types.BibliographyRecord{articleRecord(), bookRecord()})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "TY  - "); got != 2 {
		t.Errorf("record count = %d, want 2", got)
	}
	if !strings.Contains(buf.String(), "ER  - \n\nTY  - ") {
		t.Errorf("records not separated by blank line:\n%s", buf.String())
	}
}

func TestBibTeXArticle(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBibTeX(&buf, []*types.BibliographyRecord{articleRecord()}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "@article{walcott_1967_the,") {
		t.Errorf("entry head wrong:\n%s", out)
	}
	for _, want := range []string{
		"author = {Walcott, Charles and Palaeontological Survey Team},",
		"title = {{The Origin of Trilobites}},",
		"year = {1967},",
		"journal = {Journal of Palaeontology},",
		"volume = {10},",
		"number = {2},",
		"pages = {123--145},",
		"doi = {10.1234/jpal.1967.123},",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("BibTeX output missing %q:\n%s", want, out)
		}
	}
}

func TestBibTeXBookEscapesAndAddresses(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBibTeX(&buf, []*types.BibliographyRecord{bookRecord()}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "@book{smith_1985_fossils,") {
		t.Errorf("entry head wrong:\n%s", out)
	}
	if !strings.Contains(out, `title = {{Fossils \& Strata}},`) {
		t.Errorf("ampersand not escaped:\n%s", out)
	}
	if !strings.Contains(out, "address = {London},") {
		t.Errorf("address missing:\n%s", out)
	}
	if !strings.Contains(out, "isbn = {9780120000000},") {
		t.Errorf("isbn missing:\n%s", out)
	}
}

func TestCiteKeyFallsBackToID(t *testing.T) {
	rec := &types.BibliographyRecord{ID: "abc-123/def"}
	if got := CiteKey(rec); got != "abc_123_def" {
		t.Errorf("CiteKey = %q, want abc_123_def", got)
	}
}

func TestCSLJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSLJSON(&buf, []*types.BibliographyRecord{articleRecord()}); err != nil {
		t.Fatal(err)
	}

	var items []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	item := items[0]
	if item["type"] != "article-journal" {
		t.Errorf("type = %v", item["type"])
	}
	if item["title"] != "The Origin of Trilobites" {
		t.Errorf("title = %v", item["title"])
	}
	if item["container-title"] != "Journal of Palaeontology" {
		t.Errorf("container-title = %v", item["container-title"])
	}
	if _, ok := item["status"]; ok {
		t.Error("engine bookkeeping leaked into CSL output")
	}
}

func TestCSLYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSLYAML(&buf, []*types.BibliographyRecord{bookRecord()}); err != nil {
		t.Fatal(err)
	}

	var items []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0]["publisher"] != "Academic Press" {
		t.Errorf("publisher = %v", items[0]["publisher"])
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csl-json", FormatCSLJSON, false},
		{"JSON", FormatCSLJSON, false},
		{"yaml", FormatCSLYAML, false},
		{"ris", FormatRIS, false},
		{"BibTeX", FormatBibTeX, false},
		{"bib", FormatBibTeX, false},
		{"endnote", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
