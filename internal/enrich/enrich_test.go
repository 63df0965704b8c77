// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

const workJSON = `{
	"id": "https://openalex.org/W2168356",
	"doi": "https://doi.org/10.1037/h0025007",
	"publication_year": 1967,
	"biblio": {"volume": "9", "issue": "4", "first_page": "750", "last_page": "757"},
	"primary_location": {
		"source": {
			"display_name": "Journal of Personality and Social Psychology",
			"host_organization_name": "American Psychological Association"
		}
	}
}`

func withServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	orig := openAlexAPIBase
	openAlexAPIBase = server.URL
	t.Cleanup(func() { openAlexAPIBase = orig })

	return NewClient(types.EnrichConfig{Email: "test@example.org"})
}

func TestEnrichByDOI(t *testing.T) {
	var gotPath string
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, workJSON)
	})

	rec := &types.BibliographyRecord{
		Title: "Inference of attitudes",
		DOI:   "10.1037/h0025007",
	}
	if err := client.Enrich(context.Background(), rec); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if gotPath != "/https://doi.org/10.1037/h0025007" {
		t.Errorf("request path = %q", gotPath)
	}
	if rec.Year() != 1967 {
		t.Errorf("Year = %d, want 1967", rec.Year())
	}
	if rec.ContainerTitle != "Journal of Personality and Social Psychology" {
		t.Errorf("ContainerTitle = %q", rec.ContainerTitle)
	}
	if rec.Volume != "9" || rec.Issue != "4" {
		t.Errorf("Volume/Issue = %q/%q", rec.Volume, rec.Issue)
	}
	if rec.Page != "750-757" {
		t.Errorf("Page = %q, want 750-757", rec.Page)
	}
	if rec.Publisher != "American Psychological Association" {
		t.Errorf("Publisher = %q", rec.Publisher)
	}
}

func TestEnrichBySearch(t *testing.T) {
	var gotQuery string
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search")
		fmt.Fprintf(w, `{"results": [%s]}`, workJSON)
	})

	rec := &types.BibliographyRecord{
		Title:  "Inference of attitudes",
		Author: []types.Author{{Family: "Jones", Given: "Edward"}},
	}
	if err := client.Enrich(context.Background(), rec); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if gotQuery != "Inference of attitudes Jones" {
		t.Errorf("search query = %q", gotQuery)
	}
	if rec.Year() != 1967 {
		t.Errorf("Year = %d, want 1967", rec.Year())
	}
	if rec.DOI != "10.1037/h0025007" {
		t.Errorf("DOI = %q", rec.DOI)
	}
}

func TestEnrichKeepsExistingValues(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": [%s]}`, workJSON)
	})

	rec := &types.BibliographyRecord{
		Title:  "Inference of attitudes",
		Issued: &types.DateParts{Year: 1968},
		Volume: "10",
	}
	if err := client.Enrich(context.Background(), rec); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if rec.Year() != 1968 {
		t.Errorf("Year = %d, existing value overwritten", rec.Year())
	}
	if rec.Volume != "10" {
		t.Errorf("Volume = %q, existing value overwritten", rec.Volume)
	}
	if rec.Issue != "4" {
		t.Errorf("Issue = %q, empty field not filled", rec.Issue)
	}
}

func TestEnrichRecordsEvidence(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": [%s]}`, workJSON)
	})

	rec := &types.BibliographyRecord{Title: "Inference of attitudes"}
	if err := client.Enrich(context.Background(), rec); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if len(rec.Evidence) == 0 {
		t.Fatal("no evidence recorded")
	}
	for _, ev := range rec.Evidence {
		if ev.Kind != types.EvidenceWebSearch {
			t.Errorf("evidence kind = %q, want web_search", ev.Kind)
		}
		if ev.Metadata["source"] != "openalex" {
			t.Errorf("evidence source = %q", ev.Metadata["source"])
		}
		if ev.Metadata["work"] != "https://openalex.org/W2168356" {
			t.Errorf("evidence work = %q", ev.Metadata["work"])
		}
	}
}

func TestEnrichNoResults(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	})

	rec := &types.BibliographyRecord{Title: "Unfindable obscure pamphlet"}
	if err := client.Enrich(context.Background(), rec); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if rec.Year() != 0 || len(rec.Evidence) != 0 {
		t.Errorf("record changed without results: %+v", rec)
	}
}

func TestEnrichUnknownDOIIsNotAnError(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	rec := &types.BibliographyRecord{DOI: "10.9999/nope"}
	if err := client.Enrich(context.Background(), rec); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if rec.Year() != 0 {
		t.Errorf("Year = %d, want untouched", rec.Year())
	}
}

func TestEnrichServerError(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	rec := &types.BibliographyRecord{Title: "Anything"}
	if err := client.Enrich(context.Background(), rec); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestEnrichEmptyRecordIsNoOp(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request made for record without title or doi")
	})

	rec := &types.BibliographyRecord{}
	if err := client.Enrich(context.Background(), rec); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
}

func TestPatchApplyReportsChanges(t *testing.T) {
	rec := &types.BibliographyRecord{Volume: "3"}

	if changed := (Patch{Volume: "9"}).Apply(rec); changed {
		t.Error("Apply reported a change for an occupied slot")
	}
	if changed := (Patch{Issue: "2"}).Apply(rec); !changed {
		t.Error("Apply missed a fillable slot")
	}
	if rec.Volume != "3" || rec.Issue != "2" {
		t.Errorf("record = %+v", rec)
	}
}
