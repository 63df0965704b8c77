// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich fills empty record fields from the OpenAlex works API.
// Lookup prefers the record's DOI; otherwise it searches by title and
// first author. Populated fields are never overwritten.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jikhanjung/pdfhunter/internal/httputil"
	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// webEvidenceConfidence is assigned to fields taken from a web lookup.
const webEvidenceConfidence = 0.7

// Patch holds field values found online, applied fill-empty-only.
type Patch struct {
	Year           int
	ContainerTitle string
	Volume         string
	Issue          string
	Page           string
	DOI            string
	Publisher      string

	// WorkID is the OpenAlex work identifier, kept for provenance.
	WorkID string
}

// Apply copies patch values into empty record slots and appends one
// evidence entry per field taken. It reports whether anything changed.
func (p Patch) Apply(rec *types.BibliographyRecord) bool {
	taken := false
	take := func(field types.Field, value string) {
		rec.Evidence = append(rec.Evidence, types.Evidence{
			Field:      field,
			Value:      value,
			Kind:       types.EvidenceWebSearch,
			Confidence: webEvidenceConfidence,
			Metadata:   map[string]string{"source": "openalex", "work": p.WorkID},
		})
		taken = true
	}

	if rec.Year() == 0 && p.Year != 0 {
		rec.Issued = &types.DateParts{Year: p.Year}
		take(types.FieldYear, strconv.Itoa(p.Year))
	}
	if rec.ContainerTitle == "" && p.ContainerTitle != "" {
		rec.ContainerTitle = p.ContainerTitle
		take(types.FieldContainerTitle, p.ContainerTitle)
	}
	if rec.Volume == "" && p.Volume != "" {
		rec.Volume = p.Volume
		take(types.FieldVolume, p.Volume)
	}
	if rec.Issue == "" && p.Issue != "" {
		rec.Issue = p.Issue
		take(types.FieldIssue, p.Issue)
	}
	if rec.Page == "" && p.Page != "" {
		rec.Page = p.Page
		take(types.FieldPages, p.Page)
	}
	if rec.DOI == "" && p.DOI != "" {
		rec.DOI = p.DOI
		take(types.FieldDOI, p.DOI)
	}
	if rec.Publisher == "" && p.Publisher != "" {
		rec.Publisher = p.Publisher
		take(types.FieldPublisher, p.Publisher)
	}
	return taken
}

// Client queries OpenAlex for bibliographic works.
type Client struct {
	HTTPClient *http.Client
	Config     types.EnrichConfig
}

// NewClient returns a Client with a timeout taken from cfg.
func NewClient(cfg types.EnrichConfig) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Config:     cfg,
	}
}

// Enrich looks the record up on OpenAlex and applies the resulting
// patch. A record with neither DOI nor title is left untouched; a
// lookup that finds nothing is not an error.
func (c *Client) Enrich(ctx context.Context, rec *types.BibliographyRecord) error {
	var (
		work *openAlexWork
		err  error
	)
	switch {
	case rec.DOI != "":
		work, err = c.lookupDOI(ctx, rec.DOI)
	case rec.Title != "":
		work, err = c.search(ctx, searchQuery(rec))
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if work == nil {
		return nil
	}

	work.toPatch().Apply(rec)
	return nil
}

// searchQuery builds the free-text search: the title, plus the first
// author's family name when one is known.
func searchQuery(rec *types.BibliographyRecord) string {
	query := rec.Title
	if len(rec.Author) > 0 && rec.Author[0].Family != "" {
		query += " " + rec.Author[0].Family
	}
	return query
}

// openAlexWork captures the fields we need from an OpenAlex work record.
type openAlexWork struct {
	ID              string `json:"id"`
	DOI             string `json:"doi"`
	PublicationYear int    `json:"publication_year"`
	Biblio          struct {
		Volume    string `json:"volume"`
		Issue     string `json:"issue"`
		FirstPage string `json:"first_page"`
		LastPage  string `json:"last_page"`
	} `json:"biblio"`
	PrimaryLocation *struct {
		Source *struct {
			DisplayName          string `json:"display_name"`
			HostOrganizationName string `json:"host_organization_name"`
		} `json:"source"`
	} `json:"primary_location"`
}

func (w *openAlexWork) toPatch() Patch {
	p := Patch{
		Year:   w.PublicationYear,
		Volume: w.Biblio.Volume,
		Issue:  w.Biblio.Issue,
		WorkID: w.ID,
	}
	if w.Biblio.FirstPage != "" {
		p.Page = w.Biblio.FirstPage
		if w.Biblio.LastPage != "" && w.Biblio.LastPage != w.Biblio.FirstPage {
			p.Page += "-" + w.Biblio.LastPage
		}
	}
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil {
		p.ContainerTitle = w.PrimaryLocation.Source.DisplayName
		p.Publisher = w.PrimaryLocation.Source.HostOrganizationName
	}
	// OpenAlex returns the DOI as a full URL.
	if len(w.DOI) > len("https://doi.org/") {
		p.DOI = w.DOI[len("https://doi.org/"):]
	}
	return p
}

type openAlexSearchResponse struct {
	Results []openAlexWork `json:"results"`
}

// lookupDOI fetches a single work by DOI.
func (c *Client) lookupDOI(ctx context.Context, doi string) (*openAlexWork, error) {
	apiURL := openAlexAPIBase + "/https://doi.org/" + doi
	if c.Config.Email != "" {
		apiURL += "?mailto=" + url.QueryEscape(c.Config.Email)
	}

	body, status, err := c.get(ctx, apiURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", status)
	}

	var work openAlexWork
	if err := json.Unmarshal(body, &work); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return &work, nil
}

// search runs a free-text works search and returns the top hit.
func (c *Client) search(ctx context.Context, query string) (*openAlexWork, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("per-page", "1")
	if c.Config.Email != "" {
		params.Set("mailto", c.Config.Email)
	}
	apiURL := openAlexAPIBase + "?" + params.Encode()

	body, status, err := c.get(ctx, apiURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", status)
	}

	var result openAlexSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	return &result.Results[0], nil
}

func (c *Client) get(ctx context.Context, apiURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating OpenAlex request: %w", err)
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading OpenAlex response: %w", err)
	}
	return body, resp.StatusCode, nil
}
