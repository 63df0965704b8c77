// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"testing"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

func TestExtractYearNearPublished(t *testing.T) {
	m := NewMatcher(0)
	result := m.Extract("Published in 2023 by the society.", 1)

	if result.Year != 2023 {
		t.Fatalf("Year = %d, want 2023", result.Year)
	}
	matches := result.MatchesFor(types.FieldYear)
	if len(matches) == 0 {
		t.Fatal("expected at least one year match")
	}
	if matches[0].Confidence < 0.8 {
		t.Errorf("confidence = %v, want >= 0.8 near a publication marker", matches[0].Confidence)
	}
}

func TestExtractCitationLine(t *testing.T) {
	m := NewMatcher(0)
	text := "Bull. Soc. géol. France (7), IX, 1967, p. 750–757, Paris"
	result := m.Extract(text, 1)

	if result.Year != 1967 {
		t.Errorf("Year = %d, want 1967", result.Year)
	}
	if result.Volume != "9" {
		t.Errorf("Volume = %q, want %q", result.Volume, "9")
	}
	if result.Pages != "750-757" {
		t.Errorf("Pages = %q, want %q", result.Pages, "750-757")
	}
	if result.Place != "Paris" {
		t.Errorf("Place = %q, want %q", result.Place, "Paris")
	}
}

func TestYearConfidence(t *testing.T) {
	tests := []struct {
		name string
		text string
		year int
		want float64
	}{
		{"copyright symbol", "© 2021 Elsevier B.V.", 2021, 1.0},
		{"parenthesized", "Nature (1998) 391", 1998, 0.9},
		{"plain", "The expedition of 1952 returned", 1952, 0.8},
		{"near page marker", "see page 1985 for details", 1985, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewMatcher(0).Extract(tt.text, 1)
			if result.Year != tt.year {
				t.Fatalf("Year = %d, want %d", result.Year, tt.year)
			}
			best := bestFor(t, result, types.FieldYear)
			if best.Confidence != tt.want {
				t.Errorf("confidence = %v, want %v", best.Confidence, tt.want)
			}
		})
	}
}

func TestYearOutOfRangeSkipped(t *testing.T) {
	result := NewMatcher(0).Extract("catalogue entry (1234)", 1)
	if result.Year != 0 {
		t.Errorf("Year = %d, want 0 for an implausible year", result.Year)
	}
	if n := len(result.MatchesFor(types.FieldYear)); n != 0 {
		t.Errorf("got %d year matches, want 0", n)
	}
}

func TestPageRangeBeatsSinglePage(t *testing.T) {
	result := NewMatcher(0).Extract("pp. 113–142", 1)
	if result.Pages != "113-142" {
		t.Errorf("Pages = %q, want %q", result.Pages, "113-142")
	}
	for _, match := range result.MatchesFor(types.FieldPages) {
		if match.Pattern == "page_single" {
			t.Errorf("page_single matched inside a range: %q", match.RawMatch)
		}
	}
}

func TestSinglePage(t *testing.T) {
	result := NewMatcher(0).Extract("cited on p. 42.", 1)
	if result.Pages != "42" {
		t.Fatalf("Pages = %q, want %q", result.Pages, "42")
	}
	best := bestFor(t, result, types.FieldPages)
	if best.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7 for a single page", best.Confidence)
	}
}

func TestCyrillicPlace(t *testing.T) {
	result := NewMatcher(0).Extract("Москва: Наука, 1977", 1)
	if result.Place != "Москва" {
		t.Errorf("Place = %q, want %q", result.Place, "Москва")
	}
	if result.Year != 1977 {
		t.Errorf("Year = %d, want 1977", result.Year)
	}
}

func TestRomanVolumeNormalized(t *testing.T) {
	result := NewMatcher(0).Extract("Tome XIV, fasc. 2, pp. 5–30", 1)
	if result.Volume != "14" {
		t.Errorf("Volume = %q, want %q", result.Volume, "14")
	}
	if result.Issue != "2" {
		t.Errorf("Issue = %q, want %q", result.Issue, "2")
	}
}

func TestIdentifiers(t *testing.T) {
	text := "ISBN 978-3-16-148410-0 (print). ISBN 0-306-40615-2. ISSN 0028-0836."
	result := NewMatcher(0).Extract(text, 1)

	if result.ISBN != "978-3-16-148410-0" {
		t.Errorf("ISBN = %q, want the ISBN-13", result.ISBN)
	}
	if result.ISSN != "0028-0836" {
		t.Errorf("ISSN = %q, want %q", result.ISSN, "0028-0836")
	}
}

func TestISBN13WinsRegardlessOfOrder(t *testing.T) {
	text := "ISBN 0-306-40615-2. Also issued as ISBN 978-0-306-40615-7."
	result := NewMatcher(0).Extract(text, 1)
	if result.ISBN != "978-0-306-40615-7" {
		t.Errorf("ISBN = %q, want the ISBN-13 even when it appears second", result.ISBN)
	}
}

func TestDOI(t *testing.T) {
	result := NewMatcher(0).Extract("doi:10.1038/nature12373", 1)
	if result.DOI != "10.1038/nature12373" {
		t.Errorf("DOI = %q, want %q", result.DOI, "10.1038/nature12373")
	}
	best := bestFor(t, result, types.FieldDOI)
	if best.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", best.Confidence)
	}
}

func TestMatchOffsetsAndBounds(t *testing.T) {
	text := "Trudy Paleontologicheskogo Instituta, vol. 118, no. 3, Moscow: Nauka, 1977, с. 5-203. ISSN 0376-1444."
	result := NewMatcher(0).Extract(text, 4)

	if len(result.Matches) == 0 {
		t.Fatal("expected matches")
	}
	for _, match := range result.Matches {
		if match.Start < 0 || match.End > len(text) || match.Start > match.End {
			t.Errorf("%s: offsets [%d,%d) out of bounds", match.Pattern, match.Start, match.End)
		}
		if got := text[match.Start:match.End]; got != match.RawMatch {
			t.Errorf("%s: RawMatch %q does not cover [%d,%d) = %q", match.Pattern, match.RawMatch, match.Start, match.End, got)
		}
		if match.Confidence <= 0 || match.Confidence > 1 {
			t.Errorf("%s: confidence %v outside (0,1]", match.Pattern, match.Confidence)
		}
		if match.Page != 4 {
			t.Errorf("%s: page = %d, want 4", match.Pattern, match.Page)
		}
	}
}

func TestMinConfidenceFiltersSelection(t *testing.T) {
	// Near "page" the year confidence drops to 0.5, below a 0.6 bar:
	// the match stays in the evidence list but is not selected.
	result := NewMatcher(0.6).Extract("index on page 1985", 1)
	if result.Year != 0 {
		t.Errorf("Year = %d, want 0 below the selection threshold", result.Year)
	}
	if len(result.MatchesFor(types.FieldYear)) == 0 {
		t.Error("low-confidence match should still be recorded")
	}
}

func TestRomanToInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"I", 1}, {"IV", 4}, {"IX", 9}, {"XIV", 14}, {"XL", 40},
		{"XCVIII", 98}, {"CM", 900}, {"MCMXCIV", 1994}, {"xiv", 14},
	}
	for _, tt := range tests {
		if got := romanToInt(tt.in); got != tt.want {
			t.Errorf("romanToInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func bestFor(t *testing.T, result *types.ExtractionResult, field types.Field) types.PatternMatch {
	t.Helper()
	matches := result.MatchesFor(field)
	if len(matches) == 0 {
		t.Fatalf("no matches for %s", field)
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}
	return best
}
