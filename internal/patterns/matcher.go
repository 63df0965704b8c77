// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"strconv"
	"strings"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// DefaultMinConfidence is the selection threshold below which matches
// stay in the evidence list but are never chosen as a best value.
const DefaultMinConfidence = 0.5

// Matcher scans text blobs with the pattern catalog and selects best
// values per field. Matching is a pure function of the input text, so a
// single Matcher is safe to share across pages.
type Matcher struct {
	minConfidence float64
}

// NewMatcher returns a Matcher with the given selection threshold.
// A non-positive threshold selects the default (0.5).
func NewMatcher(minConfidence float64) *Matcher {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Matcher{minConfidence: minConfidence}
}

// Extract applies every catalog pattern to text and returns all matches
// plus the best value per field. page is the 1-based source page, 0
// when the text is not page-bound (e.g. concatenated header strips).
func (m *Matcher) Extract(text string, page int) *types.ExtractionResult {
	result := &types.ExtractionResult{}

	m.extractYears(text, page, result)
	m.extractPages(text, page, result)
	m.extractVolumes(text, page, result)
	m.extractSimple(text, page, issuePatterns, types.FieldIssue, 0.85, result)
	m.extractSeries(text, page, result)
	m.extractPlaces(text, page, result)
	m.extractSimple(text, page, doiPatterns, types.FieldDOI, 0.95, result)
	m.extractIdentifiers(text, page, result)

	m.setBestValues(result)
	return result
}

func (m *Matcher) extractYears(text string, page int, result *types.ExtractionResult) {
	for _, p := range yearPatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			yearStr := text[loc[2]:loc[3]]
			year, err := strconv.Atoi(yearStr)
			if err != nil || !isValidYear(year) {
				continue
			}
			result.Matches = append(result.Matches, types.PatternMatch{
				Field:      types.FieldYear,
				Value:      strconv.Itoa(year),
				RawMatch:   text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: yearConfidence(p.name, text, loc[0], loc[1]),
				Pattern:    p.name,
				Page:       page,
			})
		}
	}
}

// yearConfidence applies the year confidence rule: base 0.8 with
// pattern-specific overrides, boosted near publication markers and
// penalized near page/volume markers (years there are usually page or
// volume numbers).
func yearConfidence(patternName, text string, start, end int) float64 {
	confidence := 0.8
	switch patternName {
	case "year_copyright":
		confidence = 0.95
	case "year_parentheses":
		confidence = 0.9
	}

	ctxStart := start - 20
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + 20
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}
	context := strings.ToLower(text[ctxStart:ctxEnd])

	for _, marker := range []string{"published", "copyright", "©", "année", "год"} {
		if strings.Contains(context, marker) {
			confidence += 0.15
			if confidence > 1.0 {
				confidence = 1.0
			}
			break
		}
	}
	for _, marker := range []string{"p.", "pp.", "page", "vol"} {
		if strings.Contains(context, marker) {
			confidence -= 0.3
			if confidence < 0.3 {
				confidence = 0.3
			}
			break
		}
	}
	return confidence
}

func (m *Matcher) extractPages(text string, page int, result *types.ExtractionResult) {
	for _, p := range pagePatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			var value string
			confidence := 0.7
			if len(loc) >= 6 && loc[4] >= 0 {
				value = text[loc[2]:loc[3]] + "-" + text[loc[4]:loc[5]]
				confidence = 0.9
			} else {
				// Single page. RE2 has no lookahead, so a page number
				// that is really the start of a range is rejected here.
				if p.name == "page_single" && followedByDash(text, loc[1]) {
					continue
				}
				value = text[loc[2]:loc[3]]
			}
			result.Matches = append(result.Matches, types.PatternMatch{
				Field:      types.FieldPages,
				Value:      value,
				RawMatch:   text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: confidence,
				Pattern:    p.name,
				Page:       page,
			})
		}
	}
}

// followedByDash reports whether the text after offset, skipping spaces,
// starts with a dash character.
func followedByDash(text string, offset int) bool {
	rest := strings.TrimLeft(text[offset:], " \t")
	for _, dash := range []string{"-", "–", "—"} {
		if strings.HasPrefix(rest, dash) {
			return true
		}
	}
	return false
}

func (m *Matcher) extractVolumes(text string, page int, result *types.ExtractionResult) {
	for _, p := range volumePatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			value := text[loc[2]:loc[3]]
			if isRoman(value) {
				value = strconv.Itoa(romanToInt(value))
			}
			result.Matches = append(result.Matches, types.PatternMatch{
				Field:      types.FieldVolume,
				Value:      value,
				RawMatch:   text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: 0.85,
				Pattern:    p.name,
				Page:       page,
			})
		}
	}
}

// extractSimple handles categories where every pattern shares one fixed
// confidence and the value is the first capture group.
func (m *Matcher) extractSimple(text string, page int, pats []pattern, field types.Field, confidence float64, result *types.ExtractionResult) {
	for _, p := range pats {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			result.Matches = append(result.Matches, types.PatternMatch{
				Field:      field,
				Value:      text[loc[2]:loc[3]],
				RawMatch:   text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: confidence,
				Pattern:    p.name,
				Page:       page,
			})
		}
	}
}

func (m *Matcher) extractSeries(text string, page int, result *types.ExtractionResult) {
	for _, p := range seriesPatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			value := text[loc[0]:loc[1]]
			if len(loc) >= 4 && loc[2] >= 0 {
				value = text[loc[2]:loc[3]]
			}
			result.Matches = append(result.Matches, types.PatternMatch{
				Field:      types.FieldSeries,
				Value:      value,
				RawMatch:   text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: 0.8,
				Pattern:    p.name,
				Page:       page,
			})
		}
	}
}

func (m *Matcher) extractPlaces(text string, page int, result *types.ExtractionResult) {
	for _, p := range placePatterns {
		confidence := 0.75
		if p.name == "place_major" || p.name == "place_major2" || p.name == "place_cyrillic" {
			confidence = 0.9
		}
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			result.Matches = append(result.Matches, types.PatternMatch{
				Field:      types.FieldPlace,
				Value:      text[loc[2]:loc[3]],
				RawMatch:   text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: confidence,
				Pattern:    p.name,
				Page:       page,
			})
		}
	}
}

// identifierCleaner strips the separators that ISSN/ISBN values carry
// in print.
var identifierCleaner = strings.NewReplacer("–", "-", " ", "")

func (m *Matcher) extractIdentifiers(text string, page int, result *types.ExtractionResult) {
	for _, p := range identifierPatterns {
		field := types.FieldISBN
		if p.name == "issn" {
			field = types.FieldISSN
		}
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			result.Matches = append(result.Matches, types.PatternMatch{
				Field:      field,
				Value:      identifierCleaner.Replace(text[loc[2]:loc[3]]),
				RawMatch:   text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: 0.95,
				Pattern:    p.name,
				Page:       page,
			})
		}
	}
}

// setBestValues fills the per-field best values: matches at or above
// the selection threshold, maximum confidence, first-seen tie-break.
// The ISBN slot is claimed by ISBN-13 matches first; an ISBN-10 match
// never displaces one regardless of scan order.
func (m *Matcher) setBestValues(result *types.ExtractionResult) {
	for _, field := range types.PatternFields {
		var best *types.PatternMatch
		if field == types.FieldISBN {
			best = m.bestMatch(result, field, "isbn13")
			if best == nil {
				best = m.bestMatch(result, field, "isbn10")
			}
		} else {
			best = m.bestMatch(result, field, "")
		}
		if best == nil {
			continue
		}

		switch field {
		case types.FieldYear:
			year, err := strconv.Atoi(best.Value)
			if err != nil {
				continue
			}
			result.Year = year
		case types.FieldPages:
			result.Pages = best.Value
		case types.FieldVolume:
			result.Volume = best.Value
		case types.FieldIssue:
			result.Issue = best.Value
		case types.FieldSeries:
			result.Series = best.Value
		case types.FieldPlace:
			result.Place = best.Value
		case types.FieldDOI:
			result.DOI = best.Value
		case types.FieldISSN:
			result.ISSN = best.Value
		case types.FieldISBN:
			result.ISBN = best.Value
		}
	}
}

// bestMatch returns the maximum-confidence match for field at or above
// the threshold, restricted to one pattern name when pattern is
// non-empty. Ties keep the first match encountered.
func (m *Matcher) bestMatch(result *types.ExtractionResult, field types.Field, pattern string) *types.PatternMatch {
	var best *types.PatternMatch
	for i := range result.Matches {
		match := &result.Matches[i]
		if match.Field != field || match.Confidence < m.minConfidence {
			continue
		}
		if pattern != "" && match.Pattern != pattern {
			continue
		}
		if best == nil || match.Confidence > best.Confidence {
			best = match
		}
	}
	return best
}
