// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package patterns locates candidate bibliographic field values in raw
// page text using a fixed catalog of per-field regular expressions, and
// assigns each hit a field-specific confidence.
package patterns

import "regexp"

// pattern pairs a compiled expression with the catalog name of the rule.
type pattern struct {
	re   *regexp.Regexp
	name string
}

func compile(specs [][2]string) []pattern {
	out := make([]pattern, len(specs))
	for i, s := range specs {
		out[i] = pattern{re: regexp.MustCompile(`(?i)` + s[0]), name: s[1]}
	}
	return out
}

// Year patterns. The capture group is the year itself; ranges capture
// the first year.
var yearPatterns = compile([][2]string{
	{`\b(19[0-9]{2}|20[0-2][0-9])\b`, "year_standard"},
	{`\((\d{4})\)`, "year_parentheses"},
	{`[©℗]\s*(19[0-9]{2}|20[0-2][0-9])`, "year_copyright"},
	{`\b(19[0-9]{2}|20[0-2][0-9])[-–—](19[0-9]{2}|20[0-2][0-9])\b`, "year_range"},
})

// Page patterns. Two capture groups for ranges, one for single pages.
var pagePatterns = compile([][2]string{
	{`\bp{1,2}\.\s*(\d+)\s*[-–—]\s*(\d+)\b`, "pages_p_range"},
	{`\bpages?\s+(\d+)\s*[-–—]\s*(\d+)\b`, "pages_word_range"},
	{`\bS\.\s*(\d+)\s*[-–—]\s*(\d+)\b`, "pages_german"},
	// No \b before Cyrillic letters: RE2 word boundaries are ASCII-only.
	{`с\.\s*(\d+)\s*[-–—]\s*(\d+)\b`, "pages_russian"},
	{`:\s*(\d+)\s*[-–—]\s*(\d+)\b`, "pages_colon"},
	{`\bp\.\s*(\d+)\b`, "page_single"},
})

var volumePatterns = compile([][2]string{
	{`\bvol(?:ume)?\.?\s*([IVXLCDM]+|\d+)\b`, "volume_standard"},
	{`\bv\.\s*(\d+)\b`, "volume_abbrev"},
	{`\bt(?:ome)?\.?\s*([IVXLCDM]+|\d+)\b`, "volume_french"},
	{`том\.?\s*(\d+|[IVXLCDM]+)\b`, "volume_russian"},
	{`\bBd\.?\s*(\d+)\b`, "volume_german"},
	{`\(([IVXLCDM]+)\)`, "volume_roman_paren"},
	{`,\s*([IVXLCDM]+)\s*,`, "volume_roman_comma"},
})

var issuePatterns = compile([][2]string{
	{`\bno\.?\s*(\d+)\b`, "issue_standard"},
	{`[n№]°?\s*(\d+)\b`, "issue_numero"},
	{`\bissue\s+(\d+)\b`, "issue_word"},
	{`\bHeft\.?\s*(\d+)\b`, "issue_german"},
	{`выпуск\.?\s*(\d+)\b`, "issue_russian"},
	{`\bfasc(?:icule)?\.?\s*(\d+)\b`, "issue_fascicle"},
	{`\b\d+\s*\((\d+)\)`, "issue_in_paren"},
})

var seriesPatterns = compile([][2]string{
	{`\bBulletin\s+no\.?\s*(\d+)\b`, "series_bulletin"},
	{`\bMemoirs?\s+(\d+)\b`, "series_memoir"},
	{`труды.*?(\d+)`, "series_trudy"},
	{`(известия)`, "series_izvestiya"},
	{`(записки)`, "series_zapiski"},
	{`\bser(?:ies)?\.?\s*([A-Z]|\d+)\b`, "series_standard"},
	{`\b(n\.?\s*s\.?)\b`, "series_new"},
})

// Place patterns, mostly closed lists of publishing cities plus the
// City-before-colon shape.
var placePatterns = compile([][2]string{
	{`\b(Paris|London|New York|Berlin|Vienna|Wien|Moscow|Москва)\b`, "place_major"},
	{`\b(Leipzig|Munich|München|Oxford|Cambridge|Chicago|Tokyo)\b`, "place_major2"},
	{`\b(Amsterdam|Rotterdam|Leiden|The Hague|Den Haag)\b`, "place_dutch"},
	{`\b(Madrid|Barcelona|Rome|Roma|Milan|Milano|Firenze|Florence)\b`, "place_southern"},
	{`\b(Ленинград\w*|Leningrad|Санкт-Петербург\w*|St\.?\s*Petersburg)\b`, "place_russia"},
	{`\b(Киев|Kiev|Kyiv|Минск|Minsk)\b`, "place_eastern"},
	{`\b(Stockholm|Copenhagen|København|Oslo|Helsinki)\b`, "place_nordic"},
	{`\b(Washington|Philadelphia|Boston|Norman|Lawrence)\b`, "place_us"},
	{`\b(Toronto|Montreal|Montréal|Vancouver|Ottawa)\b`, "place_canada"},
	{`\b(Sydney|Melbourne|Canberra|Brisbane)\b`, "place_australia"},
	// Cyrillic city names cannot sit behind \b in RE2.
	{`(Москва|Ленинград|Санкт-Петербург|Петроград|Киев|Минск)`, "place_cyrillic"},
	{`([A-Z][a-zа-яé]+(?:\s+[A-Z][a-zа-яé]+)?)\s*:`, "place_before_colon"},
})

var doiPatterns = compile([][2]string{
	{`\b(10\.\d{4,}/[^\s]+)\b`, "doi_standard"},
	{`doi\.org/(10\.\d{4,}/[^\s]+)`, "doi_url"},
	{`doi:\s*(10\.\d{4,}/[^\s]+)`, "doi_prefix"},
})

// Identifier patterns. The pattern name doubles as the identifier kind;
// ISBN-13 precedes ISBN-10 so that a 13-digit ISBN is claimed first.
var identifierPatterns = compile([][2]string{
	{`\bISSN[:\s]*(\d{4}[-–]\d{3}[\dXx])\b`, "issn"},
	{`\bISBN[:\s]*(97[89][-–\s]?\d{1,5}[-–\s]?\d{1,7}[-–\s]?\d{1,7}[-–\s]?\d)\b`, "isbn13"},
	{`\bISBN[:\s]*(\d{1,5}[-–\s]?\d{1,7}[-–\s]?\d{1,7}[-–\s]?[\dXx])\b`, "isbn10"},
})

// romanValues maps Roman numeral characters to their values.
var romanValues = map[rune]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// isRoman reports whether s consists solely of Roman numeral characters.
func isRoman(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		upper := r
		if r >= 'a' && r <= 'z' {
			upper = r - 'a' + 'A'
		}
		if _, ok := romanValues[upper]; !ok {
			return false
		}
	}
	return true
}

// romanToInt converts a Roman numeral to its integer value using the
// subtractive reading (IX = 9).
func romanToInt(s string) int {
	total, prev := 0, 0
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if r >= 'a' && r <= 'z' {
			r = r - 'a' + 'A'
		}
		curr := romanValues[r]
		if curr < prev {
			total -= curr
		} else {
			total += curr
		}
		prev = curr
	}
	return total
}

// isValidYear reports whether a year is plausible for a bibliographic
// record.
func isValidYear(year int) bool {
	return year >= 1500 && year <= 2030
}
