// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"text/template"
)

// extractionPromptTmpl is the prompt sent to every provider. The text
// placeholder receives the (truncated) page text.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are a bibliographic metadata extraction expert. Extract bibliographic information from the following text, which comes from a PDF document (possibly OCR'd).

TEXT:
{{.Text}}

Extract the following fields if present:
1. title: The title of the work (article, book, report, etc.)
2. author: List of authors with family (last) name and given (first) name(s)
3. container_title: The journal, book, or series title if this is an article or chapter
4. abstract: The abstract if present
5. language: The primary language of the document (use ISO 639-1 codes: en, fr, ru, de, etc.)
6. type: One of: article, book, chapter, report, thesis, proceedings
7. publisher: Name of the publisher
8. year: Publication year (4-digit integer, e.g., 2011)
9. volume: Volume number (e.g., "23" or "XXIII")
10. issue: Issue number (e.g., "4" or "2-3")
11. page: Page range (e.g., "1-25" or "123-145")

Important guidelines:
- For authors, try to separate family and given names. If unclear, use the "literal" field.
- For Cyrillic names, preserve the original script.
- If a field is not present or unclear, leave it as null.
- The title should not include subtitle indicators like volume numbers or dates.
- Container_title is the journal or series name, not the article title.
- Page should be formatted as "start-end" (e.g., "1-25").

CRITICAL for year extraction:
- Extract the PUBLICATION YEAR of THIS document, NOT years from cited references.
- Years appearing as "Author (1990)" or "Smith 1985" are CITATIONS to other works - ignore these.
- Look for the publication year in:
  * Journal citation blocks like "[Palaeontology, Vol.10, 1967, pp. 214-44]"
  * Copyright notices like "© 2020"
  * Header/footer areas with journal info and date
  * Near volume/issue/page information
- If multiple years appear, prefer the one associated with journal/volume/page info.
- Year should be an integer (just the number, not "2011년" or "2011年").

Respond with a JSON object matching this schema:
{
  "title": "string or null",
  "author": [
    {"family": "string", "given": "string"} or {"literal": "string"}
  ],
  "container_title": "string or null",
  "abstract": "string or null",
  "language": "string or null",
  "type": "string or null",
  "publisher": "string or null",
  "year": integer or null,
  "volume": "string or null",
  "issue": "string or null",
  "page": "string or null"
}
`))

const systemPrompt = "You are a bibliographic metadata extraction expert. Always respond with valid JSON only, no other text."

// renderPrompt executes the extraction prompt template with the given text.
func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
