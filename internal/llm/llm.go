// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm extracts bibliographic fields from page text with a
// language model. Backends implement the Extractor interface so the
// pipeline and tests can swap providers.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// DefaultMaxTextLength caps how much page text is sent to a provider.
const DefaultMaxTextLength = 4000

// Extractor abstracts the language-model API so tests can supply a mock.
// Each implementation handles one blob of page text and returns the
// parsed field set.
type Extractor interface {
	Extract(ctx context.Context, text string) (Result, error)
}

// Result is the field set a language model extracted from one text blob.
// Zero values mean the model did not report the field.
type Result struct {
	Title          string         `json:"title,omitempty" yaml:"title,omitempty"`
	Authors        []types.Author `json:"author,omitempty" yaml:"author,omitempty"`
	ContainerTitle string         `json:"container_title,omitempty" yaml:"container_title,omitempty"`
	Abstract       string         `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Language       string         `json:"language,omitempty" yaml:"language,omitempty"`
	Type           string         `json:"type,omitempty" yaml:"type,omitempty"`
	Publisher      string         `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Year           int            `json:"year,omitempty" yaml:"year,omitempty"`
	Volume         string         `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue          string         `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page           string         `json:"page,omitempty" yaml:"page,omitempty"`

	// Model names the backend model that produced the result.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
}

// HasTitle reports whether the model extracted a non-empty title.
func (r Result) HasTitle() bool { return r.Title != "" }

// HasAuthors reports whether the model extracted at least one author.
func (r Result) HasAuthors() bool { return len(r.Authors) > 0 }

// wireResult mirrors the JSON schema the prompts ask for. Year arrives
// as an integer or a digit string depending on the model's mood.
type wireResult struct {
	Title          string         `json:"title"`
	Author         []types.Author `json:"author"`
	ContainerTitle string         `json:"container_title"`
	Abstract       string         `json:"abstract"`
	Language       string         `json:"language"`
	Type           string         `json:"type"`
	Publisher      string         `json:"publisher"`
	Year           any            `json:"year"`
	Volume         string         `json:"volume"`
	Issue          string         `json:"issue"`
	Page           string         `json:"page"`
}

// ParseResult decodes a model response into a Result. Markdown code
// fences around the JSON object are stripped first.
func ParseResult(raw string) (Result, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) >= 2 {
			text = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return Result{}, fmt.Errorf("parsing model response JSON: %w", err)
	}

	result := Result{
		Title:          wire.Title,
		ContainerTitle: wire.ContainerTitle,
		Abstract:       wire.Abstract,
		Language:       wire.Language,
		Type:           wire.Type,
		Publisher:      wire.Publisher,
		Volume:         wire.Volume,
		Issue:          wire.Issue,
		Page:           wire.Page,
	}

	switch y := wire.Year.(type) {
	case float64:
		result.Year = int(y)
	case string:
		if n, err := strconv.Atoi(y); err == nil {
			result.Year = n
		}
	}

	for _, a := range wire.Author {
		if a.HasName() {
			result.Authors = append(result.Authors, a)
		}
	}

	return result, nil
}

// truncate limits text to max bytes, marking the cut. Non-positive max
// selects the default.
func truncate(text string, max int) string {
	if max <= 0 {
		max = DefaultMaxTextLength
	}
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
