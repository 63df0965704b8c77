// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"strings"
)

// Mock is an Extractor for tests. Responses maps a substring of the
// input text to the result to return; unmatched text yields an empty
// result (or Err when set).
type Mock struct {
	Responses map[string]Result
	Err       error

	CallCount int
	LastText  string
}

// Extract returns the first configured response whose key occurs in text.
func (m *Mock) Extract(_ context.Context, text string) (Result, error) {
	m.CallCount++
	m.LastText = text

	if m.Err != nil {
		return Result{}, m.Err
	}
	for key, resp := range m.Responses {
		if key != "" && strings.Contains(text, key) {
			return resp, nil
		}
	}
	return Result{Model: "mock"}, nil
}
