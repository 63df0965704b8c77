// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jikhanjung/pdfhunter/internal/httputil"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test
// substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// DefaultClaudeModel is used when a ClaudeBackend is built without an
// explicit model.
const DefaultClaudeModel = "claude-3-haiku-20240307"

// ClaudeBackend extracts bibliographic fields via the Claude Messages API.
type ClaudeBackend struct {
	APIKey        string
	Model         string
	MaxTextLength int
	Client        *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
	Model   string          `json:"model"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Extract sends the extraction prompt with the given text to the Claude
// API and parses the JSON reply. Rate-limited calls are retried with
// backoff.
func (c *ClaudeBackend) Extract(ctx context.Context, text string) (Result, error) {
	prompt, err := renderPrompt(truncate(text, c.MaxTextLength))
	if err != nil {
		return Result{}, fmt.Errorf("rendering prompt: %w", err)
	}

	model := c.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	reqBody := claudeRequest{
		Model:     model,
		MaxTokens: 2000,
		System:    systemPrompt,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return Result{}, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return Result{}, fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		result, err := ParseResult(block.Text)
		if err != nil {
			return Result{}, err
		}
		result.Model = cResp.Model
		if result.Model == "" {
			result.Model = model
		}
		return result, nil
	}

	return Result{}, fmt.Errorf("no text content in Claude API response")
}
