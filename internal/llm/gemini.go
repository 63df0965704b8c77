// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when a GeminiBackend is built without an
// explicit model.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiBackend extracts bibliographic fields via the Google Gemini API.
type GeminiBackend struct {
	APIKey        string
	Model         string
	MaxTextLength int
}

// Extract sends the extraction prompt with the given text to Gemini and
// parses the JSON reply.
func (g *GeminiBackend) Extract(ctx context.Context, text string) (Result, error) {
	if g.APIKey == "" {
		return Result{}, fmt.Errorf("gemini API key not set")
	}

	prompt, err := renderPrompt(truncate(text, g.MaxTextLength))
	if err != nil {
		return Result{}, fmt.Errorf("rendering prompt: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return Result{}, fmt.Errorf("creating gemini client: %w", err)
	}
	defer client.Close()

	modelName := g.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Result{}, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return Result{}, fmt.Errorf("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return Result{}, fmt.Errorf("empty content returned from Gemini")
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return Result{}, fmt.Errorf("unexpected response format from Gemini")
	}

	result, err := ParseResult(string(txt))
	if err != nil {
		return Result{}, err
	}
	result.Model = modelName
	return result, nil
}
