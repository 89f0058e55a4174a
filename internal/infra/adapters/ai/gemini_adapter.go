package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"talkbill/internal/domain"
	"talkbill/internal/domain/ports/adapter"
)

var _ adapter.InferenceClient = (*GeminiAdapter)(nil)

// GeminiAdapter serves inference requests through the Gemini API. Every
// prompt asks for a JSON document, so generation runs at temperature zero
// with a JSON response MIME type.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model}, nil
}

func (g *GeminiAdapter) Infer(ctx context.Context, req adapter.InferenceRequest) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0)),
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini %s: %v", domain.ErrInference, req.Kind, err)
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		text = resp.Candidates[0].Content.Parts[0].Text
	}
	return validJSON(text, "gemini", req.Kind)
}

// validJSON strips markdown fences some models wrap around JSON output and
// rejects anything that still does not parse. Garbage never leaves the
// adapter silently.
func validJSON(text, provider string, kind adapter.PromptKind) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: %s %s: empty response", domain.ErrInference, provider, kind)
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("%w: %s %s: response is not valid JSON", domain.ErrInference, provider, kind)
	}
	return json.RawMessage(text), nil
}
