package adapter

import (
	"context"
	"encoding/json"
)

// PromptKind names the four prompt families the pipeline sends. Adapters
// may use it for structured-output hints and metrics labels.
type PromptKind string

const (
	PromptIntentClassification PromptKind = "intent_classification"
	PromptExpenseExtraction    PromptKind = "expense_extraction"
	PromptMissingFields        PromptKind = "missing_fields"
	PromptGenericQuestion      PromptKind = "generic_question"
)

// InferenceRequest is the one call shape used by every inference site.
// Prompt carries the full rendered prompt text; ResponseSchema optionally
// constrains providers that support structured output.
type InferenceRequest struct {
	Kind           PromptKind
	Prompt         string
	ResponseSchema map[string]any
}

// InferenceClient is the port for the external natural-language capability.
// Infer returns a syntactically valid JSON document or an error; it never
// returns partial or garbage results silently.
type InferenceClient interface {
	Infer(ctx context.Context, req InferenceRequest) (json.RawMessage, error)
}
