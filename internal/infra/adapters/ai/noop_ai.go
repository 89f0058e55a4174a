package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"talkbill/internal/domain/ports/adapter"
)

var _ adapter.InferenceClient = (*NoopAdapter)(nil)

// NoopAdapter answers inference requests with canned JSON for local/dev
// runs where no provider key is configured.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

func (a *NoopAdapter) Infer(ctx context.Context, req adapter.InferenceRequest) (json.RawMessage, error) {
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	switch req.Kind {
	case adapter.PromptIntentClassification:
		return json.RawMessage(`{"intent":"other"}`), nil
	case adapter.PromptExpenseExtraction:
		return json.RawMessage(`{"expense_category":null,"category_explicit":false,"items":[],"payment_type":null}`), nil
	case adapter.PromptMissingFields:
		return json.RawMessage(`{"question":"What did you buy, and how much did it cost?","status":"continue"}`), nil
	case adapter.PromptGenericQuestion:
		return json.RawMessage(`{"question":"I can help you record expenses. What did you spend today?","status":"continue"}`), nil
	}
	return nil, fmt.Errorf("noop: unknown prompt kind %q", req.Kind)
}
