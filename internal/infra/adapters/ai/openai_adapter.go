package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"talkbill/internal/domain"
	"talkbill/internal/domain/ports/adapter"
)

var _ adapter.InferenceClient = (*OpenAIAdapter)(nil)

// OpenAIAdapter serves inference requests through the Chat Completions
// API with JSON-object response format, as the fallback provider.
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, baseURL, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai: empty api key")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIAdapter{client: openai.NewClient(opts...), model: model}, nil
}

func (o *OpenAIAdapter) Infer(ctx context.Context, req adapter.InferenceRequest) (json.RawMessage, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai %s: %v", domain.ErrInference, req.Kind, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai %s: no choices", domain.ErrInference, req.Kind)
	}
	return validJSON(resp.Choices[0].Message.Content, "openai", req.Kind)
}
