package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"talkbill/internal/domain"
	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/adapter"
	"talkbill/internal/prompt"
)

// IntentClassifier decides whether a turn is expense input or something
// else. It is a thin facade over the inference capability; the only local
// rule is the empty-utterance short circuit.
type IntentClassifier struct {
	inv *Invoker
	log *zerolog.Logger
}

func NewIntentClassifier(inv *Invoker, logger *zerolog.Logger) *IntentClassifier {
	l := logger.With().Str("component", "IntentClassifier").Logger()
	return &IntentClassifier{inv: inv, log: &l}
}

func (c *IntentClassifier) Classify(ctx context.Context, utterance string, history []model.ConversationTurn) (model.Intent, error) {
	// Empty input never reaches inference: nothing to classify, and the
	// default is always "other".
	if strings.TrimSpace(utterance) == "" {
		return model.IntentOther, nil
	}

	var resp struct {
		Intent string `json:"intent"`
	}
	req := adapter.InferenceRequest{
		Kind:   adapter.PromptIntentClassification,
		Prompt: prompt.BuildIntentClassification(history, utterance),
	}
	if err := c.inv.Invoke(ctx, req, &resp); err != nil {
		c.log.Warn().Err(err).Str("utterance", utterance).Msg("failed to identify intent")
		return "", err
	}

	intent, ok := model.ParseIntent(resp.Intent)
	if !ok {
		return "", fmt.Errorf("%w: unknown intent %q", domain.ErrValidation, resp.Intent)
	}
	return intent, nil
}
