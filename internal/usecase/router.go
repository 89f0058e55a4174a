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

const (
	// repetitionWindow is how many trailing user turns the repetition
	// breaker compares; repetitionOverlap is the token-overlap ratio at
	// which turns count as the same question asked again.
	repetitionWindow  = 3
	repetitionOverlap = 0.8

	// offTopicLimit is how many consecutive non-expense turns are allowed
	// before the conversation is closed.
	offTopicLimit = 4
)

// ConversationRouter answers non-expense turns: closings end the session,
// everything else gets a redirect back toward recording an expense. Two
// circuit breakers run before any phrasing call so a looping user cannot
// burn inference budget indefinitely.
type ConversationRouter struct {
	inv *Invoker
	log *zerolog.Logger
}

func NewConversationRouter(inv *Invoker, logger *zerolog.Logger) *ConversationRouter {
	l := logger.With().Str("component", "ConversationRouter").Logger()
	return &ConversationRouter{inv: inv, log: &l}
}

// Respond produces the (question, status) pair for a non-expense turn.
func (r *ConversationRouter) Respond(ctx context.Context, utterance string, history []model.ConversationTurn) (model.TurnOutcome, error) {
	norm := normalizeUtterance(utterance)

	if _, ok := terminationPhrases[norm]; ok {
		return model.TurnOutcome{Status: model.StatusComplete}, nil
	}
	if norm == "" {
		// An empty transcription is noise, not a closing: redirect without
		// spending an inference call.
		return model.TurnOutcome{
			Question: "I didn't catch that. Tell me about an expense you'd like to record.",
			Status:   model.StatusContinue,
		}, nil
	}

	if r.repetitive(utterance, history) {
		r.log.Info().Msg("closing conversation: repetitive user turns")
		return model.TurnOutcome{
			Question: "It looks like we are going in circles. Let's pick this up again when you have an expense to record.",
			Status:   model.StatusComplete,
		}, nil
	}
	if r.offTopicRun(history) > offTopicLimit {
		r.log.Info().Msg("closing conversation: too many consecutive off-topic turns")
		return model.TurnOutcome{
			Question: "I can only help with recording expenses, so I'll stop here. Come back any time you have one to log.",
			Status:   model.StatusComplete,
		}, nil
	}

	var out model.TurnOutcome
	req := adapter.InferenceRequest{
		Kind:   adapter.PromptGenericQuestion,
		Prompt: prompt.BuildGenericQuestion(utterance, history),
	}
	if err := r.inv.Invoke(ctx, req, &out); err != nil {
		return model.TurnOutcome{}, err
	}
	if _, ok := model.ParseConversationStatus(string(out.Status)); !ok {
		return model.TurnOutcome{}, fmt.Errorf("%w: unknown conversation status %q", domain.ErrValidation, out.Status)
	}
	out.Question = strings.TrimSpace(out.Question)
	return out, nil
}

// repetitive reports whether the current utterance and the last turns in
// the window are near-identical, by token-set overlap. A high overlap on
// every pair means the user keeps asking the same thing.
func (r *ConversationRouter) repetitive(utterance string, history []model.ConversationTurn) bool {
	turns := []string{utterance}
	for i := len(history) - 1; i >= 0 && len(turns) < repetitionWindow; i-- {
		turns = append(turns, history[i].User)
	}
	if len(turns) < repetitionWindow {
		return false
	}
	for i := 1; i < len(turns); i++ {
		if tokenOverlap(turns[0], turns[i]) < repetitionOverlap {
			return false
		}
	}
	return true
}

// offTopicRun counts the consecutive non-expense turns ending the history,
// plus one for the current turn (the router only sees non-expense turns).
func (r *ConversationRouter) offTopicRun(history []model.ConversationTurn) int {
	run := 1
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Intent != model.IntentOther {
			break
		}
		run++
	}
	return run
}

// tokenOverlap is the Jaccard similarity of the two utterances' token sets
// after normalization.
func tokenOverlap(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for t := range as {
		if _, ok := bs[t]; ok {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range strings.Fields(normalizeUtterance(s)) {
		out[t] = struct{}{}
	}
	return out
}
