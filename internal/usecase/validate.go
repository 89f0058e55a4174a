package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/adapter"
	"talkbill/internal/prompt"
)

// maxQuestionTargets caps how many gaps a single follow-up question may
// cover, so the user is never interrogated about the whole draft at once.
const maxQuestionTargets = 3

// CompletionValidator decides whether a draft is finished and, when it is
// not, produces the one follow-up question for this turn. Completeness and
// target selection are local rules; inference only phrases the question.
type CompletionValidator struct {
	inv *Invoker
	log *zerolog.Logger
}

func NewCompletionValidator(inv *Invoker, logger *zerolog.Logger) *CompletionValidator {
	l := logger.With().Str("component", "CompletionValidator").Logger()
	return &CompletionValidator{inv: inv, log: &l}
}

// Evaluate returns the turn outcome for an expense turn. A complete draft
// short-circuits with no inference call. A phrasing failure degrades to an
// error-status outcome rather than failing the whole turn: the draft is
// intact and the next turn can recover.
func (v *CompletionValidator) Evaluate(ctx context.Context, invoice model.InvoiceDraft, utterance string, history []model.ConversationTurn) (model.TurnOutcome, error) {
	if invoice.Complete() {
		return model.TurnOutcome{Status: model.StatusComplete}, nil
	}

	askFor := questionTarget(invoice)

	var resp struct {
		Question string `json:"question"`
	}
	req := adapter.InferenceRequest{
		Kind:   adapter.PromptMissingFields,
		Prompt: prompt.BuildMissingFields(askFor, invoice, utterance, history),
	}
	if err := v.inv.Invoke(ctx, req, &resp); err != nil {
		v.log.Warn().Err(err).Str("ask_for", askFor).Msg("failed to phrase follow-up question")
		return model.TurnOutcome{
			Question: "Sorry, something went wrong while processing your expense. Could you repeat that?",
			Status:   model.StatusError,
		}, nil
	}

	question := strings.TrimSpace(resp.Question)
	if question == "" {
		// A blank phrasing still has to move the conversation forward.
		question = fmt.Sprintf("Could you tell me %s?", askFor)
	}
	// The completeness predicate already ruled: an incomplete draft always
	// continues, whatever the phrasing call claims.
	return model.TurnOutcome{Question: question, Status: model.StatusContinue}, nil
}

// questionTarget picks what this turn's question asks about, in priority
// order: unnamed amounts first, then a category-only gap, then up to three
// missing item fields.
func questionTarget(invoice model.InvoiceDraft) string {
	if amounts := invoice.UnnamedAmounts(); len(amounts) > 0 {
		if len(amounts) > maxQuestionTargets {
			amounts = amounts[:maxQuestionTargets]
		}
		parts := make([]string, len(amounts))
		for i, a := range amounts {
			parts[i] = fmt.Sprintf("%g", a)
		}
		return fmt.Sprintf("what the amount%s %s %s spent on",
			plural(len(parts)), joinAnd(parts), wasWere(len(parts)))
	}

	gaps := fieldGaps(invoice)
	if len(gaps) == 0 && invoice.Category == "" {
		return "the expense category"
	}
	if invoice.Category == "" {
		gaps = append(gaps, "the expense category")
	}
	if len(gaps) > maxQuestionTargets {
		gaps = gaps[:maxQuestionTargets]
	}
	return joinAnd(gaps)
}

// fieldGaps lists the per-item fields still missing, in draft order.
func fieldGaps(invoice model.InvoiceDraft) []string {
	var gaps []string
	for i, it := range invoice.Items {
		label := fmt.Sprintf("item %d", i+1)
		if it.Name != nil && *it.Name != "" {
			label = *it.Name
		} else if it.Amount == nil {
			gaps = append(gaps, fmt.Sprintf("the name of %s", label))
		}
		if it.Amount == nil || *it.Amount <= 0 {
			gaps = append(gaps, fmt.Sprintf("the amount for %s", label))
		}
		if it.Qty == nil || *it.Qty <= 0 {
			gaps = append(gaps, fmt.Sprintf("the quantity of %s", label))
		}
	}
	if len(invoice.Items) == 0 {
		gaps = append(gaps, "what you bought")
	}
	return gaps
}

func joinAnd(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func wasWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}
