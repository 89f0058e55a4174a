package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/adapter"
	"talkbill/internal/prompt"
)

// extractionProposal is the raw shape the extraction call returns for one
// turn. It only describes what the current utterance mentioned; merging
// against the prior draft is entirely local.
type extractionProposal struct {
	Category         *string          `json:"expense_category"`
	CategoryExplicit bool             `json:"category_explicit"`
	Items            []model.LineItem `json:"items"`
	Payment          *string          `json:"payment_type"`
}

// ExtractionMergeEngine folds one utterance into the session's invoice
// draft. Inference proposes what the turn mentioned; every aggregation
// rule (amount distribution, in-place completion, removals, category
// resolution, sign normalization) runs here deterministically.
type ExtractionMergeEngine struct {
	inv *Invoker
	log *zerolog.Logger
}

func NewExtractionMergeEngine(inv *Invoker, logger *zerolog.Logger) *ExtractionMergeEngine {
	l := logger.With().Str("component", "ExtractionMergeEngine").Logger()
	return &ExtractionMergeEngine{inv: inv, log: &l}
}

// Merge returns the next draft. Prior drafts are never mutated; a failed
// inference call returns an error with no partial merge applied.
func (e *ExtractionMergeEngine) Merge(ctx context.Context, utterance string, prior *model.InvoiceDraft, history []model.ConversationTurn) (model.InvoiceDraft, error) {
	base := model.NewInvoiceDraft()
	if prior != nil {
		base = prior.Clone()
		if base.PaymentMethod == "" {
			base.PaymentMethod = model.DefaultPaymentMethod
		}
	}

	cues := parseTurnCues(utterance)
	if cues.noop {
		// Pure acknowledgement or termination: identity merge, no inference.
		return base, nil
	}

	var prop extractionProposal
	req := adapter.InferenceRequest{
		Kind:   adapter.PromptExpenseExtraction,
		Prompt: prompt.BuildExpenseExtraction(utterance, prior, history),
	}
	if err := e.inv.Invoke(ctx, req, &prop); err != nil {
		return model.InvoiceDraft{}, err
	}

	turnItems := sanitizeItems(prop.Items)
	distribute(turnItems, cues)

	// Removals apply to the prior draft before anything from this turn
	// lands, so "remove petrol and add coffee" behaves as both halves.
	for _, name := range cues.removals {
		base.Items = removeItems(base.Items, name)
	}

	mergeItems(&base, turnItems)

	if prop.Payment != nil && strings.TrimSpace(*prop.Payment) != "" {
		base.PaymentMethod = strings.ToLower(strings.TrimSpace(*prop.Payment))
	}

	resolveCategory(&base, cues, prop)

	base.NormalizeSigns()
	return base, nil
}

// sanitizeItems drops structurally useless proposals and strips names that
// are currency markers or bare units rather than things the user bought.
func sanitizeItems(items []model.LineItem) []model.LineItem {
	out := make([]model.LineItem, 0, len(items))
	for _, it := range items {
		if it.Name != nil {
			n := strings.TrimSpace(*it.Name)
			if n == "" || blockedItemName(n) {
				it.Name = nil
			} else {
				it.Name = &n
			}
		}
		if it.Name == nil && it.Amount == nil && it.Qty == nil {
			continue
		}
		out = append(out, it)
	}
	return out
}

// distribute applies the group-amount cues from the utterance onto the
// turn's items. "each" and per-unit phrasing win over a grand total.
func distribute(items []model.LineItem, c turnCues) {
	for i := range items {
		if c.eachAmount != nil && items[i].Amount == nil {
			a := *c.eachAmount
			items[i].Amount = &a
		}
		if c.groupQty != nil && items[i].Qty == nil {
			q := *c.groupQty
			items[i].Qty = &q
		}
	}
	if c.totalAmount == nil || c.eachAmount != nil || c.perUnit {
		return
	}
	for i := range items {
		// The grand total covers the whole line: store the per-unit share.
		if items[i].Amount != nil && *items[i].Amount != *c.totalAmount {
			continue
		}
		qty := 1
		if items[i].Qty != nil && *items[i].Qty > 0 {
			qty = *items[i].Qty
		}
		a := round2(*c.totalAmount / float64(qty))
		items[i].Amount = &a
	}
}

func removeItems(items []model.LineItem, name string) []model.LineItem {
	out := items[:0]
	for _, it := range items {
		if it.Name != nil && sameItemName(*it.Name, name) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// mergeItems folds the turn's items into the draft. A single named item can
// claim an unnamed amount slot (amount match first, then earliest); a
// same-named incomplete line absorbs new detail; everything else appends.
func mergeItems(base *model.InvoiceDraft, turn []model.LineItem) {
	if len(turn) == 1 && turn[0].Name != nil {
		if idx := matchUnnamedSlot(base.Items, turn[0]); idx >= 0 {
			fillItem(&base.Items[idx], turn[0])
			return
		}
	}
	for _, it := range turn {
		if it.Name != nil {
			if idx := findIncompleteNamed(base.Items, *it.Name); idx >= 0 {
				fillItem(&base.Items[idx], it)
				continue
			}
		}
		if it.Qty == nil {
			one := 1
			it.Qty = &one
		}
		base.Items = append(base.Items, it)
	}
}

// matchUnnamedSlot picks the unnamed draft item the turn's single item is
// answering for. An exact amount match disambiguates; otherwise the
// earliest unnamed slot wins.
func matchUnnamedSlot(items []model.LineItem, turn model.LineItem) int {
	if turn.Amount != nil {
		for i, it := range items {
			if itemUnnamed(it) && it.Amount != nil && *it.Amount == *turn.Amount {
				return i
			}
		}
	}
	for i, it := range items {
		if itemUnnamed(it) {
			return i
		}
	}
	return -1
}

func itemUnnamed(it model.LineItem) bool {
	return it.Name == nil || *it.Name == ""
}

func findIncompleteNamed(items []model.LineItem, name string) int {
	for i, it := range items {
		if it.Name != nil && sameItemName(*it.Name, name) && !it.Complete() {
			return i
		}
	}
	return -1
}

// fillItem copies the turn's fields into the draft slot without clobbering
// detail the draft already holds.
func fillItem(dst *model.LineItem, src model.LineItem) {
	if dst.Name == nil && src.Name != nil {
		dst.Name = src.Name
	}
	if dst.Amount == nil && src.Amount != nil {
		dst.Amount = src.Amount
	}
	if dst.Qty == nil {
		if src.Qty != nil {
			dst.Qty = src.Qty
		} else {
			one := 1
			dst.Qty = &one
		}
	}
}

// resolveCategory applies the category precedence: a category named in this
// turn locks the draft against inference; an already locked draft only
// changes when the user names another one; otherwise the lexicon decides.
func resolveCategory(base *model.InvoiceDraft, cues turnCues, prop extractionProposal) {
	switch {
	case cues.explicitCategory != "":
		base.Category = strings.ToLower(cues.explicitCategory)
		base.CategoryExplicit = true
	case prop.CategoryExplicit && prop.Category != nil && strings.TrimSpace(*prop.Category) != "":
		base.Category = strings.ToLower(strings.TrimSpace(*prop.Category))
		base.CategoryExplicit = true
	case !base.CategoryExplicit:
		base.Category = model.InferCategory(base.Items)
	}
}
