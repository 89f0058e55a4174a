package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"talkbill/internal/domain/model"
)

// BuildIntentClassification renders the intent prompt for one turn.
func BuildIntentClassification(history []model.ConversationTurn, utterance string) string {
	return fmt.Sprintf(intentClassificationTemplate, historyJSON(history), utterance)
}

// BuildExpenseExtraction renders the current-turn extraction prompt. The
// prior invoice rides along as reference context only; the engine merges.
func BuildExpenseExtraction(utterance string, prior *model.InvoiceDraft, history []model.ConversationTurn) string {
	return fmt.Sprintf(expenseExtractionTemplate, invoiceJSON(prior), historyJSON(history), utterance)
}

// BuildMissingFields renders the question-phrasing prompt. askFor is the
// deterministically selected question target (which fields, which amounts).
func BuildMissingFields(askFor string, invoice model.InvoiceDraft, utterance string, history []model.ConversationTurn) string {
	return fmt.Sprintf(missingFieldsTemplate, askFor, invoiceJSON(&invoice), utterance, historyJSON(history))
}

// BuildGenericQuestion renders the non-expense redirect prompt.
func BuildGenericQuestion(utterance string, history []model.ConversationTurn) string {
	return fmt.Sprintf(genericQuestionTemplate, utterance, historyJSON(history), categoriesDisplay())
}

func historyJSON(history []model.ConversationTurn) string {
	if len(history) == 0 {
		return "[]"
	}
	b, err := json.Marshal(history)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func invoiceJSON(inv *model.InvoiceDraft) string {
	if inv == nil {
		return "{}"
	}
	b, err := json.Marshal(inv)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// categoriesDisplay joins the supported categories for prompt display,
// truncating to the first three plus "etc." when the list is longer.
func categoriesDisplay() string {
	cats := model.SupportedCategories
	if len(cats) <= 3 {
		return strings.Join(cats, ", ")
	}
	return strings.Join(cats[:3], ", ") + ", etc."
}
