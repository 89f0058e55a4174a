package prompt

import (
	"strings"
	"testing"

	"talkbill/internal/domain/model"
)

func TestBuildExpenseExtractionIncludesContext(t *testing.T) {
	prior := model.NewInvoiceDraft()
	name := "milk"
	amount := 60.0
	qty := 1
	prior.Items = []model.LineItem{{Name: &name, Amount: &amount, Qty: &qty}}

	history := []model.ConversationTurn{{User: "milk 60", Model: "Anything else?"}}
	p := BuildExpenseExtraction("also bread for 40", &prior, history)

	for _, want := range []string{"also bread for 40", "milk", "Anything else?"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildExpenseExtractionNilPrior(t *testing.T) {
	p := BuildExpenseExtraction("coffee for 100", nil, nil)
	if !strings.Contains(p, "coffee for 100") {
		t.Fatal("prompt missing utterance")
	}
	if !strings.Contains(p, "{}") {
		t.Fatal("nil prior should render as an empty object")
	}
}

func TestBuildMissingFieldsNamesTarget(t *testing.T) {
	inv := model.NewInvoiceDraft()
	p := BuildMissingFields("the expense category", inv, "coffee", nil)
	if !strings.Contains(p, "the expense category") {
		t.Fatal("prompt missing the question target")
	}
}

func TestCategoriesDisplayTruncates(t *testing.T) {
	got := categoriesDisplay()
	if !strings.HasSuffix(got, "etc.") {
		t.Fatalf("categoriesDisplay = %q, want etc. suffix", got)
	}
	if !strings.Contains(got, model.SupportedCategories[0]) {
		t.Fatalf("categoriesDisplay = %q, missing first category", got)
	}
}
