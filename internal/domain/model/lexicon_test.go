package model

import "testing"

func TestInferCategory(t *testing.T) {
	cases := []struct {
		name  string
		items []LineItem
		want  string
	}{
		{"no items", nil, ""},
		{"unknown item", []LineItem{{Name: strPtr("widget")}}, ""},
		{"single category", []LineItem{{Name: strPtr("milk")}, {Name: strPtr("coffee")}}, "food"},
		{"mixed categories", []LineItem{{Name: strPtr("milk")}, {Name: strPtr("petrol")}}, CategoryMixed},
		{"unnamed ignored", []LineItem{{Amount: f64Ptr(100)}, {Name: strPtr("taxi")}}, "transport"},
	}
	for _, tc := range cases {
		if got := InferCategory(tc.items); got != tc.want {
			t.Errorf("%s: InferCategory = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestLookupCategoryNormalizes(t *testing.T) {
	if c, ok := LookupCategory("  Milk "); !ok || c != "food" {
		t.Fatalf("LookupCategory(Milk) = %q/%v", c, ok)
	}
	if _, ok := LookupCategory("widget"); ok {
		t.Fatal("unknown item matched the lexicon")
	}
}

func TestParseIntent(t *testing.T) {
	if i, ok := ParseIntent("expense"); !ok || i != IntentExpense {
		t.Fatalf("ParseIntent(expense) = %q/%v", i, ok)
	}
	if _, ok := ParseIntent("banter"); ok {
		t.Fatal("unknown intent accepted")
	}
}

func TestParseConversationStatus(t *testing.T) {
	for _, s := range []string{"continue", "complete", "error"} {
		if _, ok := ParseConversationStatus(s); !ok {
			t.Errorf("ParseConversationStatus(%q) rejected", s)
		}
	}
	if _, ok := ParseConversationStatus("maybe"); ok {
		t.Fatal("unknown status accepted")
	}
}
