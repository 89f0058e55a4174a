package model

import "strings"

// CategoryMixed is the sentinel assigned when inferred item categories
// disagree and the user never named one. The persisted value matches what
// clients already display; InvoiceDraft.CategoryExplicit, not this string,
// is what distinguishes the sentinel from a user-chosen category.
const CategoryMixed = "daily expense"

// SupportedCategories is surfaced to the redirect prompt so the assistant
// can tell users what it tracks.
var SupportedCategories = []string{
	"food", "petrol", "salary", "utilities", "medical", "transport", "shopping",
}

// categoryLexicon maps item names to a category when the user did not name
// one. Inference is only consulted for items with an entry here.
var categoryLexicon = map[string]string{
	// food
	"milk": "food", "apple": "food", "apples": "food", "banana": "food",
	"bananas": "food", "rice": "food", "wheat": "food", "bread": "food",
	"egg": "food", "eggs": "food", "meat": "food", "chicken": "food",
	"tea": "food", "chai": "food", "coffee": "food", "sugar": "food",
	"oil": "food", "biryani": "food", "vegetables": "food", "veggies": "food",
	"veg": "food", "fruit": "food", "fruits": "food", "snack": "food",
	"snacks": "food", "water": "food",
	// petrol
	"petrol": "petrol", "diesel": "petrol", "gas": "petrol",
	// utilities
	"electricity": "utilities", "internet": "utilities", "phone": "utilities",
	// medical
	"doctor": "medical", "medicine": "medical", "hospital": "medical",
	// transport
	"taxi": "transport", "bus": "transport", "auto": "transport",
	// shopping
	"clothes": "shopping", "groceries": "shopping", "stationery": "shopping",
}

// LookupCategory returns the lexicon category for an item name, if any.
func LookupCategory(itemName string) (string, bool) {
	c, ok := categoryLexicon[strings.ToLower(strings.TrimSpace(itemName))]
	return c, ok
}

// InferCategory aggregates lexicon categories across all named items:
// no matches leaves the category unset, exactly one distinct match names
// it, two or more collapse to the mixed sentinel. Re-evaluated on every
// merge so edits can flip the result in either direction.
func InferCategory(items []LineItem) string {
	distinct := map[string]struct{}{}
	for _, it := range items {
		if it.Name == nil {
			continue
		}
		if c, ok := LookupCategory(*it.Name); ok {
			distinct[c] = struct{}{}
		}
	}
	switch len(distinct) {
	case 0:
		return ""
	case 1:
		for c := range distinct {
			return c
		}
	}
	return CategoryMixed
}
