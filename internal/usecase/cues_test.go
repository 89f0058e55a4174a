package usecase

import "testing"

func TestParseTurnCuesNoop(t *testing.T) {
	for _, u := range []string{"", "   ", "yes", "Okay.", "no thanks", "that's all", "Done"} {
		if !parseTurnCues(u).noop {
			t.Errorf("parseTurnCues(%q).noop = false, want true", u)
		}
	}
	for _, u := range []string{"yes, add milk", "no wait, petrol 500", "one coffee for 100"} {
		if parseTurnCues(u).noop {
			t.Errorf("parseTurnCues(%q).noop = true, want false", u)
		}
	}
}

func TestParseTurnCuesEachAmount(t *testing.T) {
	c := parseTurnCues("two shirts for 50 rupees each")
	if c.eachAmount == nil || *c.eachAmount != 50 {
		t.Fatalf("eachAmount = %v, want 50", c.eachAmount)
	}
	if c.totalAmount != nil {
		t.Fatalf("totalAmount = %v, want nil", *c.totalAmount)
	}
}

func TestParseTurnCuesTotal(t *testing.T) {
	c := parseTurnCues("3 apples for 5000 in total")
	if c.totalAmount == nil || *c.totalAmount != 5000 {
		t.Fatalf("totalAmount = %v, want 5000", c.totalAmount)
	}
}

func TestParseTurnCuesGroupQty(t *testing.T) {
	c := parseTurnCues("2 kg for both rice and wheat")
	if c.groupQty == nil || *c.groupQty != 2 {
		t.Fatalf("groupQty = %v, want 2", c.groupQty)
	}
}

func TestParseTurnCuesRemoval(t *testing.T) {
	c := parseTurnCues("please remove the petrol and delete milk")
	if len(c.removals) != 2 || c.removals[0] != "petrol" || c.removals[1] != "milk" {
		t.Fatalf("removals = %v, want [petrol milk]", c.removals)
	}
}

func TestParseTurnCuesExplicitCategory(t *testing.T) {
	cases := map[string]string{
		"the category is office supplies":     "office supplies",
		"create a category called household":  "household",
		"put this under office supplies":      "office supplies",
		"add it to the travel category":       "travel",
	}
	for utterance, want := range cases {
		c := parseTurnCues(utterance)
		if c.explicitCategory != want {
			t.Errorf("parseTurnCues(%q).explicitCategory = %q, want %q", utterance, c.explicitCategory, want)
		}
	}
	if c := parseTurnCues("one coffee for 100"); c.explicitCategory != "" {
		t.Errorf("explicitCategory = %q, want empty", c.explicitCategory)
	}
}

func TestParseTurnCuesPerUnit(t *testing.T) {
	if !parseTurnCues("rice at 80 per kg").perUnit {
		t.Error("perUnit = false for per-kg phrasing")
	}
	if parseTurnCues("3 apples for 5000 in total").perUnit {
		t.Error("perUnit = true for a grand total")
	}
}

func TestNormalizeUtterance(t *testing.T) {
	if got := normalizeUtterance("  That's   ALL! "); got != "that's all" {
		t.Fatalf("normalizeUtterance = %q", got)
	}
}

func TestBlockedItemName(t *testing.T) {
	for _, n := range []string{"rupees", "Rs", "kg", "packets"} {
		if !blockedItemName(n) {
			t.Errorf("blockedItemName(%q) = false, want true", n)
		}
	}
	if blockedItemName("coffee") {
		t.Error("blockedItemName(coffee) = true, want false")
	}
}
