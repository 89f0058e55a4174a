package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Token tables and phrase lists carried over from the extraction rules.
// Currency markers and units of measure are never accepted as item names.
var currencyTokens = map[string]struct{}{
	"rupee": {}, "rupees": {}, "rs": {}, "rs.": {}, "inr": {}, "₹": {}, "/-": {},
}

var unitTokens = map[string]struct{}{
	"kg": {}, "kgs": {}, "kilogram": {}, "kilograms": {},
	"g": {}, "gram": {}, "grams": {},
	"l": {}, "liter": {}, "liters": {}, "litre": {}, "litres": {}, "ml": {},
	"piece": {}, "pieces": {}, "pc": {}, "pcs": {},
	"packet": {}, "packets": {}, "dozen": {}, "item": {}, "items": {},
}

// Pure acknowledgements carry no new item details; pure terminations close
// the draft. Either way the merge is an identity on the prior draft.
var ackPhrases = map[string]struct{}{
	"yes": {}, "yeah": {}, "yep": {}, "yup": {}, "ok": {}, "okay": {},
	"sure": {}, "alright": {},
}

var terminationPhrases = map[string]struct{}{
	"no": {}, "nope": {}, "nah": {}, "no thanks": {}, "not interested": {},
	"done": {}, "finished": {}, "finalize": {}, "finalise": {}, "save": {},
	"make expense": {}, "thats all": {}, "that's all": {},
}

var (
	reEachAmount = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:rs\.?|rupees?)?\s*each\b`)
	reGroupQty   = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:kgs?|kilograms?|g|grams?|l|liters?|litres?|ml|pieces?|pcs?|pc|packets?|dozen|items?)\s*(?:for\s+)?(?:both|all)\b`)
	reTotal      = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:rs\.?|rupees?)?\s*(?:in\s+)?(?:grand\s+)?total\b`)
	rePerUnit    = regexp.MustCompile(`(?i)(?:\bper\s+[a-z]+\b|\d\s*/\s*(?:kg|g|l|litre|liter|ml|piece|pc|packet|dozen))`)
	reRemove     = regexp.MustCompile(`(?i)\b(?:remove|delete|cancel)\s+(?:the\s+)?([a-z]+)`)

	reCategoryNamed = regexp.MustCompile(`(?i)\bcategory\s+(?:is|called)\s+([a-z][a-z ]*[a-z])`)
	reCategoryUnder = regexp.MustCompile(`(?i)\bunder\s+([a-z][a-z ]*?[a-z])(?:\s+category\b|\s*[.,;]|\s*$)`)
	reCategoryTo    = regexp.MustCompile(`(?i)\b(?:to|in)\s+(?:the\s+|that\s+)?([a-z][a-z ]*?)\s+category\b`)
)

// turnCues are the deterministic signals parsed out of one utterance; the
// merge engine applies them on top of whatever the extraction proposed.
type turnCues struct {
	noop             bool
	explicitCategory string
	removals         []string
	eachAmount       *float64
	groupQty         *int
	totalAmount      *float64
	perUnit          bool
}

func parseTurnCues(utterance string) turnCues {
	var c turnCues
	norm := normalizeUtterance(utterance)
	if norm == "" {
		c.noop = true
		return c
	}
	if _, ok := ackPhrases[norm]; ok {
		c.noop = true
		return c
	}
	if _, ok := terminationPhrases[norm]; ok {
		c.noop = true
		return c
	}

	if m := reCategoryNamed.FindStringSubmatch(utterance); m != nil {
		c.explicitCategory = strings.TrimSpace(m[1])
	} else if m := reCategoryTo.FindStringSubmatch(utterance); m != nil {
		c.explicitCategory = strings.TrimSpace(m[1])
	} else if m := reCategoryUnder.FindStringSubmatch(utterance); m != nil {
		c.explicitCategory = strings.TrimSpace(m[1])
	}

	for _, m := range reRemove.FindAllStringSubmatch(utterance, -1) {
		c.removals = append(c.removals, strings.ToLower(m[1]))
	}

	if m := reEachAmount.FindStringSubmatch(utterance); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			c.eachAmount = &v
		}
	}
	if m := reGroupQty.FindStringSubmatch(utterance); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			q := int(v)
			c.groupQty = &q
		}
	}
	if m := reTotal.FindStringSubmatch(utterance); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			c.totalAmount = &v
		}
	}
	c.perUnit = rePerUnit.MatchString(utterance)
	return c
}

// normalizeUtterance lowercases, strips punctuation and collapses runs of
// whitespace so phrase-list matching is stable against transcription noise.
func normalizeUtterance(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '\'':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// blockedItemName reports whether a proposed item name is a currency marker
// or a unit of measure, which must never become an item name.
func blockedItemName(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if _, ok := currencyTokens[n]; ok {
		return true
	}
	_, ok := unitTokens[n]
	return ok
}

// sameItemName compares item names tolerating a trailing plural "s", so
// "remove apple" also matches "apples".
func sameItemName(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return a == b || a+"s" == b || a == b+"s"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
