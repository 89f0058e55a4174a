package model

import "math"

// DefaultPaymentMethod is used whenever the user never mentions how they paid.
const DefaultPaymentMethod = "cash"

// LineItem is a single purchase line on an invoice draft. Name is nil while
// the item is awaiting disambiguation (an amount was given without a name).
// Amount is the per-unit cost, stored non-negative.
type LineItem struct {
	Name   *string  `json:"item_name"`
	Amount *float64 `json:"item_amount"`
	Qty    *int     `json:"item_qty"`
}

// Complete reports whether the item needs no further input.
func (li LineItem) Complete() bool {
	return li.Name != nil && *li.Name != "" &&
		li.Amount != nil && *li.Amount > 0 &&
		li.Qty != nil && *li.Qty > 0
}

// InvoiceDraft is the in-progress expense record accumulated across turns.
// Items are append-only within a turn: merges never silently drop them.
//
// CategoryExplicit is the disambiguation tag for the mixed-category
// sentinel: once the user names a category verbatim the flag locks it
// against inference, so a user-chosen category that happens to equal
// CategoryMixed is never confused with the inferred sentinel.
type InvoiceDraft struct {
	Category         string     `json:"expense_category,omitempty"`
	CategoryExplicit bool       `json:"category_explicit,omitempty"`
	Items            []LineItem `json:"items"`
	PaymentMethod    string     `json:"payment_type"`
}

// NewInvoiceDraft returns an empty draft with defaults applied.
func NewInvoiceDraft() InvoiceDraft {
	return InvoiceDraft{PaymentMethod: DefaultPaymentMethod}
}

// Clone deep-copies the draft so merges never alias a caller's items.
func (d InvoiceDraft) Clone() InvoiceDraft {
	out := d
	out.Items = make([]LineItem, len(d.Items))
	for i, it := range d.Items {
		out.Items[i] = it.clone()
	}
	return out
}

func (li LineItem) clone() LineItem {
	out := LineItem{}
	if li.Name != nil {
		n := *li.Name
		out.Name = &n
	}
	if li.Amount != nil {
		a := *li.Amount
		out.Amount = &a
	}
	if li.Qty != nil {
		q := *li.Qty
		out.Qty = &q
	}
	return out
}

// Complete is the deterministic completeness predicate: category set, at
// least one item, every item individually complete, payment method set.
func (d InvoiceDraft) Complete() bool {
	if d.Category == "" || len(d.Items) == 0 || d.PaymentMethod == "" {
		return false
	}
	for _, it := range d.Items {
		if !it.Complete() {
			return false
		}
	}
	return true
}

// NormalizeSigns stores amounts and quantities as absolute values. Negative
// values coming back from extraction are a sign error, not a refund.
func (d *InvoiceDraft) NormalizeSigns() {
	for i := range d.Items {
		if a := d.Items[i].Amount; a != nil && *a < 0 {
			v := math.Abs(*a)
			d.Items[i].Amount = &v
		}
		if q := d.Items[i].Qty; q != nil && *q < 0 {
			v := -*q
			d.Items[i].Qty = &v
		}
	}
}

// UnnamedAmounts lists amounts of items still awaiting a name, in draft
// order. The follow-up question covers at most three of them at a time.
func (d InvoiceDraft) UnnamedAmounts() []float64 {
	var out []float64
	for _, it := range d.Items {
		if (it.Name == nil || *it.Name == "") && it.Amount != nil && *it.Amount > 0 {
			out = append(out, *it.Amount)
		}
	}
	return out
}
