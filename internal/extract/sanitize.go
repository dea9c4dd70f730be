package extract

import "regexp"

// Sanity ceilings for line items. OCR noise and AI hallucinations produce
// rows like "RIB 007 640 0001234567890123 22" that would otherwise persist
// as absurd quantities or prices.
const (
	maxQuantity   = 100_000
	maxUnitPrice  = 1_000_000
	maxTotalPrice = 1_000_000_000
)

// reBankingNoise matches designations that are really payment instructions
// or bank footer lines, not products.
var reBankingNoise = regexp.MustCompile(`(?i)\b(rib|iban|swift|bic|compte|account|agence|attijariwafa|banque populaire|bmce|bank al[- ]maghrib|cih|soci[ée]t[ée] g[ée]n[ée]rale|cr[ée]dit agricole|bank)\b`)

// SanitizeItems filters a typed candidate list, preserving order. Invalid
// rows are dropped, never corrected.
func SanitizeItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if itemValid(it) {
			out = append(out, it)
		}
	}
	return out
}

// SanitizeCandidates coerces untyped candidates (as decoded from an AI
// reply) and applies the same rules as SanitizeItems.
func SanitizeCandidates(raw []any) []LineItem {
	out := make([]LineItem, 0, len(raw))
	for _, c := range raw {
		m, ok := c.(map[string]any)
		if !ok {
			continue
		}
		it := LineItem{
			Designation: stringAt(m, "designation"),
			Quantity:    numberAt(m, "quantity"),
			UnitPrice:   numberAt(m, "unit_price"),
			TotalPrice:  numberAt(m, "total_price"),
		}
		if itemValid(it) {
			out = append(out, it)
		}
	}
	return out
}

func itemValid(it LineItem) bool {
	if missing(it.Designation) || reBankingNoise.MatchString(it.Designation) {
		return false
	}
	if it.Quantity <= 0 || it.Quantity > maxQuantity {
		return false
	}
	if it.UnitPrice <= 0 || it.UnitPrice > maxUnitPrice {
		return false
	}
	if it.TotalPrice <= 0 || it.TotalPrice > maxTotalPrice {
		return false
	}
	return true
}

func numberAt(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		if n, ok := ParseAmount(v); ok {
			return n
		}
	}
	return 0
}
