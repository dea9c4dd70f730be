package extract

import "strings"

// Fields is the canonical output shape shared by both extractors. Every
// header field is always representable: the empty string (or a nil amount)
// means "unknown", so downstream code never needs presence checks.
type Fields struct {
	InvoiceNumber   string   `json:"invoice_number"`
	InvoiceDate     string   `json:"invoice_date"` // YYYY-MM-DD once reconciled
	SupplierName    string   `json:"client_name"`
	SupplierAddress string   `json:"client_address"`
	ICE             string   `json:"client_ice"`
	CNSS            string   `json:"client_cnss"`
	TaxID           string   `json:"client_if"`
	TotalHT         *float64 `json:"total_ht"`
	VATAmount       *float64 `json:"vat_amount"`
	TotalTTC        *float64 `json:"total_ttc"`
	Currency        string   `json:"currency"`

	LineItems []LineItem `json:"line_items"`
}

// LineItem is a candidate product row. Validity rules live in the sanitizer.
type LineItem struct {
	Designation string  `json:"designation"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// Complete reports whether every header field carries a usable value.
// A value is missing when it is nil, empty, or the literal string "null"
// (models emit that more often than one would hope).
func (f *Fields) Complete() bool {
	for _, s := range []string{
		f.InvoiceNumber, f.InvoiceDate,
		f.SupplierName, f.SupplierAddress,
		f.ICE, f.CNSS, f.TaxID,
		f.Currency,
	} {
		if missing(s) {
			return false
		}
	}
	return f.TotalHT != nil && f.VATAmount != nil && f.TotalTTC != nil
}

func missing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "null")
}

// FieldsFromMap coerces a decoded AI reply object into Fields. Amounts may
// arrive as JSON numbers or locale-formatted strings; both go through
// ParseAmount. Line items stay untouched here, the sanitizer owns them.
func FieldsFromMap(m map[string]any) Fields {
	f := Fields{
		InvoiceNumber:   stringAt(m, "invoice_number"),
		InvoiceDate:     stringAt(m, "invoice_date"),
		SupplierName:    stringAt(m, "client_name"),
		SupplierAddress: stringAt(m, "client_address"),
		ICE:             stringAt(m, "client_ice"),
		CNSS:            stringAt(m, "client_cnss"),
		TaxID:           stringAt(m, "client_if"),
		Currency:        stringAt(m, "currency"),
		TotalHT:         amountAt(m, "total_ht"),
		VATAmount:       amountAt(m, "vat_amount"),
		TotalTTC:        amountAt(m, "total_ttc"),
	}
	if raw, ok := m["line_items"].([]any); ok {
		f.LineItems = SanitizeCandidates(raw)
	}
	return f
}

func stringAt(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// tax identifiers sometimes come back as bare numbers
		return trimFloat(v)
	default:
		return ""
	}
}

func amountAt(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case string:
		if n, ok := ParseAmount(v); ok {
			return &n
		}
	}
	return nil
}
