package llm

import "strings"

// BuildSystemPrompt composes the system message. When the caller's own
// identity is known, the model is told explicitly not to return it as the
// counterparty; scanned invoices usually show both parties.
func BuildSystemPrompt(req ExtractRequest) string {
	cur := strings.TrimSpace(req.DefaultCurrency)
	if cur == "" {
		cur = "MAD"
	}

	parts := []string{
		"You are an invoice parser. Extract the invoice fields from the given invoice text and return ONLY a JSON object.",
		"The JSON object must contain exactly these keys: invoice_number, invoice_date, client_name, client_address, client_ice, client_cnss, client_if, total_ht, vat_amount, total_ttc, currency, line_items.",
		"Use ISO-8601 dates (YYYY-MM-DD).",
		"Amounts are plain numbers with a dot decimal separator.",
		"currency is a 3-letter code; default to " + cur + " if uncertain.",
		"line_items is an array of objects with keys designation, quantity, unit_price, total_price.",
		"If a value is not present in the document, use null.",
	}

	if name := strings.TrimSpace(req.Excluded.Name); name != "" {
		var ids []string
		if req.Excluded.ICE != "" {
			ids = append(ids, "ICE "+req.Excluded.ICE)
		}
		if req.Excluded.TaxID != "" {
			ids = append(ids, "IF "+req.Excluded.TaxID)
		}
		if req.Excluded.CNSS != "" {
			ids = append(ids, "CNSS "+req.Excluded.CNSS)
		}
		line := "The document was received by " + name
		if len(ids) > 0 {
			line += " (" + strings.Join(ids, ", ") + ")"
		}
		line += ". That company is NOT the client to extract; return the other party on the invoice."
		parts = append(parts, line)
	}

	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the document text. Very large OCR dumps are
// truncated; header fields and the item table sit in the first pages.
func BuildUserPrompt(req ExtractRequest) string {
	const maxChars = 12_000

	var b strings.Builder
	b.WriteString("Here is the invoice text:\n\n")
	text := req.Text
	if len(text) > maxChars {
		b.WriteString(text[:maxChars])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}
