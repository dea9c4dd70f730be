package extract

import (
	"log/slog"
	"regexp"
	"strings"
)

// Field-specific patterns over French/English invoice vocabulary.
var (
	reInvoiceCode  = regexp.MustCompile(`\bFC-\d{2}-\d{4}[A-Z]*-\d{3}-\d{2}-\d{2}\b`)
	reInvoiceLabel = regexp.MustCompile(`(?i)\b(?:facture|invoice)\b[^A-Za-z0-9\n]{0,12}(?:n[°o]\s*)?([A-Z]*\d[\dA-Z/-]{2,})`)
	reShortDate    = regexp.MustCompile(`\b\d{2}-\d{2}-\d{2}\b`)
	reBilledTo     = regexp.MustCompile(`(?is)facturer\s+à\s*:?[^\n]*\n\s*([A-Za-zÀ-ÿ][^\n]*)`)
	reICE          = regexp.MustCompile(`(?i)\bICE[:\s]+(\d+)`)
	reCNSS         = regexp.MustCompile(`(?i)\bCNSS[:\s]+(\d+)`)
	reTaxID        = regexp.MustCompile(`(?i)\bIF[:\s]+(\d+)`)
	reTotalHT      = regexp.MustCompile(`(?i)MONTANT HT[:\s]+([\d.,]+)`)
	reVAT          = regexp.MustCompile(`(?i)(?:VAT|TVA)[\s:]*[\d.%]*[\s:]*([\d.,]+)`)
	reTotalTTC     = regexp.MustCompile(`(?is)MONTANT TTC.*?([\d.,]+)`)
	reCurrency     = regexp.MustCompile(`\b(MAD|EUR|USD)\b`)

	reTableHeader = regexp.MustCompile(`(?i)d[ée]signation|produit|article`)
	reTableStop   = regexp.MustCompile(`(?i)total ttc|montant ttc|total`)
	reItemRow     = regexp.MustCompile(`^(.+?)\s{2,}(\d+)\s+([\d.,]+)\s+([\d.,]+)\s*$`)
)

// FallbackConfig parameterizes the deterministic extractor. The supplier
// and currency defaults are deployment policy, not extraction logic, so
// they are injected rather than hardcoded.
type FallbackConfig struct {
	DefaultSupplierName string
	DefaultCurrency     string
	DateLayouts         []string
}

// FallbackExtractor is the deterministic, regex-based extractor used when
// the AI result is incomplete or unavailable. Pure over the input text.
type FallbackExtractor struct {
	cfg    FallbackConfig
	logger *slog.Logger
}

func NewFallbackExtractor(cfg FallbackConfig, logger *slog.Logger) *FallbackExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "MAD"
	}
	if len(cfg.DateLayouts) == 0 {
		cfg.DateLayouts = DefaultDateLayouts
	}
	return &FallbackExtractor{cfg: cfg, logger: logger}
}

// Extract produces a best-effort field set from raw document text.
func (e *FallbackExtractor) Extract(text string) Fields {
	f := Fields{
		InvoiceNumber:   e.invoiceNumber(text),
		InvoiceDate:     e.invoiceDate(text),
		SupplierName:    e.supplierName(text),
		SupplierAddress: "",
		ICE:             firstGroup(reICE, text),
		CNSS:            firstGroup(reCNSS, text),
		TaxID:           firstGroup(reTaxID, text),
		TotalHT:         e.amount(reTotalHT, text),
		VATAmount:       e.amount(reVAT, text),
		TotalTTC:        e.amount(reTotalTTC, text),
		Currency:        e.currency(text),
		LineItems:       e.lineItems(text),
	}
	e.logger.Debug("fallback.extract",
		"number", f.InvoiceNumber,
		"date", f.InvoiceDate,
		"supplier", f.SupplierName,
		"items", len(f.LineItems),
	)
	return f
}

func (e *FallbackExtractor) invoiceNumber(text string) string {
	if m := reInvoiceCode.FindString(text); m != "" {
		return m
	}
	return firstGroup(reInvoiceLabel, text)
}

// invoiceDate returns the ISO rendering of the first DD-MM-YY token, or the
// raw token itself when it does not parse: degraded but present beats null.
func (e *FallbackExtractor) invoiceDate(text string) string {
	tok := reShortDate.FindString(text)
	if tok == "" {
		return ""
	}
	if iso, ok := ParseDate(tok, []string{"02-01-06"}); ok {
		return iso
	}
	return tok
}

func (e *FallbackExtractor) supplierName(text string) string {
	if name := firstGroup(reBilledTo, text); name != "" {
		return name
	}
	return e.cfg.DefaultSupplierName
}

func (e *FallbackExtractor) amount(re *regexp.Regexp, text string) *float64 {
	if s := firstGroup(re, text); s != "" {
		if v, ok := ParseAmount(s); ok {
			return &v
		}
	}
	return nil
}

func (e *FallbackExtractor) currency(text string) string {
	if m := reCurrency.FindString(text); m != "" {
		return m
	}
	return e.cfg.DefaultCurrency
}

// lineItems is a line-oriented scan: a table-header keyword arms the
// capture, rows shaped `<text>  <int> <float> <float>` are collected, and a
// totals keyword line disarms it. The stop check runs after the row attempt
// so a row sharing its line with a totals word is still captured.
func (e *FallbackExtractor) lineItems(text string) []LineItem {
	var items []LineItem
	capturing := false

	for _, line := range strings.Split(text, "\n") {
		if !capturing {
			if reTableHeader.MatchString(line) {
				capturing = true
			}
			continue
		}

		if m := reItemRow.FindStringSubmatch(line); m != nil {
			qty, qok := ParseAmount(m[2])
			unit, uok := ParseAmount(m[3])
			total, tok := ParseAmount(m[4])
			if qok && uok && tok {
				items = append(items, LineItem{
					Designation: strings.TrimSpace(m[1]),
					Quantity:    qty,
					UnitPrice:   unit,
					TotalPrice:  total,
				})
			}
		}

		if reTableStop.MatchString(line) {
			break
		}
	}
	return SanitizeItems(items)
}

func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
