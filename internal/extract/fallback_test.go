package extract

import "testing"

const sampleInvoice = `SARL FOURNITOUT
ICE: 001536677000012
IF: 40482779
CNSS: 9321456

Facture FC-24-0001A-123-01-15
Date: 15-01-24

Facturer à:
Teknologiate SARL
12 Rue des Orangers, Casablanca

Désignation                         Qté   PU      Total
Stylo bleu                          10    2,50    25,00
Ramette papier A4                   5     45,00   225,00
RIB 007 640 0001234567              1     1,00    1,00

MONTANT HT: 250,00
TVA 20%: 50,00
MONTANT TTC
300,00 MAD
`

func newTestFallback() *FallbackExtractor {
	return NewFallbackExtractor(FallbackConfig{
		DefaultSupplierName: "Teknologiate",
		DefaultCurrency:     "MAD",
	}, nil)
}

func TestFallbackExtractHeader(t *testing.T) {
	f := newTestFallback().Extract(sampleInvoice)

	if f.InvoiceNumber != "FC-24-0001A-123-01-15" {
		t.Errorf("InvoiceNumber = %q", f.InvoiceNumber)
	}
	if f.InvoiceDate != "2024-01-15" {
		t.Errorf("InvoiceDate = %q, want 2024-01-15", f.InvoiceDate)
	}
	if f.SupplierName != "Teknologiate SARL" {
		t.Errorf("SupplierName = %q", f.SupplierName)
	}
	if f.ICE != "001536677000012" {
		t.Errorf("ICE = %q", f.ICE)
	}
	if f.CNSS != "9321456" {
		t.Errorf("CNSS = %q", f.CNSS)
	}
	if f.TaxID != "40482779" {
		t.Errorf("TaxID = %q", f.TaxID)
	}
	if f.TotalHT == nil || *f.TotalHT != 250 {
		t.Errorf("TotalHT = %v, want 250", f.TotalHT)
	}
	if f.VATAmount == nil || *f.VATAmount != 50 {
		t.Errorf("VATAmount = %v, want 50", f.VATAmount)
	}
	if f.TotalTTC == nil || *f.TotalTTC != 300 {
		t.Errorf("TotalTTC = %v, want 300", f.TotalTTC)
	}
	if f.Currency != "MAD" {
		t.Errorf("Currency = %q", f.Currency)
	}
}

func TestFallbackLineItemScan(t *testing.T) {
	f := newTestFallback().Extract(sampleInvoice)

	// Two product rows survive; the RIB row is dropped by the sanitizer.
	if len(f.LineItems) != 2 {
		t.Fatalf("LineItems = %d, want 2: %+v", len(f.LineItems), f.LineItems)
	}
	first := f.LineItems[0]
	if first.Designation != "Stylo bleu" || first.Quantity != 10 || first.UnitPrice != 2.5 || first.TotalPrice != 25 {
		t.Errorf("first item = %+v", first)
	}
	if f.LineItems[1].Designation != "Ramette papier A4" {
		t.Errorf("second item = %+v", f.LineItems[1])
	}
}

func TestFallbackScanStopsAtTotals(t *testing.T) {
	text := `Produit    Qté   PU    Total
Chaise de bureau    2    800,00    1600,00
TOTAL
Ligne fantôme       9    9,00      81,00
`
	f := newTestFallback().Extract(text)
	if len(f.LineItems) != 1 {
		t.Fatalf("LineItems = %d, want 1 (scan must stop at TOTAL): %+v", len(f.LineItems), f.LineItems)
	}
}

func TestFallbackScanNeedsHeader(t *testing.T) {
	text := `Stylo bleu    10    2,50    25,00
`
	f := newTestFallback().Extract(text)
	if len(f.LineItems) != 0 {
		t.Fatalf("rows before a table header must not be captured: %+v", f.LineItems)
	}
}

func TestFallbackDefaults(t *testing.T) {
	f := newTestFallback().Extract("nothing useful here")
	if f.SupplierName != "Teknologiate" {
		t.Errorf("SupplierName default = %q", f.SupplierName)
	}
	if f.Currency != "MAD" {
		t.Errorf("Currency default = %q", f.Currency)
	}
	if f.InvoiceNumber != "" || f.InvoiceDate != "" {
		t.Errorf("expected empty number/date, got %q %q", f.InvoiceNumber, f.InvoiceDate)
	}
}

func TestFallbackDegradedDateToken(t *testing.T) {
	// 45-45-45 matches the short-date shape but does not parse; the raw
	// token is kept rather than dropped.
	f := newTestFallback().Extract("Date: 45-45-45")
	if f.InvoiceDate != "45-45-45" {
		t.Errorf("InvoiceDate = %q, want raw token 45-45-45", f.InvoiceDate)
	}
}
