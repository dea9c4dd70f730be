package extract

import (
	"errors"
	"testing"

	"github.com/nmezrioui/facturex/internal/common"
)

func newTestReconciler() *Reconciler {
	return NewReconciler(newTestFallback(), nil, nil)
}

func f64(v float64) *float64 { return &v }

func completeAIFields() Fields {
	return Fields{
		InvoiceNumber:   "INV-2024-042",
		InvoiceDate:     "2024-03-05",
		SupplierName:    "Acme Maroc",
		SupplierAddress: "Zone Industrielle, Tanger",
		ICE:             "002233445566778",
		CNSS:            "1122334",
		TaxID:           "5566778",
		TotalHT:         f64(1000),
		VATAmount:       f64(200),
		TotalTTC:        f64(1200),
		Currency:        "MAD",
	}
}

func TestReconcileKeepsCompletePrimary(t *testing.T) {
	ai := completeAIFields()
	got, err := newTestReconciler().Reconcile(sampleInvoice, &ai)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got.SupplierName != "Acme Maroc" {
		t.Errorf("SupplierName = %q, want the AI value", got.SupplierName)
	}
	if got.InvoiceNumber != "INV-2024-042" {
		t.Errorf("InvoiceNumber = %q", got.InvoiceNumber)
	}
}

func TestReconcileWholeResultFallback(t *testing.T) {
	// total_ttc missing: the whole AI result is discarded, including fields
	// that were individually correct.
	ai := completeAIFields()
	ai.TotalTTC = nil

	got, err := newTestReconciler().Reconcile(sampleInvoice, &ai)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got.SupplierName == "Acme Maroc" {
		t.Errorf("AI client name leaked into a fallback result")
	}
	if got.SupplierName != "Teknologiate SARL" {
		t.Errorf("SupplierName = %q, want the fallback value", got.SupplierName)
	}
	if got.InvoiceNumber != "FC-24-0001A-123-01-15" {
		t.Errorf("InvoiceNumber = %q, want the fallback value", got.InvoiceNumber)
	}
}

func TestReconcileLiteralNullCountsAsMissing(t *testing.T) {
	ai := completeAIFields()
	ai.CNSS = "null"
	got, err := newTestReconciler().Reconcile(sampleInvoice, &ai)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got.SupplierName == "Acme Maroc" {
		t.Errorf(`"null" string did not trigger the fallback`)
	}
}

func TestReconcileNilPrimaryUsesFallback(t *testing.T) {
	got, err := newTestReconciler().Reconcile(sampleInvoice, nil)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got.SupplierName != "Teknologiate SARL" {
		t.Errorf("SupplierName = %q", got.SupplierName)
	}
}

func TestReconcileRepairsNumberAndDate(t *testing.T) {
	text := `Invoice 2024-113
Émise le 05/03/2024
Merci de votre confiance
`
	ai := completeAIFields()
	ai.InvoiceNumber = ""
	ai.InvoiceDate = ""
	// incomplete -> fallback base; the DD/MM/YYYY date is invisible to the
	// fallback's short-date pattern, so the date repair pass must fill it.
	got, err := newTestReconciler().Reconcile(text, &ai)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got.InvoiceNumber != "2024-113" {
		t.Errorf("repaired InvoiceNumber = %q, want 2024-113", got.InvoiceNumber)
	}
	if got.InvoiceDate != "2024-03-05" {
		t.Errorf("repaired InvoiceDate = %q, want 2024-03-05", got.InvoiceDate)
	}
}

func TestReconcileMissingDateFails(t *testing.T) {
	_, err := newTestReconciler().Reconcile("rien d'utile ici", nil)
	if err == nil {
		t.Fatalf("expected a validation error for a dateless document")
	}
	if !errors.Is(err, common.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestReconcileUnparseableDateTokenFails(t *testing.T) {
	// The fallback keeps the degraded raw token; reconciliation must refuse
	// to persist it rather than fabricate a date.
	_, err := newTestReconciler().Reconcile("Date: 45-45-45", nil)
	if !errors.Is(err, common.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestReconcileSanitizesAILineItems(t *testing.T) {
	ai := completeAIFields()
	ai.LineItems = []LineItem{
		{Designation: "Widget", Quantity: 3, UnitPrice: 10, TotalPrice: 30},
		{Designation: "IBAN MA64", Quantity: 1, UnitPrice: 1, TotalPrice: 1},
	}
	got, err := newTestReconciler().Reconcile(sampleInvoice, &ai)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(got.LineItems) != 1 || got.LineItems[0].Designation != "Widget" {
		t.Errorf("LineItems = %+v, want only Widget", got.LineItems)
	}
}
