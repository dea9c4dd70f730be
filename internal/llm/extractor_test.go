package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nmezrioui/facturex/internal/common"
	"github.com/nmezrioui/facturex/internal/entity"
)

type fakeCompleter struct {
	reply string
	err   error
	// captured prompts
	system string
	user   string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.reply, f.err
}

const noisyReply = "Sure! Here is the extracted data:\n```json\n" +
	`{"invoice_number": "FC-24-0001", "invoice_date": "2024-01-15",
	  "client_name": "Acme Maroc", "client_address": "Tanger",
	  "client_ice": "0015", "client_cnss": "93", "client_if": "40",
	  "total_ht": 250.0, "vat_amount": "50,00", "total_ttc": 300,
	  "currency": "MAD",
	  "line_items": [{"designation": "Stylo", "quantity": 10, "unit_price": 2.5, "total_price": 25}]}` +
	"\n```\nLet me know if you need anything else."

func TestExtractFieldsParsesNoisyReply(t *testing.T) {
	fc := &fakeCompleter{reply: noisyReply}
	e := NewExtractor(fc, nil)

	fields, raw, err := e.ExtractFields(context.Background(), ExtractRequest{Text: "doc"})
	if err != nil {
		t.Fatalf("ExtractFields: %v", err)
	}
	if fields.InvoiceNumber != "FC-24-0001" || fields.InvoiceDate != "2024-01-15" {
		t.Errorf("header fields = %+v", fields)
	}
	if fields.VATAmount == nil || *fields.VATAmount != 50 {
		t.Errorf("string amount not coerced: %v", fields.VATAmount)
	}
	if fields.TotalHT == nil || *fields.TotalHT != 250 {
		t.Errorf("TotalHT = %v", fields.TotalHT)
	}
	if len(fields.LineItems) != 1 || fields.LineItems[0].Designation != "Stylo" {
		t.Errorf("LineItems = %+v", fields.LineItems)
	}
	if len(raw) == 0 || raw[0] != '{' {
		t.Errorf("raw reply not the extracted object: %q", raw)
	}
}

func TestExtractFieldsCompleterFailure(t *testing.T) {
	e := NewExtractor(&fakeCompleter{err: errors.New("connection refused")}, nil)
	_, _, err := e.ExtractFields(context.Background(), ExtractRequest{Text: "doc"})
	if !errors.Is(err, common.ErrAIUnavailable) {
		t.Errorf("error = %v, want ErrAIUnavailable", err)
	}
}

func TestExtractFieldsNoJSONObject(t *testing.T) {
	e := NewExtractor(&fakeCompleter{reply: "I could not find any invoice data."}, nil)
	_, raw, err := e.ExtractFields(context.Background(), ExtractRequest{Text: "doc"})
	if !errors.Is(err, common.ErrMalformedReply) {
		t.Errorf("error = %v, want ErrMalformedReply", err)
	}
	if len(raw) == 0 {
		t.Errorf("raw reply must be attached for diagnosis")
	}
}

func TestExtractFieldsSchemaRejectsWrongShape(t *testing.T) {
	e := NewExtractor(&fakeCompleter{reply: `{"line_items": "not an array"}`}, nil)
	_, _, err := e.ExtractFields(context.Background(), ExtractRequest{Text: "doc"})
	if !errors.Is(err, common.ErrMalformedReply) {
		t.Errorf("error = %v, want ErrMalformedReply", err)
	}
}

func TestPromptCarriesExcludedIdentity(t *testing.T) {
	fc := &fakeCompleter{reply: noisyReply}
	e := NewExtractor(fc, nil)

	req := ExtractRequest{
		Text: "doc",
		Excluded: entity.CompanyProfile{
			Name: "Teknologiate", ICE: "0012345", TaxID: "987",
		},
	}
	if _, _, err := e.ExtractFields(context.Background(), req); err != nil {
		t.Fatalf("ExtractFields: %v", err)
	}
	if !strings.Contains(fc.system, "Teknologiate") || !strings.Contains(fc.system, "NOT the client") {
		t.Errorf("system prompt missing exclusion instruction: %q", fc.system)
	}
	if !strings.Contains(fc.system, "client_cnss") {
		t.Errorf("system prompt missing field list: %q", fc.system)
	}
	if !strings.Contains(fc.user, "doc") {
		t.Errorf("user prompt missing document text")
	}
}
