package llm

import (
	"context"

	"github.com/nmezrioui/facturex/internal/entity"
	"github.com/nmezrioui/facturex/internal/extract"
)

// Completer is the opaque remote-completion capability. Transport failures
// (network, auth, timeout) surface as errors; the pipeline treats them as
// "AI unusable this run" and falls back.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ExtractRequest carries one document's text plus the caller's own company
// profile, so the prompt can steer the model toward the counterparty.
type ExtractRequest struct {
	Text            string
	Excluded        entity.CompanyProfile
	DefaultCurrency string
}

// FieldExtractor is the interface the pipeline depends on for the primary
// extraction attempt. The raw JSON reply is returned alongside the fields
// for diagnostics.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (extract.Fields, []byte, error)
}
