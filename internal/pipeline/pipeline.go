package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nmezrioui/facturex/internal/common"
	"github.com/nmezrioui/facturex/internal/entity"
	"github.com/nmezrioui/facturex/internal/extract"
	"github.com/nmezrioui/facturex/internal/llm"
	"github.com/nmezrioui/facturex/internal/repository"
)

// Result is the outcome of one successful run: the persisted invoice id and
// the reconciled fields it was built from.
type Result struct {
	InvoiceID int64          `json:"invoice_id"`
	Fields    extract.Fields `json:"fields"`
}

// Config carries the run-level knobs the pipeline itself needs.
type Config struct {
	DefaultCurrency string
}

// Pipeline runs one document through extraction, reconciliation and
// persistence. A run either commits a complete invoice or writes nothing.
type Pipeline struct {
	extractor  llm.FieldExtractor
	reconciler *extract.Reconciler
	invoices   repository.InvoiceRepository
	cfg        Config
	logger     *slog.Logger
}

func New(extractor llm.FieldExtractor, reconciler *extract.Reconciler, invoices repository.InvoiceRepository, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "MAD"
	}
	return &Pipeline{
		extractor:  extractor,
		reconciler: reconciler,
		invoices:   invoices,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run extracts fields from text and persists the resulting invoice. The AI
// attempt is best-effort: unavailability or a malformed reply demotes the
// run to the deterministic fallback instead of failing it. Validation
// errors (common.ErrValidation) and database errors (common.ErrDatabase)
// abort the run with nothing written.
func (p *Pipeline) Run(ctx context.Context, text string, excluded entity.CompanyProfile) (*Result, error) {
	rid := uuid.New().String()
	start := time.Now()
	p.logger.Info("pipeline.run.start", "req_id", rid, "text_len", len(text))

	var (
		primary   *extract.Fields
		malformed []byte
	)
	fields, raw, err := p.extractor.ExtractFields(ctx, llm.ExtractRequest{
		Text:            text,
		Excluded:        excluded,
		DefaultCurrency: p.cfg.DefaultCurrency,
	})
	switch {
	case err == nil:
		primary = &fields
	case errors.Is(err, common.ErrAIUnavailable):
		p.logger.Warn("pipeline.primary.unavailable", "req_id", rid, "error", err)
	case errors.Is(err, common.ErrMalformedReply):
		p.logger.Warn("pipeline.primary.malformed",
			"req_id", rid, "error", err, "reply_bytes", len(raw))
		malformed = raw
	default:
		return nil, fmt.Errorf("primary extraction: %w", err)
	}

	final, err := p.reconciler.Reconcile(text, primary)
	if err != nil {
		p.logger.Warn("pipeline.run.rejected", "req_id", rid, "error", err)
		if len(malformed) > 0 {
			// Keep the unusable reply with the failure for diagnosis.
			return nil, fmt.Errorf("%w (ai reply: %s)", err, malformed)
		}
		return nil, err
	}

	inv := invoiceFromFields(final)
	id, err := p.invoices.CreateWithItems(ctx, inv)
	if err != nil {
		p.logger.Error("pipeline.persist.failed", "req_id", rid, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}

	p.logger.Info("pipeline.run.ok",
		"req_id", rid,
		"invoice_id", id,
		"fields", final.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{InvoiceID: id, Fields: final}, nil
}

func invoiceFromFields(f extract.Fields) *entity.Invoice {
	inv := &entity.Invoice{
		Number:    f.InvoiceNumber,
		Date:      f.InvoiceDate,
		TotalHT:   f.TotalHT,
		VATAmount: f.VATAmount,
		TotalTTC:  f.TotalTTC,
		Currency:  f.Currency,
		Supplier: entity.Supplier{
			Name:    f.SupplierName,
			Address: f.SupplierAddress,
			ICE:     f.ICE,
			CNSS:    f.CNSS,
			TaxID:   f.TaxID,
		},
	}
	for _, it := range f.LineItems {
		inv.Items = append(inv.Items, entity.LineItem{
			Designation: it.Designation,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return inv
}
