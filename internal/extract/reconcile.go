package extract

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/nmezrioui/facturex/internal/common"
)

var (
	reRepairNumber = regexp.MustCompile(`(?i)\b(?:facture|invoice)\b\s*(?:n[°o]\s*)?[:#]?\s*([A-Z0-9][A-Z0-9/-]{2,})`)
	reRepairDate   = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2})\b`)
)

// Reconciler decides whether the primary (AI) result is usable and merges
// with the deterministic fallback when it is not. Selection is whole-result:
// a partially populated AI result is never trusted piecemeal; the only
// cross-source patching happens in the two explicit repair passes below.
type Reconciler struct {
	fallback *FallbackExtractor
	layouts  []string
	logger   *slog.Logger
}

func NewReconciler(fallback *FallbackExtractor, layouts []string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return &Reconciler{fallback: fallback, layouts: layouts, logger: logger}
}

// Reconcile returns the final field set for a run. ai is nil when the
// primary extractor was unavailable or its reply unusable. The returned
// error is common.ErrValidation-shaped when no invoice date survives the
// repair passes; such runs must not persist anything.
func (r *Reconciler) Reconcile(text string, ai *Fields) (Fields, error) {
	var base Fields
	switch {
	case ai == nil:
		r.logger.Info("reconcile.base", "source", "fallback", "reason", "primary unavailable")
		base = r.fallback.Extract(text)
	case !ai.Complete():
		// Discard the AI result entirely; partial results are not merged.
		r.logger.Info("reconcile.base", "source", "fallback", "reason", "primary incomplete")
		base = r.fallback.Extract(text)
	default:
		r.logger.Info("reconcile.base", "source", "primary")
		base = *ai
		base.LineItems = SanitizeItems(base.LineItems)
	}

	// Repair passes: each optional, each non-fatal.
	if missing(base.InvoiceNumber) {
		if n := firstGroup(reRepairNumber, text); n != "" {
			r.logger.Debug("reconcile.repair", "field", "invoice_number", "value", n)
			base.InvoiceNumber = n
		}
	}
	if missing(base.InvoiceDate) {
		if tok := firstGroup(reRepairDate, text); tok != "" {
			if iso, ok := ParseDate(tok, r.layouts); ok {
				r.logger.Debug("reconcile.repair", "field", "invoice_date", "value", iso)
				base.InvoiceDate = iso
			}
		}
	}

	// Canonicalize a date the fallback left as a raw token.
	if !missing(base.InvoiceDate) {
		if iso, ok := ParseDate(base.InvoiceDate, r.layouts); ok {
			base.InvoiceDate = iso
		} else {
			r.logger.Warn("reconcile.date_unrecognized", "raw", base.InvoiceDate)
			base.InvoiceDate = ""
		}
	}

	if missing(base.InvoiceDate) {
		return base, common.NewAppError("MISSING_DATE",
			"invoice date could not be determined from the document", common.ErrValidation)
	}

	if missing(base.Currency) {
		base.Currency = r.fallback.cfg.DefaultCurrency
	}

	return base, nil
}

// String implements fmt.Stringer for log-friendly summaries.
func (f Fields) String() string {
	return fmt.Sprintf("invoice %q dated %s from %q (%d items)",
		f.InvoiceNumber, f.InvoiceDate, f.SupplierName, len(f.LineItems))
}
