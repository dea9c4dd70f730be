package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nmezrioui/facturex/internal/common"
	"github.com/nmezrioui/facturex/internal/extract"
)

// Extractor implements FieldExtractor on top of any Completer. It owns the
// reply-to-fields path: locate the first balanced JSON object in the reply,
// check its shape against the schema, then coerce it into extract.Fields.
type Extractor struct {
	completer Completer
	logger    *slog.Logger
}

func NewExtractor(completer Completer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{completer: completer, logger: logger}
}

func (e *Extractor) ExtractFields(ctx context.Context, req ExtractRequest) (extract.Fields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	e.logger.Info("llm.extract.start",
		"req_id", rid,
		"text_len", len(req.Text),
		"excluded", req.Excluded.Name,
	)

	reply, err := e.completer.Complete(ctx, BuildSystemPrompt(req), BuildUserPrompt(req))
	if err != nil {
		e.logger.Warn("llm.extract.unavailable",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Fields{}, nil, fmt.Errorf("%w: %w", common.ErrAIUnavailable, err)
	}

	obj, ok := FirstJSONObject(reply)
	if !ok {
		e.logger.Warn("llm.extract.no_json_object",
			"req_id", rid, "reply_bytes", len(reply),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Fields{}, []byte(reply), fmt.Errorf("%w: no balanced JSON object in reply", common.ErrMalformedReply)
	}
	raw := []byte(obj)

	if err := ValidateJSONAgainstSchema(BuildInvoiceJSONSchema(), raw); err != nil {
		e.logger.Warn("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Fields{}, raw, fmt.Errorf("%w: %w", common.ErrMalformedReply, err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return extract.Fields{}, raw, fmt.Errorf("%w: decode object: %w", common.ErrMalformedReply, err)
	}
	fields := extract.FieldsFromMap(m)

	e.logger.Info("llm.extract.ok",
		"req_id", rid,
		"number", fields.InvoiceNumber,
		"date", fields.InvoiceDate,
		"client", fields.SupplierName,
		"items", len(fields.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, raw, nil
}
