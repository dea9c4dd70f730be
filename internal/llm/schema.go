package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildInvoiceJSONSchema returns the shape contract for the model reply as
// a generic map. Types are deliberately loose — string-or-number-or-null —
// because completeness is the reconciler's call, not the schema's; the
// schema only rejects structurally broken replies (wrong container types,
// line_items that are not an array of objects).
func BuildInvoiceJSONSchema() map[string]any {
	loose := map[string]any{"type": []string{"string", "number", "null"}}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"invoice_number": loose,
			"invoice_date":   loose,
			"client_name":    loose,
			"client_address": loose,
			"client_ice":     loose,
			"client_cnss":    loose,
			"client_if":      loose,
			"total_ht":       loose,
			"vat_amount":     loose,
			"total_ttc":      loose,
			"currency":       loose,
			"line_items": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"designation": loose,
						"quantity":    loose,
						"unit_price":  loose,
						"total_price": loose,
					},
				},
			},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
