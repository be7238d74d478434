package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaName identifies the invoice schema in fallback requests.
const SchemaName = "invoice_extraction"

var (
	invoiceStringFields = []string{
		"invoice_number", "invoice_internal", "doc_internal_ref", "remesa",
		"remito", "invoice_date", "due_date", "currency",
	}
	invoiceAmountFields = []string{"subtotal", "iva_total", "perceptions_total", "grand_total"}
)

func nullableString() map[string]any {
	return map[string]any{"type": []any{"string", "null"}}
}

func nullableAmount() map[string]any {
	return map[string]any{"type": []any{"string", "number", "null"}}
}

// BuildInvoiceJSONSchema returns the strict JSON schema the fallback
// extractor must satisfy. Every property is required; absent values are null.
func BuildInvoiceJSONSchema() map[string]any {
	line := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"line_no":     map[string]any{"type": []any{"integer", "string", "null"}},
			"code_raw":    nullableString(),
			"description": map[string]any{"type": "string"},
			"qty":         nullableAmount(),
			"unit_price":  nullableAmount(),
			"line_total":  nullableAmount(),
		},
		"required": []any{"line_no", "code_raw", "description", "qty", "unit_price", "line_total"},
	}

	properties := make(map[string]any, len(invoiceStringFields)+len(invoiceAmountFields)+1)
	required := make([]any, 0, len(properties))

	for _, f := range invoiceStringFields {
		properties[f] = nullableString()
		required = append(required, f)
	}
	for _, f := range invoiceAmountFields {
		properties[f] = nullableAmount()
		required = append(required, f)
	}
	properties["lines"] = map[string]any{"type": "array", "items": line}
	required = append(required, "lines")

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
		"required":             required,
	}
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("invoice.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("invoice.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validatePayload(schema *jsonschema.Schema, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return nil
}
