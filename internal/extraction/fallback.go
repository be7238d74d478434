package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/JaimeStill/facturas/pkg/openai"
)

// Responder sends a schema-constrained request to an LLM.
type Responder interface {
	Respond(ctx context.Context, r openai.ResponseRequest) (*openai.Response, error)
}

// FallbackOutput is the provider response and the JSON object recovered from it.
type FallbackOutput struct {
	Raw    map[string]any
	Parsed map[string]any
}

// Fallback extracts invoices with an LLM constrained by the invoice schema.
type Fallback struct {
	client    Responder
	schemaMap map[string]any
	schema    *jsonschema.Schema
	logger    *slog.Logger
}

// NewFallback creates a Fallback around client.
func NewFallback(client Responder, logger *slog.Logger) (*Fallback, error) {
	schemaMap := BuildInvoiceJSONSchema()
	schema, err := compileSchema(schemaMap)
	if err != nil {
		return nil, err
	}
	return &Fallback{
		client:    client,
		schemaMap: schemaMap,
		schema:    schema,
		logger:    logger.With("system", "fallback"),
	}, nil
}

// ExtractFallback asks the LLM to extract the supplier's invoice from pdf.
func (f *Fallback) ExtractFallback(ctx context.Context, pdf []byte, supplier string) (*FallbackOutput, error) {
	resp, err := f.client.Respond(ctx, openai.ResponseRequest{
		Instruction: instruction(supplier),
		Filename:    "invoice.pdf",
		Data:        pdf,
		MimeType:    "application/pdf",
		SchemaName:  SchemaName,
		Schema:      f.schemaMap,
	})
	if err != nil {
		return nil, err
	}

	if err := validatePayload(f.schema, resp.Parsed); err != nil {
		f.logger.WarnContext(ctx, "fallback payload outside schema", "error", err)
	}

	return &FallbackOutput{Raw: resp.Raw, Parsed: resp.Parsed}, nil
}

func instruction(supplier string) string {
	return fmt.Sprintf(
		"Extract this %s invoice into strict JSON. Only return data present in the PDF. Do not infer missing values.",
		supplier,
	)
}
