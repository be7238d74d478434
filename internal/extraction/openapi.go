package extraction

import (
	"net/http"

	"github.com/JaimeStill/facturas/pkg/openapi"
)

var (
	text   = &openapi.Schema{Type: "string", Description: "Empty when not found"}
	amount = &openapi.Schema{
		Description: "Number, string as found on the document, or null",
		OneOf:       []*openapi.Schema{{Type: "number"}, {Type: "string"}, {Type: "null"}},
	}
)

// Schemas returns the component schemas referenced by the extraction operation.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"ExtractionRequest": {
			Type:     "object",
			Required: []string{"document_id", "client_id", "supplier"},
			Properties: map[string]*openapi.Schema{
				"document_id":      {Type: "string", Format: "uuid"},
				"client_id":        {Type: "string"},
				"supplier":         {Type: "string"},
				"drive_file_id":    {Type: "string", Description: "Google Drive file ID"},
				"storage_bucket":   {Type: "string", Description: "Required together with storage_path"},
				"storage_path":     {Type: "string", Description: "Required together with storage_bucket"},
				"doc_internal_ref": {Type: "string"},
			},
		},
		"LineItem": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"line_no":     amount,
				"code_raw":    text,
				"description": text,
				"qty":         amount,
				"unit_price":  amount,
				"line_total":  amount,
			},
		},
		"Extraction": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_id":             {Type: "string", Format: "uuid"},
				"client_id":               {Type: "string"},
				"supplier":                {Type: "string"},
				"invoice_number":          text,
				"invoice_internal":        text,
				"doc_internal_ref":        text,
				"remesa":                  text,
				"remito":                  text,
				"invoice_date":            text,
				"due_date":                text,
				"currency":                {Type: "string", Default: DefaultCurrency},
				"subtotal":                amount,
				"iva_total":               amount,
				"perceptions_total":       amount,
				"grand_total":             amount,
				"extractor_primary":       {Type: "string", Enum: []any{PrimaryEngine}},
				"extractor_fallback_used": {Type: "boolean"},
				"extract_confidence":      {Type: "number"},
				"raw_extraction":          {Type: "object"},
				"lines":                   {Type: "array", Items: openapi.SchemaRef("LineItem")},
			},
		},
		"Quality": {
			Type:     "object",
			Required: []string{"score", "needs_review", "reasons", "checks"},
			Properties: map[string]*openapi.Schema{
				"score":        {Type: "number", Description: "Weighted score in [0, 1]"},
				"needs_review": {Type: "boolean"},
				"reasons":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"checks": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"required_fields_ok":    {Type: "boolean"},
						"totals_consistency_ok": {Type: "boolean"},
						"lines_consistency_ok":  {Type: "boolean"},
					},
				},
			},
		},
		"ExtractionResponse": {
			Type:     "object",
			Required: []string{"success", "extraction", "quality", "meta"},
			Properties: map[string]*openapi.Schema{
				"success":    {Type: "boolean", Example: true},
				"extraction": openapi.SchemaRef("Extraction"),
				"quality":    openapi.SchemaRef("Quality"),
				"meta": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"request_id":         {Type: "string"},
						"duration_ms":        {Type: "integer"},
						"fallback_attempted": {Type: "boolean"},
						"fallback_succeeded": {Type: "boolean"},
					},
				},
			},
		},
	}
}

func extractOperation() *openapi.Operation {
	responses := openapi.ErrorResponses()
	responses[http.StatusOK] = openapi.ResponseJSON("Extraction with quality verdict", "ExtractionResponse")

	return &openapi.Operation{
		OperationID: "createExtraction",
		Summary:     "Extract an invoice",
		Description: "Fetches the PDF, runs the primary extractor, scores the result, and retries with the LLM fallback when review is needed.",
		RequestBody: openapi.RequestBodyJSON("ExtractionRequest", true),
		Responses:   responses,
		Security:    openapi.RequireBearer(),
	}
}
