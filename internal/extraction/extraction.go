// Package extraction turns an invoice document into a canonical, quality-scored
// extraction using a primary document extractor and an LLM fallback.
package extraction

// PrimaryEngine tags every extraction with the engine that produced its base shape.
const PrimaryEngine = "docai"

// DefaultCurrency applies when no currency is reported.
const DefaultCurrency = "ARS"

// Extraction is the canonical invoice shape shared by both extractors.
type Extraction struct {
	Supplier        string `json:"supplier"`
	ClientID        string `json:"client_id"`
	DocumentID      string `json:"document_id"`
	InvoiceNumber   string `json:"invoice_number"`
	InvoiceInternal string `json:"invoice_internal"`
	DocInternalRef  string `json:"doc_internal_ref"`
	Remesa          string `json:"remesa"`
	Remito          string `json:"remito"`
	InvoiceDate     string `json:"invoice_date"`
	DueDate         string `json:"due_date"`
	Currency        string `json:"currency"`

	Subtotal         Numberish `json:"subtotal"`
	IVATotal         Numberish `json:"iva_total"`
	PerceptionsTotal Numberish `json:"perceptions_total"`
	GrandTotal       Numberish `json:"grand_total"`

	ExtractorPrimary      string         `json:"extractor_primary"`
	ExtractorFallbackUsed bool           `json:"extractor_fallback_used"`
	ExtractConfidence     float64        `json:"extract_confidence"`
	RawExtraction         map[string]any `json:"raw_extraction"`
	Lines                 []LineItem     `json:"lines"`
}

// LineItem is a single invoice line.
type LineItem struct {
	LineNo      Numberish `json:"line_no"`
	CodeRaw     string    `json:"code_raw"`
	Description string    `json:"description"`
	Qty         Numberish `json:"qty"`
	UnitPrice   Numberish `json:"unit_price"`
	LineTotal   Numberish `json:"line_total"`
}

func newExtraction(req Request) *Extraction {
	return &Extraction{
		Supplier:         req.Supplier,
		ClientID:         req.ClientID,
		DocumentID:       req.DocumentID,
		DocInternalRef:   req.DocInternalRef,
		Currency:         DefaultCurrency,
		ExtractorPrimary: PrimaryEngine,
		Lines:            []LineItem{},
	}
}
