package extraction

// Confidence assigned when the provider reports none, and to every fallback result.
const (
	DefaultConfidence  = 0.7
	FallbackConfidence = 0.65
)

// Alternative keys accepted from primary extractor payloads, in priority order.
var (
	invoiceNumberKeys    = []string{"invoice_number", "invoiceNumber", "invoice.number", "invoice_id", "invoiceId"}
	invoiceInternalKeys  = []string{"invoice_internal", "invoiceInternal", "invoice.internal"}
	docInternalRefKeys   = []string{"doc_internal_ref", "docInternalRef"}
	remesaKeys           = []string{"remesa", "invoice.remesa"}
	remitoKeys           = []string{"remito", "invoice.remito", "delivery_note"}
	invoiceDateKeys      = []string{"invoice_date", "invoiceDate", "invoice.date", "date"}
	dueDateKeys          = []string{"due_date", "dueDate", "invoice.due_date", "invoice.dueDate"}
	currencyKeys         = []string{"currency", "currency_code", "currencyCode", "invoice.currency"}
	subtotalKeys         = []string{"subtotal", "sub_total", "net_amount", "totals.subtotal", "invoice.subtotal"}
	ivaTotalKeys         = []string{"iva_total", "ivaTotal", "vat_total", "tax_total", "totals.iva", "invoice.iva_total"}
	perceptionsTotalKeys = []string{"perceptions_total", "perceptionsTotal", "percepciones", "totals.perceptions", "invoice.perceptions_total"}
	grandTotalKeys       = []string{"grand_total", "grandTotal", "total", "total_amount", "totals.total", "invoice.total"}
	confidenceKeys       = []string{"extract_confidence", "confidence"}
	lineKeys             = []string{"lines", "line_items", "items", "invoice.lines"}

	lineNoKeys      = []string{"line_no", "lineNo", "line_number", "position"}
	codeRawKeys     = []string{"code_raw", "code", "sku", "product_code"}
	descriptionKeys = []string{"description", "desc", "detail", "name"}
	qtyKeys         = []string{"qty", "quantity", "cantidad"}
	unitPriceKeys   = []string{"unit_price", "unitPrice", "price"}
	lineTotalKeys   = []string{"line_total", "lineTotal", "total", "amount"}
)

// NormalizeDocAI converts a primary extractor payload into the canonical shape.
func NormalizeDocAI(req Request, raw map[string]any) *Extraction {
	e := newExtraction(req)

	e.InvoiceNumber = stringAt(raw, invoiceNumberKeys...)
	e.InvoiceInternal = stringAt(raw, invoiceInternalKeys...)
	if e.DocInternalRef == "" {
		e.DocInternalRef = stringAt(raw, docInternalRefKeys...)
	}
	e.Remesa = stringAt(raw, remesaKeys...)
	e.Remito = stringAt(raw, remitoKeys...)
	e.InvoiceDate = stringAt(raw, invoiceDateKeys...)
	e.DueDate = stringAt(raw, dueDateKeys...)
	if c := stringAt(raw, currencyKeys...); c != "" {
		e.Currency = c
	}

	e.Subtotal = numberishAt(raw, subtotalKeys...)
	e.IVATotal = numberishAt(raw, ivaTotalKeys...)
	e.PerceptionsTotal = numberishAt(raw, perceptionsTotalKeys...)
	e.GrandTotal = numberishAt(raw, grandTotalKeys...)

	e.ExtractConfidence = DefaultConfidence
	if c, ok := floatAt(raw, confidenceKeys...); ok {
		e.ExtractConfidence = min(max(c, 0), 1)
	}
	e.RawExtraction = raw

	for i, line := range linesAt(raw, lineKeys...) {
		item := LineItem{
			LineNo:      numberishAt(line, lineNoKeys...),
			CodeRaw:     stringAt(line, codeRawKeys...),
			Description: stringAt(line, descriptionKeys...),
			Qty:         numberishAt(line, qtyKeys...),
			UnitPrice:   numberishAt(line, unitPriceKeys...),
			LineTotal:   numberishAt(line, lineTotalKeys...),
		}
		if !item.LineNo.IsPresent() {
			item.LineNo = Number(float64(i + 1))
		}
		e.Lines = append(e.Lines, item)
	}

	return e
}

// NormalizeOpenAI converts a schema-constrained fallback payload into the
// canonical shape. raw is the provider response kept for audit.
func NormalizeOpenAI(req Request, parsed, raw map[string]any) *Extraction {
	e := newExtraction(req)

	e.InvoiceNumber = toString(parsed["invoice_number"])
	e.InvoiceInternal = toString(parsed["invoice_internal"])
	if e.DocInternalRef == "" {
		e.DocInternalRef = toString(parsed["doc_internal_ref"])
	}
	e.Remesa = toString(parsed["remesa"])
	e.Remito = toString(parsed["remito"])
	e.InvoiceDate = toString(parsed["invoice_date"])
	e.DueDate = toString(parsed["due_date"])
	if c := toString(parsed["currency"]); c != "" {
		e.Currency = c
	}

	e.Subtotal = NumberishOf(parsed["subtotal"])
	e.IVATotal = NumberishOf(parsed["iva_total"])
	e.PerceptionsTotal = NumberishOf(parsed["perceptions_total"])
	e.GrandTotal = NumberishOf(parsed["grand_total"])

	e.ExtractorFallbackUsed = true
	e.ExtractConfidence = FallbackConfidence
	e.RawExtraction = raw

	items, _ := parsed["lines"].([]any)
	for i, v := range items {
		line, ok := v.(map[string]any)
		if !ok {
			continue
		}
		item := LineItem{
			LineNo:      NumberishOf(line["line_no"]),
			CodeRaw:     toString(line["code_raw"]),
			Description: toString(line["description"]),
			Qty:         NumberishOf(line["qty"]),
			UnitPrice:   NumberishOf(line["unit_price"]),
			LineTotal:   NumberishOf(line["line_total"]),
		}
		if !item.LineNo.IsPresent() {
			item.LineNo = Number(float64(i + 1))
		}
		e.Lines = append(e.Lines, item)
	}

	return e
}
