package docai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JaimeStill/facturas/pkg/formatting"
)

// DefaultConfidence is reported when no entity carries a confidence score.
const DefaultConfidence = 0.7

// ProcessResponse is the subset of a Document AI process response that is read.
type ProcessResponse struct {
	Document struct {
		Entities []Entity `json:"entities"`
	} `json:"document"`
}

// Entity is a typed extraction unit. Line items carry their sub-fields in Properties.
type Entity struct {
	Type            string           `json:"type"`
	MentionText     string           `json:"mentionText"`
	Confidence      *float64         `json:"confidence"`
	NormalizedValue *NormalizedValue `json:"normalizedValue"`
	Properties      []Entity         `json:"properties"`
}

// NormalizedValue holds the structured interpretation of an entity.
type NormalizedValue struct {
	Text         string   `json:"text"`
	MoneyValue   *Money   `json:"moneyValue"`
	DateValue    *Date    `json:"dateValue"`
	FloatValue   *float64 `json:"floatValue"`
	IntegerValue *Int64   `json:"integerValue"`
}

// Money is a google.type.Money value.
type Money struct {
	CurrencyCode string `json:"currencyCode"`
	Units        Int64  `json:"units"`
	Nanos        int32  `json:"nanos"`
}

// Date is a google.type.Date value.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Int64 decodes an integer encoded either as a JSON number or a JSON string.
type Int64 int64

func (i *Int64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("decode int64 %s: %w", data, err)
	}
	*i = Int64(n)
	return nil
}

var fieldTypes = []struct {
	key   string
	types []string
}{
	{"invoice_number", []string{"invoice_id", "invoice_number"}},
	{"invoice_date", []string{"invoice_date"}},
	{"due_date", []string{"due_date"}},
	{"subtotal", []string{"net_amount", "subtotal"}},
	{"iva_total", []string{"total_tax_amount", "vat", "iva", "tax_amount"}},
	{"perceptions_total", []string{"perceptions_total", "perceptions", "percepciones"}},
	{"grand_total", []string{"total_amount", "grand_total", "total"}},
	{"remito", []string{"remito", "delivery_note"}},
	{"remesa", []string{"remesa", "remittance"}},
	{"invoice_internal", []string{"invoice_internal", "internal_reference"}},
}

var lineTypes = []struct {
	key   string
	types []string
}{
	{"code_raw", []string{"product_code", "code", "sku"}},
	{"description", []string{"description"}},
	{"qty", []string{"quantity", "qty"}},
	{"unit_price", []string{"unit_price"}},
	{"line_total", []string{"amount", "line_total"}},
}

// MapEntities flattens Document AI entities into the invoice keys read by the
// extraction normalizer. raw is kept under "raw" for audit.
func MapEntities(entities []Entity, raw map[string]any) map[string]any {
	payload := make(map[string]any, len(fieldTypes)+4)

	for _, f := range fieldTypes {
		if e := FindEntity(entities, f.types...); e != nil {
			payload[f.key] = e.Value()
		}
	}

	payload["currency"] = currency(entities)
	payload["confidence"] = meanConfidence(entities)

	lines := make([]any, 0)
	for _, e := range entities {
		if !strings.HasSuffix(strings.ToLower(e.Type), "line_item") {
			continue
		}
		line := make(map[string]any, len(lineTypes))
		for _, f := range lineTypes {
			if p := FindEntity(e.Properties, f.types...); p != nil {
				line[f.key] = p.Value()
			}
		}
		lines = append(lines, line)
	}
	payload["lines"] = lines

	if raw != nil {
		payload["raw"] = raw
	}
	return payload
}

// FindEntity returns the first entity matching the earliest listed type name.
// Matching ignores case and accepts a parent prefix such as "line_item/amount".
func FindEntity(entities []Entity, types ...string) *Entity {
	for _, t := range types {
		for i := range entities {
			if typeMatches(entities[i].Type, t) {
				return &entities[i]
			}
		}
	}
	return nil
}

func typeMatches(entityType, name string) bool {
	et := strings.ToLower(strings.TrimSpace(entityType))
	name = strings.ToLower(name)
	return et == name || strings.HasSuffix(et, "/"+name)
}

// Value returns the entity's text, preferring the mention text, then the
// normalized text, then money, date, and numeric normalized values.
func (e *Entity) Value() string {
	if s := strings.TrimSpace(e.MentionText); s != "" {
		return s
	}
	nv := e.NormalizedValue
	if nv == nil {
		return ""
	}
	if s := strings.TrimSpace(nv.Text); s != "" {
		return s
	}
	switch {
	case nv.MoneyValue != nil:
		return formatting.FormatMoney(int64(nv.MoneyValue.Units), nv.MoneyValue.Nanos)
	case nv.DateValue != nil:
		return nv.DateValue.String()
	case nv.FloatValue != nil:
		return strconv.FormatFloat(*nv.FloatValue, 'f', -1, 64)
	case nv.IntegerValue != nil:
		return strconv.FormatInt(int64(*nv.IntegerValue), 10)
	}
	return ""
}

// String renders the date as YYYY-MM-DD, or "" when any part is missing.
func (d Date) String() string {
	if d.Year == 0 || d.Month == 0 || d.Day == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func currency(entities []Entity) string {
	if e := FindEntity(entities, "currency", "currency_code"); e != nil {
		if v := e.Value(); v != "" {
			return v
		}
	}
	if e := FindEntity(entities, "total_amount", "grand_total", "total"); e != nil {
		if nv := e.NormalizedValue; nv != nil && nv.MoneyValue != nil && nv.MoneyValue.CurrencyCode != "" {
			return nv.MoneyValue.CurrencyCode
		}
	}
	return "ARS"
}

func meanConfidence(entities []Entity) float64 {
	var sum float64
	var n int
	for _, e := range entities {
		if e.Confidence != nil {
			sum += *e.Confidence
			n++
		}
	}
	if n == 0 {
		return DefaultConfidence
	}
	return sum / float64(n)
}
