package extraction

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Quality reasons.
const (
	ReasonRequiredFields      = "required_fields_failed"
	ReasonTotalsConsistency   = "totals_consistency_failed"
	ReasonLinesConsistency    = "lines_consistency_failed"
	ReasonFallbackNotSelected = "fallback_not_selected"
	ReasonFallbackFailed      = "fallback_failed:"
)

var (
	weightRequired = decimal.RequireFromString("0.5")
	weightTotals   = decimal.RequireFromString("0.3")
	weightLines    = decimal.RequireFromString("0.2")

	toleranceRate  = decimal.RequireFromString("0.01")
	toleranceFloor = decimal.NewFromInt(2)
)

// Checks holds the individual quality checks.
type Checks struct {
	RequiredFieldsOK    bool `json:"required_fields_ok"`
	TotalsConsistencyOK bool `json:"totals_consistency_ok"`
	LinesConsistencyOK  bool `json:"lines_consistency_ok"`
}

// Verdict scores an extraction.
type Verdict struct {
	Score       float64  `json:"score"`
	NeedsReview bool     `json:"needs_review"`
	Reasons     []string `json:"reasons"`
	Checks      Checks   `json:"checks"`
}

// Evaluate scores e against the required fields, totals consistency and
// lines consistency checks.
func Evaluate(e *Extraction) Verdict {
	checks := Checks{
		RequiredFieldsOK:    requiredFieldsOK(e),
		TotalsConsistencyOK: totalsConsistent(e),
		LinesConsistencyOK:  linesConsistent(e),
	}

	score := decimal.Zero
	reasons := []string{}

	if checks.RequiredFieldsOK {
		score = score.Add(weightRequired)
	} else {
		reasons = append(reasons, ReasonRequiredFields)
	}
	if checks.TotalsConsistencyOK {
		score = score.Add(weightTotals)
	} else {
		reasons = append(reasons, ReasonTotalsConsistency)
	}
	if checks.LinesConsistencyOK {
		score = score.Add(weightLines)
	} else {
		reasons = append(reasons, ReasonLinesConsistency)
	}

	return Verdict{
		Score:       score.Round(4).InexactFloat64(),
		NeedsReview: !(checks.RequiredFieldsOK && checks.TotalsConsistencyOK && checks.LinesConsistencyOK),
		Reasons:     reasons,
		Checks:      checks,
	}
}

// WithReason returns a copy of v with reason added once and review forced.
func (v Verdict) WithReason(reason string) Verdict {
	reasons := slices.Clone(v.Reasons)
	if reasons == nil {
		reasons = []string{}
	}
	if !slices.Contains(reasons, reason) {
		reasons = append(reasons, reason)
	}
	v.Reasons = reasons
	v.NeedsReview = true
	return v
}

// Tolerance is the allowed difference when comparing totals against x:
// one percent of |x| with a floor of 2.
func Tolerance(x decimal.Decimal) decimal.Decimal {
	return decimal.Max(x.Abs().Mul(toleranceRate), toleranceFloor)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func requiredFieldsOK(e *Extraction) bool {
	if !present(e.InvoiceNumber) || !present(e.InvoiceDate) || !present(e.Currency) || !e.GrandTotal.IsPresent() {
		return false
	}
	if len(e.Lines) == 0 {
		return false
	}
	for _, l := range e.Lines {
		if !present(l.Description) || !l.Qty.IsPresent() || !l.UnitPrice.IsPresent() || !l.LineTotal.IsPresent() {
			return false
		}
	}
	return true
}

func totalsConsistent(e *Extraction) bool {
	subtotal, ok1 := e.Subtotal.Amount()
	iva, ok2 := e.IVATotal.Amount()
	perceptions, ok3 := e.PerceptionsTotal.Amount()
	grand, ok4 := e.GrandTotal.Amount()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}

	diff := subtotal.Add(iva).Add(perceptions).Sub(grand).Abs()
	return diff.LessThanOrEqual(Tolerance(grand))
}

func linesConsistent(e *Extraction) bool {
	subtotal, ok := e.Subtotal.Amount()
	if !ok || len(e.Lines) == 0 {
		return false
	}

	sum := decimal.Zero
	for _, l := range e.Lines {
		total, ok := l.LineTotal.Amount()
		if !ok {
			return false
		}
		sum = sum.Add(total)
	}

	return sum.Sub(subtotal).Abs().LessThanOrEqual(Tolerance(subtotal))
}
