package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/facturas/internal/files"
)

// PrimaryExtractor returns the raw payload of the primary document extractor.
type PrimaryExtractor interface {
	Extract(ctx context.Context, pdf []byte) (map[string]any, error)
}

// FallbackExtractor runs the LLM extractor for a supplier's invoice.
type FallbackExtractor interface {
	ExtractFallback(ctx context.Context, pdf []byte, supplier string) (*FallbackOutput, error)
}

// Meta records how the fallback extractor took part in a result.
type Meta struct {
	FallbackAttempted bool `json:"fallback_attempted"`
	FallbackSucceeded bool `json:"fallback_succeeded"`
}

// Result is the final extraction with its verdict.
type Result struct {
	Extraction *Extraction `json:"extraction"`
	Quality    Verdict     `json:"quality"`
	Meta       Meta        `json:"meta"`
}

// System runs extraction requests end to end.
type System interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Pipeline acquires a document, extracts it with the primary extractor and
// consults the fallback only when the primary result needs review.
type Pipeline struct {
	files    files.System
	primary  PrimaryExtractor
	fallback FallbackExtractor
	logger   *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(fs files.System, primary PrimaryExtractor, fallback FallbackExtractor, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		files:    fs,
		primary:  primary,
		fallback: fallback,
		logger:   logger.With("system", "pipeline"),
	}
}

// Run executes the pipeline for req. Acquisition and primary extraction
// failures are returned; fallback failures annotate the primary result.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	file, err := p.files.Fetch(ctx, req.Reference())
	if err != nil {
		return nil, fmt.Errorf("acquire document: %w", err)
	}

	raw, err := p.primary.Extract(ctx, file.Data)
	if err != nil {
		return nil, fmt.Errorf("primary extraction: %w", err)
	}

	primary := NormalizeDocAI(req, raw)
	primaryVerdict := Evaluate(primary)

	p.logger.InfoContext(ctx, "primary evaluated",
		"document_id", req.DocumentID,
		"score", primaryVerdict.Score,
		"needs_review", primaryVerdict.NeedsReview,
		"lines", len(primary.Lines),
	)

	if !primaryVerdict.NeedsReview {
		return &Result{Extraction: primary, Quality: primaryVerdict}, nil
	}

	out, err := p.fallback.ExtractFallback(ctx, file.Data, req.Supplier)
	if err != nil {
		p.logger.WarnContext(ctx, "fallback failed", "document_id", req.DocumentID, "error", err)
		return &Result{
			Extraction: primary,
			Quality:    primaryVerdict.WithReason(ReasonFallbackFailed + err.Error()),
			Meta:       Meta{FallbackAttempted: true},
		}, nil
	}

	fallback := NormalizeOpenAI(req, out.Parsed, out.Raw)
	fallbackVerdict := Evaluate(fallback)
	meta := Meta{FallbackAttempted: true, FallbackSucceeded: true}

	selected := preferFallback(primary, primaryVerdict, fallback, fallbackVerdict)

	p.logger.InfoContext(ctx, "fallback evaluated",
		"document_id", req.DocumentID,
		"score", fallbackVerdict.Score,
		"needs_review", fallbackVerdict.NeedsReview,
		"lines", len(fallback.Lines),
		"selected", selected,
	)

	if selected {
		return &Result{Extraction: fallback, Quality: fallbackVerdict, Meta: meta}, nil
	}

	return &Result{
		Extraction: primary,
		Quality:    primaryVerdict.WithReason(ReasonFallbackNotSelected),
		Meta:       meta,
	}, nil
}

// preferFallback selects the fallback when it scores higher, clears review
// while the primary does not, or ties on score with more lines.
func preferFallback(primary *Extraction, pv Verdict, fallback *Extraction, fv Verdict) bool {
	switch {
	case fv.Score > pv.Score:
		return true
	case !fv.NeedsReview && pv.NeedsReview:
		return true
	case fv.Score == pv.Score && len(fallback.Lines) > len(primary.Lines):
		return true
	}
	return false
}
